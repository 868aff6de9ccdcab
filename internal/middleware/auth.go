package middleware

import (
	"net/http"
	"strings"

	"Care_Club/internal/pkg"
	"Care_Club/internal/repository/redis"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const ContextUserIDKey = "user_id"

const adminKeyHeader = "X-Admin-API-Key"

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			c.Abort()
			return
		}

		tokenStr := parts[1]
		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			c.Abort()
			return
		}

		// redis 比对当前有效 token，挤掉旧登录
		sessions := &redis.SessionRepository{}
		current, err := sessions.Get(c.Request.Context(), claims.UserID)
		if err != nil || current != tokenStr {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "account has been logged in elsewhere"})
			c.Abort()
			return
		}

		if err := sessions.Extend(c.Request.Context(), claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// AdminMiddleware 管理端走独立口令头，与用户 token 彻底隔离
// 配置里只放 bcrypt 散列；未配置时全部拒绝
func AdminMiddleware(adminKeyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := strings.TrimSpace(c.GetHeader(adminKeyHeader))
		if adminKeyHash == "" || provided == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "Admin access denied"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(adminKeyHash), []byte(provided)); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "Admin access denied"})
			return
		}
		c.Next()
	}
}

// UserID 从上下文取已注入的用户 id
func UserID(c *gin.Context) uint64 {
	v, _ := c.Get(ContextUserIDKey)
	id, _ := v.(uint64)
	return id
}
