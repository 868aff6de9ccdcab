package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"Care_Club/internal/pkg"
	"Care_Club/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	redis.Client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		redis.Close()
		redis.Client = nil
	})

	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter(t)

	token, err := pkg.GenerateAccess(7)
	require.NoError(t, err)
	sessions := &redis.SessionRepository{}
	require.NoError(t, sessions.Save(context.Background(), 7, token))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)

	// 没带头
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// token 合法但已被新登录挤掉
	require.NoError(t, sessions.Save(context.Background(), 7, "another-token"))
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	newRouter := func(keyHash string) *gin.Engine {
		r := gin.New()
		r.GET("/reports", AdminMiddleware(keyHash), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return r
	}

	r := newRouter(string(hash))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("X-Admin-API-Key", "s3cret")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("X-Admin-API-Key", "wrong")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 未配置散列时 fail closed
	r = newRouter("")
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("X-Admin-API-Key", "s3cret")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
