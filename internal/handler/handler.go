package handler

import (
	"log"
	"net/http"
	"strconv"

	"Care_Club/internal/apperr"

	"github.com/gin-gonic/gin"
)

// respondErr 业务错误统一按 apperr 分类映射状态码，未分类错误只记日志不外泄
func respondErr(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError || status == http.StatusBadGateway {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"msg": apperr.Message(err)})
}

func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Not found"})
		return 0, false
	}
	return id, true
}
