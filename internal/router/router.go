package router

import (
	"net/http"

	"Care_Club/internal/handler"
	"Care_Club/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Post    *handler.PostHandler
	Comment *handler.CommentHandler
	Report  *handler.ReportHandler
	Admin   *handler.AdminHandler
}

func SetupRouter(h Handlers, adminKeyHash string) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	club := api.Group("/care-club")
	club.Use(middleware.AuthMiddleware())
	{
		club.GET("/posts", h.Post.List)
		club.POST("/posts", h.Post.Create)
		club.GET("/posts/:id", h.Post.Get)
		club.POST("/posts/:id/resolve", h.Post.Resolve)
		club.DELETE("/posts/:id", h.Post.Delete)

		club.GET("/posts/:id/comments", h.Comment.List)
		club.POST("/posts/:id/comments", h.Comment.Add)
		club.DELETE("/posts/:id/comments/:cid", h.Comment.Delete)
		club.POST("/posts/:id/comments/:cid/helpful", h.Comment.ToggleHelpful)

		club.POST("/report", h.Report.Report)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminMiddleware(adminKeyHash))
	{
		admin.GET("/reports", h.Admin.ListReports)
		admin.GET("/reports/:id", h.Admin.GetReport)
		admin.POST("/reports/:id/resolve", h.Admin.ResolveReport)
	}

	return r
}
