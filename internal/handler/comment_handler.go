package handler

import (
	"net/http"
	"strconv"

	"Care_Club/internal/middleware"
	"Care_Club/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc *service.CommentService
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

type addCommentRequest struct {
	Body      string   `json:"body" binding:"required,max=600"`
	PhotoURLs []string `json:"photo_urls" binding:"max=3"`
}

func (h *CommentHandler) List(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	page, err := h.svc.List(c.Request.Context(), middleware.UserID(c), postID, c.Query("cursor"), limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CommentHandler) Add(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}
	view, err := h.svc.Add(c.Request.Context(), middleware.UserID(c), postID, req.Body, req.PhotoURLs)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "cid")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), postID, commentID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

func (h *CommentHandler) ToggleHelpful(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "cid")
	if !ok {
		return
	}
	result, err := h.svc.ToggleHelpful(c.Request.Context(), middleware.UserID(c), postID, commentID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
