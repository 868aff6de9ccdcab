package handler

import (
	"net/http"
	"strconv"

	"Care_Club/internal/middleware"
	"Care_Club/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

type createPostRequest struct {
	PlantID   uint64   `json:"plant_id" binding:"required"`
	Title     string   `json:"title" binding:"required,max=120"`
	Details   string   `json:"details" binding:"max=1000"`
	Tried     string   `json:"tried" binding:"max=600"`
	PhotoURLs []string `json:"photo_urls" binding:"max=3"`
}

type resolvePostRequest struct {
	ResolvedNote string `json:"resolved_note" binding:"required,max=600"`
}

func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}

	view, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), service.CreatePostInput{
		PlantID:   req.PlantID,
		Title:     req.Title,
		Details:   req.Details,
		Tried:     req.Tried,
		PhotoURLs: req.PhotoURLs,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *PostHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, err := h.svc.List(c.Request.Context(), c.Query("status"), c.Query("cursor"), limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	view, err := h.svc.Get(c.Request.Context(), middleware.UserID(c), postID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PostHandler) Resolve(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req resolvePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "resolved_note is required"})
		return
	}
	view, err := h.svc.Resolve(c.Request.Context(), middleware.UserID(c), postID, req.ResolvedNote)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PostHandler) Delete(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), postID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
