package handler

import (
	"net/http"
	"strconv"

	"Care_Club/internal/model"
	"Care_Club/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	svc *service.ModerationService
}

func NewAdminHandler(svc *service.ModerationService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type resolveReportRequest struct {
	Action string `json:"action" binding:"required"`
	Note   string `json:"note" binding:"max=600"`
}

func (h *AdminHandler) ListReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	page, err := h.svc.ListReports(c.Request.Context(), c.DefaultQuery("status", "open"), limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AdminHandler) GetReport(c *gin.Context) {
	reportID, ok := parseID(c, "id")
	if !ok {
		return
	}
	view, err := h.svc.GetReport(c.Request.Context(), reportID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *AdminHandler) ResolveReport(c *gin.Context) {
	reportID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req resolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}

	// 审计落谁裁的；网关层注入操作者标识，缺省记 admin
	actor := c.GetHeader("X-Admin-Actor")
	if actor == "" {
		actor = "admin"
	}

	view, err := h.svc.ResolveReport(c.Request.Context(), reportID, model.ResolveAction(req.Action), actor, req.Note)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
