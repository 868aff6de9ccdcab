package handler

import (
	"net/http"

	"Care_Club/internal/middleware"
	"Care_Club/internal/model"
	"Care_Club/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *service.ModerationService
}

func NewReportHandler(svc *service.ModerationService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type reportRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   uint64 `json:"target_id" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
	Notes      string `json:"notes" binding:"max=500"`
}

func (h *ReportHandler) Report(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}
	view, err := h.svc.Report(c.Request.Context(), middleware.UserID(c), service.ReportInput{
		TargetType: model.TargetType(req.TargetType),
		TargetID:   req.TargetID,
		Reason:     model.ReportReason(req.Reason),
		Notes:      req.Notes,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}
