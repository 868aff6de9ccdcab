package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"Care_Club/internal/apperr"
	"Care_Club/internal/model"
	"Care_Club/internal/pkg"
	"Care_Club/internal/repository/mysql"

	"gorm.io/gorm"
)

type ReportInput struct {
	TargetType model.TargetType
	TargetID   uint64
	Reason     model.ReportReason
	Notes      string
}

type ReportView struct {
	ID             uint64               `json:"id"`
	ReporterUserID uint64               `json:"reporter_user_id"`
	TargetType     model.TargetType     `json:"target_type"`
	TargetID       uint64               `json:"target_id"`
	Reason         model.ReportReason   `json:"reason"`
	Notes          string               `json:"notes,omitempty"`
	Status         model.ReportStatus   `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
	ResolvedAt     *time.Time           `json:"resolved_at"`
	ResolvedAction *model.ResolveAction `json:"resolved_action"`
	ResolvedNote   string               `json:"resolved_note,omitempty"`
	Snapshot       json.RawMessage      `json:"snapshot,omitempty"`
}

type ReportListPage struct {
	Reports []ReportView `json:"reports"`
	Total   int64        `json:"total"`
}

type ModerationService struct {
	reports  *mysql.ReportRepository
	posts    *mysql.PostRepository
	comments *mysql.CommentRepository
	mailer   *pkg.Mailer
	alertTo  string
}

func NewModerationService(reports *mysql.ReportRepository, posts *mysql.PostRepository, comments *mysql.CommentRepository, mailer *pkg.Mailer, alertTo string) *ModerationService {
	return &ModerationService{reports: reports, posts: posts, comments: comments, mailer: mailer, alertTo: alertTo}
}

// Report 举报并自动隐藏目标（同事务）；同一人重复举报同一目标返回 Conflict
func (s *ModerationService) Report(ctx context.Context, reporterID uint64, in ReportInput) (*ReportView, error) {
	if !in.TargetType.Valid() {
		return nil, apperr.Validation("Invalid target_type")
	}
	if !in.Reason.Valid() {
		return nil, apperr.Validation("Invalid reason")
	}

	snapshot, err := s.buildSnapshot(ctx, in.TargetType, in.TargetID)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		ReporterUserID: reporterID,
		TargetType:     in.TargetType,
		TargetID:       in.TargetID,
		Reason:         in.Reason,
		Notes:          in.Notes,
		Status:         model.ReportOpen,
		Snapshot:       snapshot,
		CreatedAt:      time.Now(),
	}
	if err := s.reports.Create(ctx, report); err != nil {
		if errors.Is(err, mysql.ErrDuplicateReport) {
			return nil, apperr.Conflict("You have already reported this content")
		}
		return nil, err
	}

	s.alertAdmins(report)
	return reportView(report, false), nil
}

// buildSnapshot 举报时刻目标的最小快照，目标后续被删或改动不影响管理端审阅
func (s *ModerationService) buildSnapshot(ctx context.Context, targetType model.TargetType, targetID uint64) (string, error) {
	var payload map[string]any
	switch targetType {
	case model.TargetPost:
		post, err := s.posts.FindByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", apperr.NotFound("Post not found")
			}
			return "", err
		}
		payload = map[string]any{
			"target_type": targetType,
			"target_id":   targetID,
			"author_id":   post.AuthorID,
			"plant_id":    post.PlantID,
			"title":       post.Title,
			"created_at":  post.CreatedAt,
		}
	case model.TargetComment:
		comment, err := s.comments.FindByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", apperr.NotFound("Comment not found")
			}
			return "", err
		}
		payload = map[string]any{
			"target_type": targetType,
			"target_id":   targetID,
			"author_id":   comment.AuthorID,
			"post_id":     comment.PostID,
			"body":        comment.Body,
			"created_at":  comment.CreatedAt,
		}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// alertAdmins 尽力而为，失败只记日志，绝不影响举报主流程
func (s *ModerationService) alertAdmins(report *model.Report) {
	if !s.mailer.Enabled() || s.alertTo == "" {
		return
	}
	subject := fmt.Sprintf("[Care Club] New %s report #%d", report.TargetType, report.ID)
	body := fmt.Sprintf("Reason: %s\nTarget: %s %d\nNotes: %s\n", report.Reason, report.TargetType, report.TargetID, report.Notes)
	go func() {
		if err := s.mailer.Send(s.alertTo, subject, body); err != nil {
			log.Printf("moderation: admin alert mail failed: %v", err)
		}
	}()
}

func (s *ModerationService) ListReports(ctx context.Context, status string, limit int) (*ReportListPage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var reportStatus model.ReportStatus
	switch status {
	case "":
	case string(model.ReportOpen), string(model.ReportResolved):
		reportStatus = model.ReportStatus(status)
	default:
		return nil, apperr.Validation("Invalid status filter")
	}

	list, total, err := s.reports.List(ctx, reportStatus, limit)
	if err != nil {
		return nil, err
	}
	views := make([]ReportView, 0, len(list))
	for i := range list {
		views = append(views, *reportView(&list[i], false))
	}
	return &ReportListPage{Reports: views, Total: total}, nil
}

func (s *ModerationService) GetReport(ctx context.Context, reportID uint64) (*ReportView, error) {
	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Report not found")
		}
		return nil, err
	}
	return reportView(report, true), nil
}

// ResolveReport 管理员裁决 hidden -> {active, removed}；removed 为终态
// 重复裁决返回 Conflict
func (s *ModerationService) ResolveReport(ctx context.Context, reportID uint64, action model.ResolveAction, adminID, note string) (*ReportView, error) {
	if !action.Valid() {
		return nil, apperr.Validation("Invalid action")
	}
	report, err := s.reports.Resolve(ctx, reportID, action, adminID, note)
	if err != nil {
		switch {
		case errors.Is(err, mysql.ErrReportResolved):
			return nil, apperr.Conflict("Report is already resolved")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apperr.NotFound("Report not found")
		}
		return nil, err
	}
	return reportView(report, true), nil
}

func reportView(r *model.Report, withSnapshot bool) *ReportView {
	view := &ReportView{
		ID:             r.ID,
		ReporterUserID: r.ReporterUserID,
		TargetType:     r.TargetType,
		TargetID:       r.TargetID,
		Reason:         r.Reason,
		Notes:          r.Notes,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		ResolvedAt:     r.ResolvedAt,
		ResolvedAction: r.ResolvedAction,
		ResolvedNote:   r.ResolvedNote,
	}
	if withSnapshot && r.Snapshot != "" {
		view.Snapshot = json.RawMessage(r.Snapshot)
	}
	return view
}
