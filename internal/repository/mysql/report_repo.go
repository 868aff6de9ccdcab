package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Care_Club/internal/model"

	"gorm.io/gorm"
)

var (
	ErrDuplicateReport = errors.New("duplicate report")
	ErrReportResolved  = errors.New("report already resolved")
)

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{DB: DB}
}

// Create 落举报并自动隐藏目标，二者同事务提交
// 重复举报由 uk_reporter_target 拒绝；只有 active 目标才发生 hide 迁移
func (r *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateReport
			}
			return err
		}

		if err := hideTarget(tx, report.TargetType, report.TargetID); err != nil {
			return err
		}

		return insertOutbox(tx, "report_created", report)
	})
}

func hideTarget(tx *gorm.DB, targetType model.TargetType, targetID uint64) error {
	return setTargetStatus(tx, targetType, targetID, model.ModerationActive, model.ModerationHidden)
}

// setTargetStatus 条件更新保证迁移只发生在合法前驱状态，并发重放不二次迁移
func setTargetStatus(tx *gorm.DB, targetType model.TargetType, targetID uint64, from, to model.ModerationStatus) error {
	if !from.CanTransition(to) {
		return nil
	}
	var dst any
	switch targetType {
	case model.TargetPost:
		dst = &model.Post{}
	case model.TargetComment:
		dst = &model.Comment{}
	default:
		return nil
	}
	// 目标可能已被作者硬删，0 行影响不算错误
	return tx.Model(dst).
		Where("id = ? AND moderation_status = ?", targetID, from).
		UpdateColumn("moderation_status", to).Error
}

func insertOutbox(tx *gorm.DB, eventType string, report *model.Report) error {
	payload, err := json.Marshal(map[string]any{
		"report_id":   report.ID,
		"target_type": report.TargetType,
		"target_id":   report.TargetID,
		"reason":      report.Reason,
		"status":      report.Status,
	})
	if err != nil {
		return err
	}
	return tx.Create(&model.ModerationOutbox{
		EventType: eventType,
		ReportID:  report.ID,
		Payload:   string(payload),
	}).Error
}

func (r *ReportRepository) FindByID(ctx context.Context, id uint64) (*model.Report, error) {
	var report model.Report
	err := r.DB.WithContext(ctx).First(&report, id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) List(ctx context.Context, status model.ReportStatus, limit int) ([]model.Report, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.Report{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Report
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, total, err
}

// Resolve 裁决：报告置 resolved、目标 hidden -> {active, removed}、追加审计行
// 条件更新 open -> resolved 保证只裁决一次，输掉竞态的一方拿到 ErrReportResolved
func (r *ReportRepository) Resolve(ctx context.Context, reportID uint64, action model.ResolveAction, adminID, note string) (*model.Report, error) {
	var report model.Report
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&report, reportID).Error; err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&model.Report{}).
			Where("id = ? AND status = ?", reportID, model.ReportOpen).
			Updates(map[string]any{
				"status":          model.ReportResolved,
				"resolved_at":     now,
				"resolved_action": action,
				"resolved_note":   note,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrReportResolved
		}
		report.Status = model.ReportResolved
		report.ResolvedAt = &now
		report.ResolvedAction = &action
		report.ResolvedNote = note

		if err := setTargetStatus(tx, report.TargetType, report.TargetID,
			model.ModerationHidden, action.TargetStatus()); err != nil {
			return err
		}

		if err := tx.Create(&model.ModerationAction{
			AdminID:    adminID,
			Action:     string(action),
			TargetType: report.TargetType,
			TargetID:   report.TargetID,
			ReportID:   report.ID,
			Note:       note,
			CreatedAt:  now,
		}).Error; err != nil {
			return err
		}

		return insertOutbox(tx, "report_resolved", &report)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}
