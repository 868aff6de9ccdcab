package mysql

import (
	"context"

	"Care_Club/internal/model"

	"gorm.io/gorm"
)

const outboxMaxRetry = 5

type OutboxRepository struct {
	DB *gorm.DB
}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{DB: DB}
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]model.ModerationOutbox, error) {
	var rows []model.ModerationOutbox
	err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ModerationOutbox{}).
		Where("id = ?", id).
		UpdateColumn("status", 1).Error
}

// MarkFailed 累加重试次数，超限后置 failed 不再投递
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ModerationOutbox{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"retry":  gorm.Expr("retry + 1"),
			"status": gorm.Expr("CASE WHEN retry + 1 >= ? THEN 2 ELSE 0 END", outboxMaxRetry),
		}).Error
}
