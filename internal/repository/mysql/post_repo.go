package mysql

import (
	"context"
	"time"

	"Care_Club/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository() *PostRepository {
	return &PostRepository{DB: DB}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

// FindByID 不做可见性过滤，审核态的判定交给 service 层
func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListActive 公共列表只返回 active，时间游标，新帖在前
// cursor 为零值表示第一页；多取由调用方控制 limit
func (r *PostRepository) ListActive(ctx context.Context, status model.PostStatus, cursor time.Time, limit int) ([]model.Post, error) {
	var list []model.Post
	q := r.DB.WithContext(ctx).Where("moderation_status = ?", model.ModerationActive)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if !cursor.IsZero() {
		q = q.Where("created_at < ?", cursor)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// CountActive 总数不含游标条件，保证翻页期间 total 稳定
func (r *PostRepository) CountActive(ctx context.Context, status model.PostStatus) (int64, error) {
	var total int64
	q := r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("moderation_status = ?", model.ModerationActive)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&total).Error
	return total, err
}

// Resolve 条件更新保证只解决一次；返回影响行数，0 表示已解决或不存在
func (r *PostRepository) Resolve(ctx context.Context, postID uint64, note string, now time.Time) (int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ? AND status = ?", postID, model.PostOpen).
		Updates(map[string]any{
			"status":           model.PostResolved,
			"resolved_at":      now,
			"resolved_note":    note,
			"updated_at":       now,
			"last_activity_at": now,
		})
	return tx.RowsAffected, tx.Error
}

// DeleteCascade 作者删帖为硬删除，评论与投票在同一事务内显式清理
func (r *PostRepository) DeleteCascade(ctx context.Context, postID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&model.HelpfulVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, postID).Error
	})
}
