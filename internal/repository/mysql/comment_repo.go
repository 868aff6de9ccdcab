package mysql

import (
	"context"
	"time"

	"Care_Club/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{DB: DB}
}

// Add 插入评论并在同一事务内维护父帖聚合，不存在丢失更新窗口
func (r *CommentRepository) Add(ctx context.Context, comment *model.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Select("id").First(&post, comment.PostID).Error; err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumns(map[string]any{
				"comment_count":     gorm.Expr("comment_count + 1"),
				"latest_comment_at": comment.CreatedAt,
				"last_activity_at":  comment.CreatedAt,
				"updated_at":        comment.CreatedAt,
			}).Error
	})
}

// Delete 删除评论与其投票，并回减父帖计数；计数防负交给 CASE 兜底
func (r *CommentRepository) Delete(ctx context.Context, commentID, postID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", commentID).Delete(&model.HelpfulVote{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Comment{}, commentID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 已被并发删除，计数不动
			return nil
		}
		return tx.Model(&model.Post{}).
			Where("id = ?", postID).
			UpdateColumns(map[string]any{
				"comment_count": gorm.Expr("CASE WHEN comment_count > 0 THEN comment_count - 1 ELSE 0 END"),
				"updated_at":    time.Now(),
			}).Error
	})
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListActiveByPost 评论列表旧的在前，时间游标向后翻
func (r *CommentRepository) ListActiveByPost(ctx context.Context, postID uint64, cursor time.Time, limit int) ([]model.Comment, error) {
	var list []model.Comment
	q := r.DB.WithContext(ctx).
		Where("post_id = ? AND moderation_status = ?", postID, model.ModerationActive)
	if !cursor.IsZero() {
		q = q.Where("created_at > ?", cursor)
	}
	err := q.Order("created_at ASC, id ASC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *CommentRepository) CountActiveByPost(ctx context.Context, postID uint64) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ? AND moderation_status = ?", postID, model.ModerationActive).
		Count(&total).Error
	return total, err
}
