package mysql

import (
	"context"
	"time"

	"Care_Club/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository struct {
	DB *gorm.DB
}

func NewVoteRepository() *VoteRepository {
	return &VoteRepository{DB: DB}
}

// Toggle 有票则删、无票则插，与评论计数同事务
// 并发下靠 uk_comment_user 唯一索引兜底：抢插失败按幂等成功处理，不二次加计数
func (r *VoteRepository) Toggle(ctx context.Context, postID, commentID, userID uint64) (voted bool, newCount int64, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
			Delete(&model.HelpfulVote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			voted = false
			if err := tx.Model(&model.Comment{}).
				Where("id = ?", commentID).
				UpdateColumn("helpful_count", gorm.Expr("CASE WHEN helpful_count > 0 THEN helpful_count - 1 ELSE 0 END")).
				Error; err != nil {
				return err
			}
		} else {
			voted = true
			ins := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
				DoNothing: true,
			}).Create(&model.HelpfulVote{
				PostID:    postID,
				CommentID: commentID,
				UserID:    userID,
				CreatedAt: time.Now(),
			})
			if ins.Error != nil {
				return ins.Error
			}
			if ins.RowsAffected > 0 {
				if err := tx.Model(&model.Comment{}).
					Where("id = ?", commentID).
					UpdateColumn("helpful_count", gorm.Expr("helpful_count + 1")).
					Error; err != nil {
					return err
				}
			}
		}

		var comment model.Comment
		if err := tx.Select("id", "helpful_count").First(&comment, commentID).Error; err != nil {
			return err
		}
		newCount = comment.HelpfulCount
		return nil
	})
	return voted, newCount, err
}

func (r *VoteRepository) HasVote(ctx context.Context, commentID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.HelpfulVote{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	return count > 0, err
}

// VotedSet 批量查询当前用户对一组评论的投票情况，供列表展示
func (r *VoteRepository) VotedSet(ctx context.Context, commentIDs []uint64, userID uint64) (map[uint64]bool, error) {
	set := make(map[uint64]bool, len(commentIDs))
	if len(commentIDs) == 0 {
		return set, nil
	}
	var votes []model.HelpfulVote
	err := r.DB.WithContext(ctx).
		Where("comment_id IN ? AND user_id = ?", commentIDs, userID).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		set[v.CommentID] = true
	}
	return set, nil
}

// CountByComment 对账用，业务读路径一律走聚合字段
func (r *VoteRepository) CountByComment(ctx context.Context, commentID uint64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.HelpfulVote{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}
