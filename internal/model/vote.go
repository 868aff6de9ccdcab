package model

import "time"

// HelpfulVote 每个用户对每条评论至多一票，由唯一索引兜底并发
type HelpfulVote struct {
	ID        uint64 `gorm:"primaryKey"`
	PostID    uint64 `gorm:"not null;index"`
	CommentID uint64 `gorm:"not null;uniqueIndex:uk_comment_user"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_comment_user"`
	CreatedAt time.Time
}

func (HelpfulVote) TableName() string { return "care_club_helpful_votes" }
