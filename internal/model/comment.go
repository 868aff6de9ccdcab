package model

import "time"

type Comment struct {
	ID               uint64           `gorm:"primaryKey"`
	PostID           uint64           `gorm:"not null;index:idx_comment_post_time"`
	AuthorID         uint64           `gorm:"not null;index"`
	Body             string           `gorm:"size:600;not null"`
	PhotoURLs        PhotoList        `gorm:"type:json"`
	ModerationStatus ModerationStatus `gorm:"size:16;not null;default:'active';index"`
	CreatedAt        time.Time        `gorm:"index:idx_comment_post_time"`
	// 与投票写路径同事务维护
	HelpfulCount int64 `gorm:"not null;default:0"`
}

func (Comment) TableName() string { return "care_club_comments" }
