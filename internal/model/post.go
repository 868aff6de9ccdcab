package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type PostStatus string

const (
	PostOpen     PostStatus = "open"
	PostResolved PostStatus = "resolved"
)

// PhotoList 以 JSON 数组落库的图片 key 列表
type PhotoList []string

func (p PhotoList) Value() (driver.Value, error) {
	if p == nil {
		p = PhotoList{}
	}
	return json.Marshal(p)
}

func (p *PhotoList) Scan(value any) error {
	if value == nil {
		*p = PhotoList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return errors.New("photo list: unsupported column type")
}

type Post struct {
	ID               uint64           `gorm:"primaryKey"`
	PlantID          uint64           `gorm:"not null;index"`
	AuthorID         uint64           `gorm:"not null;index:idx_post_author_time"`
	Title            string           `gorm:"size:120;not null"`
	Details          string           `gorm:"size:1000"`
	Tried            string           `gorm:"size:600"`
	PhotoURLs        PhotoList        `gorm:"type:json"`
	Status           PostStatus       `gorm:"size:16;not null;default:'open';index"`
	ModerationStatus ModerationStatus `gorm:"size:16;not null;default:'active';index"`
	ResolvedAt       *time.Time
	ResolvedNote     *string   `gorm:"size:600"` // 非空当且仅当 status=resolved
	CreatedAt        time.Time `gorm:"index:idx_post_time,sort:desc;index:idx_post_author_time"`
	UpdatedAt        time.Time
	LastActivityAt   time.Time
	// 聚合字段与评论写路径同事务维护，读侧 O(1)
	CommentCount    int64 `gorm:"not null;default:0"`
	LatestCommentAt *time.Time
}

func (Post) TableName() string { return "care_club_posts" }
