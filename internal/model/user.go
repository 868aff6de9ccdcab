package model

import "time"

// User 身份系统由外部协作方维护，这里只消费展示与隐私相关字段
type User struct {
	ID                uint64 `gorm:"primaryKey"`
	Name              string `gorm:"size:64;not null"`
	City              string `gorm:"size:64"`
	Level             int    `gorm:"not null;default:1"`
	Title             string `gorm:"size:64"`
	ProfileVisibility string `gorm:"size:16;not null;default:'public'"` // public / private
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (u *User) IsPrivate() bool {
	return u.ProfileVisibility == "private"
}

// Plant 植物档案同样属于外部协作方，只读取归属与最近一张图片
type Plant struct {
	ID             uint64 `gorm:"primaryKey"`
	UserID         uint64 `gorm:"not null;index"`
	CommonName     string `gorm:"size:128;not null"`
	ScientificName string `gorm:"size:128"`
	Nickname       string `gorm:"size:64"`
	ImageURL       string `gorm:"size:512"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Plant) TableName() string { return "plants" }
