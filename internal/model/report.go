package model

import "time"

type ReportStatus string

const (
	ReportOpen     ReportStatus = "open"
	ReportResolved ReportStatus = "resolved"
)

type ReportReason string

const (
	ReasonSpam      ReportReason = "spam"
	ReasonAbuse     ReportReason = "abuse"
	ReasonWrongInfo ReportReason = "wrong_info"
	ReasonOther     ReportReason = "other"
)

func (r ReportReason) Valid() bool {
	switch r {
	case ReasonSpam, ReasonAbuse, ReasonWrongInfo, ReasonOther:
		return true
	}
	return false
}

// Report 同一举报人对同一目标只允许一条，由 uk_reporter_target 兜底并发重复
type Report struct {
	ID             uint64       `gorm:"primaryKey"`
	ReporterUserID uint64       `gorm:"not null;uniqueIndex:uk_reporter_target"`
	TargetType     TargetType   `gorm:"size:16;not null;uniqueIndex:uk_reporter_target"`
	TargetID       uint64       `gorm:"not null;uniqueIndex:uk_reporter_target"`
	Reason         ReportReason `gorm:"size:32;not null"`
	Notes          string       `gorm:"size:500"`
	Status         ReportStatus `gorm:"size:16;not null;default:'open';index"`
	// 举报时刻目标的最小快照，供管理端审阅，落库后不再变化
	Snapshot       string `gorm:"type:json;not null"`
	CreatedAt      time.Time
	ResolvedAt     *time.Time
	ResolvedAction *ResolveAction `gorm:"size:16"`
	ResolvedNote   string         `gorm:"size:600"`
}

func (Report) TableName() string { return "care_club_reports" }
