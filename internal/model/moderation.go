package model

import "time"

// ModerationStatus 内容的审核状态，状态机：active -> hidden -> {active, removed}
// removed 为终态，管理端不提供恢复入口
type ModerationStatus string

const (
	ModerationActive  ModerationStatus = "active"
	ModerationHidden  ModerationStatus = "hidden"
	ModerationRemoved ModerationStatus = "removed"
)

// CanTransition 集中校验非法迁移，避免各处散落字符串判断
func (s ModerationStatus) CanTransition(to ModerationStatus) bool {
	switch s {
	case ModerationActive:
		return to == ModerationHidden
	case ModerationHidden:
		return to == ModerationActive || to == ModerationRemoved
	}
	return false
}

type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

func (t TargetType) Valid() bool {
	return t == TargetPost || t == TargetComment
}

// ResolveAction 管理员裁决动作
type ResolveAction string

const (
	ActionRestore ResolveAction = "restore"
	ActionRemove  ResolveAction = "remove"
)

func (a ResolveAction) Valid() bool {
	return a == ActionRestore || a == ActionRemove
}

// TargetStatus 裁决后目标内容应处的状态
func (a ResolveAction) TargetStatus() ModerationStatus {
	if a == ActionRestore {
		return ModerationActive
	}
	return ModerationRemoved
}

// ModerationAction 审计表，只追加不修改
type ModerationAction struct {
	ID         uint64     `gorm:"primaryKey"`
	AdminID    string     `gorm:"size:64;not null"`
	Action     string     `gorm:"size:16;not null"`
	TargetType TargetType `gorm:"size:16;not null;index:idx_action_target"`
	TargetID   uint64     `gorm:"not null;index:idx_action_target"`
	ReportID   uint64     `gorm:"not null;index"`
	Note       string     `gorm:"size:600"`
	CreatedAt  time.Time
}

func (ModerationAction) TableName() string { return "moderation_actions" }

// ModerationOutbox 审核事件出站表，与业务写同事务落库，由 relay 异步投递 kafka
type ModerationOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:32;not null"` // report_created / report_resolved
	ReportID  uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ModerationOutbox) TableName() string { return "moderation_outbox" }
