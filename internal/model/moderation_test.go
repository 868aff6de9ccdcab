package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModerationTransitions(t *testing.T) {
	cases := []struct {
		from, to ModerationStatus
		ok       bool
	}{
		{ModerationActive, ModerationHidden, true},
		{ModerationHidden, ModerationActive, true},
		{ModerationHidden, ModerationRemoved, true},
		{ModerationActive, ModerationRemoved, false},
		{ModerationActive, ModerationActive, false},
		{ModerationRemoved, ModerationActive, false},
		{ModerationRemoved, ModerationHidden, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestResolveActionTargetStatus(t *testing.T) {
	assert.Equal(t, ModerationActive, ActionRestore.TargetStatus())
	assert.Equal(t, ModerationRemoved, ActionRemove.TargetStatus())
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, TargetPost.Valid())
	assert.True(t, TargetComment.Valid())
	assert.False(t, TargetType("user").Valid())

	assert.True(t, ActionRestore.Valid())
	assert.False(t, ResolveAction("ban").Valid())

	for _, r := range []ReportReason{ReasonSpam, ReasonAbuse, ReasonWrongInfo, ReasonOther} {
		assert.True(t, r.Valid())
	}
	assert.False(t, ReportReason("off_topic").Valid())
}
