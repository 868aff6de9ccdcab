package service

import (
	"context"

	"Care_Club/internal/apperr"
	"Care_Club/internal/config"
	"Care_Club/internal/repository/mysql"
	"Care_Club/internal/repository/redis"
)

const PrivateProfileMessage = "Your profile is private. Switch to Public to participate in Care Club."

const (
	burstLimitMessage = "You're doing that too often. Please try again later."
	dailyLimitMessage = "Daily limit reached. Try again tomorrow."
)

// 限流动作名，同时是 redis key 的一部分
const (
	ActionCreatePost    = "post"
	ActionCreateComment = "comment"
	ActionHelpfulVote   = "helpful_vote"
)

// Guard 写路径前置检查：隐私门槛 + 限流，二者都在任何落库之前执行
type Guard struct {
	users   *mysql.UserRepository
	limiter *redis.RateLimitRepository
	cfg     *config.Config
}

func NewGuard(users *mysql.UserRepository, limiter *redis.RateLimitRepository, cfg *config.Config) *Guard {
	return &Guard{users: users, limiter: limiter, cfg: cfg}
}

// RequirePublicProfile 读不限制，写一律要求公开资料；查询失败按私密处理（fail closed）
func (g *Guard) RequirePublicProfile(ctx context.Context, userID uint64) error {
	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		return apperr.Forbidden(PrivateProfileMessage)
	}
	if user.IsPrivate() {
		return apperr.Forbidden(PrivateProfileMessage)
	}
	return nil
}

func (g *Guard) limits(action string) (burst, daily int) {
	switch action {
	case ActionCreatePost:
		return g.cfg.PostLimitBurst, g.cfg.PostLimitDaily
	case ActionCreateComment:
		return g.cfg.CommentLimitBurst, g.cfg.CommentLimitDaily
	case ActionHelpfulVote:
		return g.cfg.VoteLimitBurst, g.cfg.VoteLimitDaily
	}
	return 0, 0
}

// RequireRateLimit 超限直接 429，拒绝不留任何副作用
func (g *Guard) RequireRateLimit(ctx context.Context, action string, userID uint64) error {
	burst, daily := g.limits(action)
	verdict, err := g.limiter.Hit(ctx, action, userID, burst, daily)
	if err != nil {
		return apperr.Upstream("rate limit store unavailable", err)
	}
	switch verdict {
	case redis.VerdictBurstLimited:
		return apperr.RateLimited(burstLimitMessage)
	case redis.VerdictDailyLimited:
		return apperr.RateLimited(dailyLimitMessage)
	}
	return nil
}
