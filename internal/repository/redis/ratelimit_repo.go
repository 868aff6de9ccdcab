package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 限流结果
type LimitVerdict int

const (
	VerdictAllowed      LimitVerdict = iota
	VerdictBurstLimited              // 分钟级窗口超限
	VerdictDailyLimited              // 滚动 24h 窗口超限
)

const rateKeyPrefix = "rl:careclub"

// 两个滑动窗口在一个脚本里判定并记账：要么两个窗口都占位，要么一个都不占，
// 并发请求不可能同时抢到最后一个名额，拒绝也不会留下任何痕迹
var slidingWindowScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local burst_win = tonumber(ARGV[2])
local burst_limit = tonumber(ARGV[3])
local daily_win = tonumber(ARGV[4])
local daily_limit = tonumber(ARGV[5])
local member = ARGV[6]
redis.call("ZREMRANGEBYSCORE", KEYS[1], "-inf", now - burst_win)
redis.call("ZREMRANGEBYSCORE", KEYS[2], "-inf", now - daily_win)
if burst_limit > 0 and redis.call("ZCARD", KEYS[1]) >= burst_limit then
  return 1
end
if daily_limit > 0 and redis.call("ZCARD", KEYS[2]) >= daily_limit then
  return 2
end
redis.call("ZADD", KEYS[1], now, member)
redis.call("ZADD", KEYS[2], now, member)
redis.call("PEXPIRE", KEYS[1], burst_win + 1000)
redis.call("PEXPIRE", KEYS[2], daily_win + 1000)
return 0
`)

type RateLimitRepository struct {
	rdb *redis.Client
}

func NewRateLimitRepository() *RateLimitRepository {
	return &RateLimitRepository{rdb: Client}
}

func (r *RateLimitRepository) burstKey(action string, userID uint64) string {
	return fmt.Sprintf("%s:burst:%s:%d", rateKeyPrefix, action, userID)
}

func (r *RateLimitRepository) dailyKey(action string, userID uint64) string {
	return fmt.Sprintf("%s:daily:%s:%d", rateKeyPrefix, action, userID)
}

// Hit 对某动作记一次账；超限时不落任何状态
// 窗口锚定请求时刻：burst 为过去一分钟，daily 为过去 24h，非自然日
func (r *RateLimitRepository) Hit(ctx context.Context, action string, userID uint64, burstLimit, dailyLimit int) (LimitVerdict, error) {
	now := time.Now()
	member := fmt.Sprintf("%d", now.UnixNano())
	res, err := slidingWindowScript.Run(ctx, r.rdb,
		[]string{r.burstKey(action, userID), r.dailyKey(action, userID)},
		now.UnixMilli(),
		time.Minute.Milliseconds(),
		burstLimit,
		(24 * time.Hour).Milliseconds(),
		dailyLimit,
		member,
	).Int()
	if err != nil {
		return VerdictAllowed, err
	}
	return LimitVerdict(res), nil
}
