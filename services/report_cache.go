package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultReportCacheTTL    = 5 * time.Minute
	DefaultReportCachePrefix = "nutrilog:analytics:"
)

// ReportCache keeps recently built analytics reports per user. A user's
// entries are dropped as a whole whenever their meals change.
//
// Key resolves the user's current version, so a key taken before reading
// meals stays tied to that version: a report built from data that changed
// meanwhile is stored where no later lookup will find it.
type ReportCache interface {
	Key(ctx context.Context, userID uint, variant string) (string, error)
	Get(ctx context.Context, key string) (*AnalyticsReport, bool)
	Set(ctx context.Context, key string, report *AnalyticsReport) error
	Invalidate(ctx context.Context, userID uint) error
}

// RedisReportCache versions keys per user, so invalidation is a single INCR
// and stale entries simply expire.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

type ReportCacheOption func(*RedisReportCache)

func WithReportCacheTTL(ttl time.Duration) ReportCacheOption {
	return func(c *RedisReportCache) { c.ttl = ttl }
}

func WithReportCachePrefix(prefix string) ReportCacheOption {
	return func(c *RedisReportCache) { c.prefix = prefix }
}

func NewRedisReportCache(client *redis.Client, opts ...ReportCacheOption) *RedisReportCache {
	c := &RedisReportCache{
		client: client,
		ttl:    DefaultReportCacheTTL,
		prefix: DefaultReportCachePrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisReportCache) versionKey(userID uint) string {
	return fmt.Sprintf("%sver:%d", c.prefix, userID)
}

func (c *RedisReportCache) Key(ctx context.Context, userID uint, variant string) (string, error) {
	ver, err := c.client.Get(ctx, c.versionKey(userID)).Int64()
	if err != nil && err != redis.Nil {
		return "", fmt.Errorf("failed to read cache version: %w", err)
	}
	return fmt.Sprintf("%s%d:%d:%s", c.prefix, userID, ver, variant), nil
}

// Get treats every Redis or decoding failure as a miss.
func (c *RedisReportCache) Get(ctx context.Context, key string) (*AnalyticsReport, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var report AnalyticsReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, false
	}
	return &report, true
}

func (c *RedisReportCache) Set(ctx context.Context, key string, report *AnalyticsReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

func (c *RedisReportCache) Invalidate(ctx context.Context, userID uint) error {
	return c.client.Incr(ctx, c.versionKey(userID)).Err()
}

// reportVariant identifies one report request within a user's cache space.
func reportVariant(period string, date *time.Time, now time.Time) string {
	if date != nil {
		return "day:" + date.In(now.Location()).Format("2006-01-02")
	}
	// sliding ranges move with the clock; bucket them by minute
	return period + ":" + now.Truncate(time.Minute).Format(time.RFC3339)
}
