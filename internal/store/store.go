package store

import (
	"context"
	"errors"
	"time"
)

// ErrMiss key 不存在
var ErrMiss = errors.New("store miss")

// GeoMember 地理半径查询结果
type GeoMember struct {
	Member    string
	DistKM    float64
	Longitude float64
	Latitude  float64
}

// StreamEntry 流消息
type StreamEntry struct {
	ID     string
	Values map[string]interface{}
}

// ScoredMember 有序集合成员
type ScoredMember struct {
	Member string
	Score  float64
}

// Store 本演示用到的 Redis 命令面。
// 所有写入均为独立的单 key 操作，由 tick 循环单写者持有。
type Store interface {
	Ping(ctx context.Context) error

	// RedisJSON 文档
	JSONSet(ctx context.Context, key, path, raw string) error
	JSONGet(ctx context.Context, key string) (string, error)

	// 地理索引
	GeoAdd(ctx context.Context, key string, lon, lat float64, member string) error
	GeoPos(ctx context.Context, key, member string) (lon, lat float64, err error)
	GeoRadius(ctx context.Context, key string, lon, lat, radiusKM float64) ([]GeoMember, error)
	GeoMembers(ctx context.Context, key string) ([]string, error)

	// 按传感器追加的时间有序日志
	XAdd(ctx context.Context, stream string, maxLen int64, values map[string]interface{}) (string, error)
	XRevRangeN(ctx context.Context, stream string, count int64) ([]StreamEntry, error)

	// 最新值快照
	HSet(ctx context.Context, key string, values map[string]interface{}) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// 有界时间有序集合
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRem(ctx context.Context, key string, member string) error
	ZRemRangeByRank(ctx context.Context, key string, start, stop int64) error
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error)
	ZCard(ctx context.Context, key string) (int64, error)

	// 简单键
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
	Del(ctx context.Context, keys ...string) error
	ScanKeys(ctx context.Context, pattern string) ([]string, error)

	// RediSearch
	EnsureSearchIndex(ctx context.Context, index, keyPrefix string) error
	Search(ctx context.Context, index, query string, offset, limit int, returnFields []string) (int64, []map[string]string, error)
	TagVals(ctx context.Context, index, field string) ([]string, error)

	Close() error
}
