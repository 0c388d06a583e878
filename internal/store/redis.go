package store

import (
	"context"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"fieldops-demo/internal/monitor"
)

// RedisStore Store 的 Redis 实现。
// 每次调用都会把命令镜像到命令监视器（尽力而为，不影响被观测操作）。
type RedisStore struct {
	client *redis.Client
	mon    *monitor.Monitor
}

// NewRedisClient 创建 Redis 客户端
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisStore 创建存储。mon 可为 nil（不记录命令）。
func NewRedisStore(client *redis.Client, mon *monitor.Monitor) *RedisStore {
	return &RedisStore{client: client, mon: mon}
}

// record 镜像一条命令到监视器，context 由 key 模式推断
func (s *RedisStore) record(command, key string, kind monitor.Kind) {
	if s.mon == nil {
		return
	}
	s.mon.Record(contextFor(command, key), command, key, kind)
}

// contextFor 按 key 模式划分 context（session / search / dashboard）
func contextFor(command, key string) string {
	lower := strings.ToLower(key)
	if strings.Contains(lower, ":session") {
		return "session"
	}
	if strings.HasPrefix(lower, "idx:") || strings.HasPrefix(command, "FT.") {
		return "search"
	}
	return "dashboard"
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) JSONSet(ctx context.Context, key, path, raw string) error {
	s.record("JSON.SET", key, monitor.KindWrite)
	return s.client.Do(ctx, "JSON.SET", key, path, raw).Err()
}

func (s *RedisStore) JSONGet(ctx context.Context, key string) (string, error) {
	s.record("JSON.GET", key, monitor.KindRead)
	raw, err := s.client.Do(ctx, "JSON.GET", key).Text()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", err
	}
	return raw, nil
}

func (s *RedisStore) GeoAdd(ctx context.Context, key string, lon, lat float64, member string) error {
	s.record("GEOADD", key, monitor.KindWrite)
	return s.client.GeoAdd(ctx, key, &redis.GeoLocation{
		Name:      member,
		Longitude: lon,
		Latitude:  lat,
	}).Err()
}

func (s *RedisStore) GeoPos(ctx context.Context, key, member string) (float64, float64, error) {
	s.record("GEOPOS", key, monitor.KindRead)
	positions, err := s.client.GeoPos(ctx, key, member).Result()
	if err != nil {
		return 0, 0, err
	}
	if len(positions) == 0 || positions[0] == nil {
		return 0, 0, ErrMiss
	}
	return positions[0].Longitude, positions[0].Latitude, nil
}

func (s *RedisStore) GeoRadius(ctx context.Context, key string, lon, lat, radiusKM float64) ([]GeoMember, error) {
	s.record("GEORADIUS", key, monitor.KindRead)
	locations, err := s.client.GeoRadius(ctx, key, lon, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKM,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, err
	}
	members := make([]GeoMember, 0, len(locations))
	for _, loc := range locations {
		members = append(members, GeoMember{
			Member:    loc.Name,
			DistKM:    loc.Dist,
			Longitude: loc.Longitude,
			Latitude:  loc.Latitude,
		})
	}
	return members, nil
}

func (s *RedisStore) GeoMembers(ctx context.Context, key string) ([]string, error) {
	s.record("ZRANGE", key, monitor.KindRead)
	return s.client.ZRange(ctx, key, 0, -1).Result()
}

func (s *RedisStore) XAdd(ctx context.Context, stream string, maxLen int64, values map[string]interface{}) (string, error) {
	s.record("XADD", stream, monitor.KindWrite)
	args := &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}
	if maxLen > 0 {
		args.MaxLenApprox = maxLen
	}
	return s.client.XAdd(ctx, args).Result()
}

func (s *RedisStore) XRevRangeN(ctx context.Context, stream string, count int64) ([]StreamEntry, error) {
	s.record("XREVRANGE", stream, monitor.KindRead)
	messages, err := s.client.XRevRangeN(ctx, stream, "+", "-", count).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]StreamEntry, 0, len(messages))
	for _, msg := range messages {
		entries = append(entries, StreamEntry{ID: msg.ID, Values: msg.Values})
	}
	return entries, nil
}

func (s *RedisStore) HSet(ctx context.Context, key string, values map[string]interface{}) error {
	s.record("HSET", key, monitor.KindWrite)
	return s.client.HSet(ctx, key, values).Err()
}

func (s *RedisStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	s.record("HGETALL", key, monitor.KindRead)
	return s.client.HGetAll(ctx, key).Result()
}

func (s *RedisStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	s.record("ZADD", key, monitor.KindWrite)
	return s.client.ZAdd(ctx, key, &redis.Z{Score: score, Member: member}).Err()
}

func (s *RedisStore) ZRem(ctx context.Context, key string, member string) error {
	s.record("ZREM", key, monitor.KindWrite)
	return s.client.ZRem(ctx, key, member).Err()
}

func (s *RedisStore) ZRemRangeByRank(ctx context.Context, key string, start, stop int64) error {
	s.record("ZREMRANGEBYRANK", key, monitor.KindWrite)
	return s.client.ZRemRangeByRank(ctx, key, start, stop).Err()
}

func (s *RedisStore) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	s.record("ZRANGE", key, monitor.KindRead)
	return s.client.ZRange(ctx, key, start, stop).Result()
}

func (s *RedisStore) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error) {
	s.record("ZREVRANGE", key, monitor.KindRead)
	zs, err := s.client.ZRevRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, err
	}
	members := make([]ScoredMember, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		members = append(members, ScoredMember{Member: member, Score: z.Score})
	}
	return members, nil
}

func (s *RedisStore) ZCard(ctx context.Context, key string) (int64, error) {
	s.record("ZCARD", key, monitor.KindRead)
	return s.client.ZCard(ctx, key).Result()
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	s.record("GET", key, monitor.KindRead)
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.record("SET", key, monitor.KindWrite)
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	s.record("INCR", key, monitor.KindWrite)
	return s.client.Incr(ctx, key).Result()
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	s.record("EXPIRE", key, monitor.KindWrite)
	return s.client.Expire(ctx, key, ttl).Err()
}

func (s *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	s.record("TTL", key, monitor.KindRead)
	return s.client.TTL(ctx, key).Result()
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) > 0 {
		s.record("DEL", keys[0], monitor.KindWrite)
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *RedisStore) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	s.record("SCAN", pattern, monitor.KindRead)
	var keys []string
	var cursor uint64
	for {
		k, next, err := s.client.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
