// Package storetest 提供 store.Store 的内存假实现，
// 覆盖 miniredis 不支持的 JSON.* / FT.* 命令路径。
package storetest

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"fieldops-demo/internal/store"
)

type zsetEntry struct {
	member string
	score  float64
}

// Fake store.Store 的内存实现
type Fake struct {
	mu sync.Mutex

	JSON    map[string]string
	Geo     map[string]map[string][2]float64 // key -> member -> [lon, lat]
	Streams map[string][]store.StreamEntry
	Hashes  map[string]map[string]string
	ZSets   map[string][]zsetEntry
	KV      map[string]string
	TTLs    map[string]time.Duration

	Indexes map[string]string // index -> key prefix

	// FailOn 命令名 -> 注入错误（模拟存储故障）
	FailOn map[string]error

	seq int64
}

func NewFake() *Fake {
	return &Fake{
		JSON:    make(map[string]string),
		Geo:     make(map[string]map[string][2]float64),
		Streams: make(map[string][]store.StreamEntry),
		Hashes:  make(map[string]map[string]string),
		ZSets:   make(map[string][]zsetEntry),
		KV:      make(map[string]string),
		TTLs:    make(map[string]time.Duration),
		Indexes: make(map[string]string),
		FailOn:  make(map[string]error),
	}
}

func (f *Fake) fail(command string) error {
	return f.FailOn[command]
}

func (f *Fake) Ping(ctx context.Context) error { return f.fail("PING") }

func (f *Fake) JSONSet(ctx context.Context, key, jsonPath, raw string) error {
	if err := f.fail("JSON.SET"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.JSON[key] = raw
	return nil
}

func (f *Fake) JSONGet(ctx context.Context, key string) (string, error) {
	if err := f.fail("JSON.GET"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.JSON[key]
	if !ok {
		return "", store.ErrMiss
	}
	return raw, nil
}

func (f *Fake) GeoAdd(ctx context.Context, key string, lon, lat float64, member string) error {
	if err := f.fail("GEOADD"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Geo[key] == nil {
		f.Geo[key] = make(map[string][2]float64)
	}
	f.Geo[key][member] = [2]float64{lon, lat}
	return nil
}

func (f *Fake) GeoPos(ctx context.Context, key, member string) (float64, float64, error) {
	if err := f.fail("GEOPOS"); err != nil {
		return 0, 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	pos, ok := f.Geo[key][member]
	if !ok {
		return 0, 0, store.ErrMiss
	}
	return pos[0], pos[1], nil
}

func (f *Fake) GeoRadius(ctx context.Context, key string, lon, lat, radiusKM float64) ([]store.GeoMember, error) {
	if err := f.fail("GEORADIUS"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	// 近似判定足够测试使用：1° ≈ 111km
	members := make([]store.GeoMember, 0)
	for member, pos := range f.Geo[key] {
		dLon := (pos[0] - lon) * 111
		dLat := (pos[1] - lat) * 111
		dist := dLon*dLon + dLat*dLat
		if dist <= radiusKM*radiusKM {
			members = append(members, store.GeoMember{
				Member:    member,
				DistKM:    dist,
				Longitude: pos[0],
				Latitude:  pos[1],
			})
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Member < members[j].Member })
	return members, nil
}

func (f *Fake) GeoMembers(ctx context.Context, key string) ([]string, error) {
	if err := f.fail("ZRANGE"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	members := make([]string, 0, len(f.Geo[key]))
	for member := range f.Geo[key] {
		members = append(members, member)
	}
	sort.Strings(members)
	return members, nil
}

func (f *Fake) XAdd(ctx context.Context, stream string, maxLen int64, values map[string]interface{}) (string, error) {
	if err := f.fail("XADD"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("%d-%d", time.Now().UnixMilli(), f.seq)
	entry := store.StreamEntry{ID: id, Values: values}
	f.Streams[stream] = append(f.Streams[stream], entry)
	if maxLen > 0 && int64(len(f.Streams[stream])) > maxLen {
		f.Streams[stream] = f.Streams[stream][int64(len(f.Streams[stream]))-maxLen:]
	}
	return id, nil
}

func (f *Fake) XRevRangeN(ctx context.Context, stream string, count int64) ([]store.StreamEntry, error) {
	if err := f.fail("XREVRANGE"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.Streams[stream]
	out := make([]store.StreamEntry, 0, count)
	for i := len(entries) - 1; i >= 0 && int64(len(out)) < count; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

func (f *Fake) HSet(ctx context.Context, key string, values map[string]interface{}) error {
	if err := f.fail("HSET"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Hashes[key] == nil {
		f.Hashes[key] = make(map[string]string)
	}
	for field, v := range values {
		f.Hashes[key][field] = toString(v)
	}
	return nil
}

func (f *Fake) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if err := f.fail("HGETALL"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.Hashes[key]))
	for field, v := range f.Hashes[key] {
		out[field] = v
	}
	return out, nil
}

func (f *Fake) ZAdd(ctx context.Context, key string, score float64, member string) error {
	if err := f.fail("ZADD"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.ZSets[key]
	for i := range entries {
		if entries[i].member == member {
			entries[i].score = score
			f.sortZSet(key)
			return nil
		}
	}
	f.ZSets[key] = append(entries, zsetEntry{member: member, score: score})
	f.sortZSet(key)
	return nil
}

func (f *Fake) sortZSet(key string) {
	entries := f.ZSets[key]
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].score < entries[j].score })
}

func (f *Fake) ZRem(ctx context.Context, key string, member string) error {
	if err := f.fail("ZREM"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.ZSets[key]
	for i := range entries {
		if entries[i].member == member {
			f.ZSets[key] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *Fake) ZRemRangeByRank(ctx context.Context, key string, start, stop int64) error {
	if err := f.fail("ZREMRANGEBYRANK"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.ZSets[key]
	n := int64(len(entries))
	s, e := normalizeRange(start, stop, n)
	if s > e || s >= n {
		return nil
	}
	f.ZSets[key] = append(append([]zsetEntry{}, entries[:s]...), entries[e+1:]...)
	return nil
}

func (f *Fake) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if err := f.fail("ZRANGE"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.ZSets[key]
	n := int64(len(entries))
	s, e := normalizeRange(start, stop, n)
	out := []string{}
	for i := s; i <= e && i < n; i++ {
		out = append(out, entries[i].member)
	}
	return out, nil
}

func (f *Fake) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]store.ScoredMember, error) {
	if err := f.fail("ZREVRANGE"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.ZSets[key]
	n := int64(len(entries))
	s, e := normalizeRange(start, stop, n)
	out := []store.ScoredMember{}
	for i := s; i <= e && i < n; i++ {
		entry := entries[n-1-i]
		out = append(out, store.ScoredMember{Member: entry.member, Score: entry.score})
	}
	return out, nil
}

func (f *Fake) ZCard(ctx context.Context, key string) (int64, error) {
	if err := f.fail("ZCARD"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.ZSets[key])), nil
}

func (f *Fake) Get(ctx context.Context, key string) (string, error) {
	if err := f.fail("GET"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.KV[key]
	if !ok {
		return "", store.ErrMiss
	}
	return val, nil
}

func (f *Fake) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := f.fail("SET"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.KV[key] = value
	if ttl > 0 {
		f.TTLs[key] = ttl
	}
	return nil
}

func (f *Fake) Incr(ctx context.Context, key string) (int64, error) {
	if err := f.fail("INCR"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(0)
	if val, ok := f.KV[key]; ok {
		for _, c := range val {
			n = n*10 + int64(c-'0')
		}
	}
	n++
	f.KV[key] = itoa(n)
	return n, nil
}

func (f *Fake) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := f.fail("EXPIRE"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TTLs[key] = ttl
	return nil
}

func (f *Fake) TTL(ctx context.Context, key string) (time.Duration, error) {
	if err := f.fail("TTL"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.TTLs[key], nil
}

func (f *Fake) Del(ctx context.Context, keys ...string) error {
	if err := f.fail("DEL"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.KV, key)
		delete(f.Hashes, key)
		delete(f.ZSets, key)
		delete(f.JSON, key)
		delete(f.TTLs, key)
	}
	return nil
}

func (f *Fake) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	if err := f.fail("SCAN"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := []string{}
	match := func(key string) {
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	for key := range f.KV {
		match(key)
	}
	for key := range f.Hashes {
		match(key)
	}
	for key := range f.JSON {
		match(key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *Fake) EnsureSearchIndex(ctx context.Context, index, keyPrefix string) error {
	if err := f.fail("FT.CREATE"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Indexes[index] = keyPrefix
	return nil
}

// Search 简化实现：返回索引前缀下全部 JSON 文档的顶层 asset 字段
func (f *Fake) Search(ctx context.Context, index, query string, offset, limit int, returnFields []string) (int64, []map[string]string, error) {
	if err := f.fail("FT.SEARCH"); err != nil {
		return 0, nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := f.Indexes[index]
	docs := []map[string]string{}
	keys := make([]string, 0)
	for key := range f.JSON {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		docs = append(docs, map[string]string{"key": key})
	}
	total := int64(len(docs))
	if offset > len(docs) {
		offset = len(docs)
	}
	end := offset + limit
	if end > len(docs) {
		end = len(docs)
	}
	return total, docs[offset:end], nil
}

func (f *Fake) TagVals(ctx context.Context, index, field string) ([]string, error) {
	if err := f.fail("FT.TAGVALS"); err != nil {
		return nil, err
	}
	return []string{}, nil
}

func (f *Fake) Close() error { return nil }

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func normalizeRange(start, stop, n int64) (int64, int64) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	return start, stop
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
