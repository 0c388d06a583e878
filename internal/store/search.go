package store

import (
	"context"
	"fmt"
	"strings"

	"fieldops-demo/internal/monitor"
)

// EnsureSearchIndex 创建资产搜索索引（ON JSON），已存在则忽略
func (s *RedisStore) EnsureSearchIndex(ctx context.Context, index, keyPrefix string) error {
	s.record("FT.CREATE", index, monitor.KindWrite)
	err := s.client.Do(ctx,
		"FT.CREATE", index, "ON", "JSON",
		"PREFIX", "1", keyPrefix,
		"SCHEMA",
		"$.asset.name", "AS", "name", "TEXT",
		"$.asset.id", "AS", "id", "TAG",
		"$.asset.type", "AS", "type", "TAG",
		"$.asset.model.manufacturer", "AS", "manufacturer", "TAG",
		"$.asset.status.state", "AS", "status", "TAG",
		"$.asset.location.region", "AS", "region", "TAG",
		"$.asset.maintenance.team", "AS", "team", "TAG",
	).Err()
	if err != nil && strings.Contains(err.Error(), "Index already exists") {
		return nil
	}
	return err
}

// Search 执行 FT.SEARCH 并把结果展平为 field->value map 列表
func (s *RedisStore) Search(ctx context.Context, index, query string, offset, limit int, returnFields []string) (int64, []map[string]string, error) {
	s.record("FT.SEARCH", index+" "+query, monitor.KindRead)

	args := []interface{}{"FT.SEARCH", index, query, "LIMIT", offset, limit}
	if len(returnFields) > 0 {
		args = append(args, "RETURN", fmt.Sprintf("%d", len(returnFields)))
		for _, f := range returnFields {
			args = append(args, f)
		}
	}

	raw, err := s.client.Do(ctx, args...).Result()
	if err != nil {
		return 0, nil, err
	}

	reply, ok := raw.([]interface{})
	if !ok || len(reply) == 0 {
		return 0, []map[string]string{}, nil
	}

	total := toInt64(reply[0])
	docs := make([]map[string]string, 0)
	// 回复格式：total, key1, [f1, v1, ...], key2, [f2, v2, ...], ...
	for i := 1; i+1 < len(reply); i += 2 {
		fields, ok := reply[i+1].([]interface{})
		if !ok {
			continue
		}
		doc := map[string]string{"key": toString(reply[i])}
		for j := 0; j+1 < len(fields); j += 2 {
			doc[toString(fields[j])] = toString(fields[j+1])
		}
		docs = append(docs, doc)
	}
	return total, docs, nil
}

// TagVals 返回 TAG 字段的全部取值（用于搜索联想）
func (s *RedisStore) TagVals(ctx context.Context, index, field string) ([]string, error) {
	s.record("FT.TAGVALS", index+" "+field, monitor.KindRead)
	raw, err := s.client.Do(ctx, "FT.TAGVALS", index, field).Result()
	if err != nil {
		return nil, err
	}
	reply, ok := raw.([]interface{})
	if !ok {
		return []string{}, nil
	}
	vals := make([]string, 0, len(reply))
	for _, v := range reply {
		vals = append(vals, toString(v))
	}
	return vals, nil
}

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

func toInt64(v interface{}) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case string:
		var n int64
		fmt.Sscanf(val, "%d", &n)
		return n
	}
	return 0
}
