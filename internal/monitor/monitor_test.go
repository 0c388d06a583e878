package monitor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_StatsCounters(t *testing.T) {
	m := New(100)

	m.Record("dashboard", "HSET", "asset:WELL-001", KindWrite)

	stats := m.Stats("dashboard")
	assert.Equal(t, int64(1), stats.WriteCount)
	assert.Equal(t, int64(0), stats.ReadCount)
	assert.Equal(t, int64(1), stats.TotalCount)
	assert.Equal(t, int64(1), stats.PerCommand["HSET"])
}

func TestRecord_MixedKinds(t *testing.T) {
	m := New(100)

	m.Record("dashboard", "HGETALL", "sensor:latest:SEN-WELL-001", KindRead)
	m.Record("dashboard", "HGETALL", "sensor:latest:SEN-WELL-002", KindRead)
	m.Record("dashboard", "XADD", "sensors:SEN-WELL-001", KindWrite)
	m.Record("dashboard", "MODULE", "LIST", KindOther)

	stats := m.Stats("dashboard")
	assert.Equal(t, int64(2), stats.ReadCount)
	assert.Equal(t, int64(1), stats.WriteCount)
	assert.Equal(t, int64(4), stats.TotalCount)
	assert.Equal(t, int64(2), stats.PerCommand["HGETALL"])
}

func TestRecord_ContextIsolation(t *testing.T) {
	m := New(100)

	m.Record("dashboard", "GET", "metrics:avg_temperature", KindRead)
	m.Record("session", "HSET", "session:abc", KindWrite)

	assert.Equal(t, int64(1), m.Stats("dashboard").ReadCount)
	assert.Equal(t, int64(0), m.Stats("dashboard").WriteCount)
	assert.Equal(t, int64(1), m.Stats("session").WriteCount)
	assert.ElementsMatch(t, []string{"dashboard", "session"}, m.Contexts())
}

func TestRecent_MostRecentFirst(t *testing.T) {
	m := New(10)

	for i := 0; i < 5; i++ {
		m.Record("dashboard", "GET", fmt.Sprintf("key-%d", i), KindRead)
	}

	recent := m.Recent("dashboard", 3)
	require.Len(t, recent, 3)
	assert.Equal(t, "key-4", recent[0].Target)
	assert.Equal(t, "key-3", recent[1].Target)
	assert.Equal(t, "key-2", recent[2].Target)
}

func TestRecord_CapacityEviction(t *testing.T) {
	capacity := 8
	m := New(capacity)

	for i := 0; i < capacity*5; i++ {
		m.Record("dashboard", "SET", fmt.Sprintf("key-%d", i), KindWrite)
		// 任意时刻日志长度不超过容量
		assert.LessOrEqual(t, len(m.Recent("dashboard", capacity*10)), capacity)
	}

	recent := m.Recent("dashboard", capacity*10)
	require.Len(t, recent, capacity)
	// 保留的是最新的 capacity 条
	assert.Equal(t, fmt.Sprintf("key-%d", capacity*5-1), recent[0].Target)
	assert.Equal(t, fmt.Sprintf("key-%d", capacity*4), recent[capacity-1].Target)
	// 计数器不受淘汰影响
	assert.Equal(t, int64(capacity*5), m.Stats("dashboard").TotalCount)
}

func TestClear_ResetsLogAndCounters(t *testing.T) {
	m := New(10)

	m.Record("dashboard", "HSET", "asset:WELL-001", KindWrite)
	m.Record("dashboard", "HGETALL", "asset:WELL-001", KindRead)
	m.Clear("dashboard")

	stats := m.Stats("dashboard")
	assert.Equal(t, int64(0), stats.TotalCount)
	assert.Equal(t, int64(0), stats.ReadCount)
	assert.Equal(t, int64(0), stats.WriteCount)
	assert.Empty(t, m.Recent("dashboard", 10))
}

func TestRecent_UnknownContext(t *testing.T) {
	m := New(10)
	assert.Empty(t, m.Recent("search", 10))
	assert.Equal(t, int64(0), m.Stats("search").TotalCount)
}
