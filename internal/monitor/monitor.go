package monitor

import (
	"sync"
	"time"
)

// Kind 命令读写分类
type Kind string

const (
	KindRead  Kind = "read"
	KindWrite Kind = "write"
	KindOther Kind = "other"
)

// Entry 单条命令日志
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
	Target    string    `json:"key"`
	Kind      Kind      `json:"type"`
	Context   string    `json:"context"`
}

// Stats 单个 context 的命令统计
type Stats struct {
	ReadCount  int64            `json:"read_count"`
	WriteCount int64            `json:"write_count"`
	TotalCount int64            `json:"total_count"`
	PerCommand map[string]int64 `json:"per_command"`
}

// contextLog 单个 context 的有界环形日志 + 增量计数器
type contextLog struct {
	entries []Entry
	head    int
	size    int

	reads      int64
	writes     int64
	total      int64
	perCommand map[string]int64
}

// Monitor 记录后端发出的存储命令，按 context 分区。
// 纯观测用途：Record 永不阻塞被观测的操作，也不会失败。
type Monitor struct {
	mu       sync.Mutex
	capacity int
	contexts map[string]*contextLog
}

// New 创建命令监视器，capacity 为每个 context 的日志容量
func New(capacity int) *Monitor {
	if capacity <= 0 {
		capacity = 1
	}
	return &Monitor{
		capacity: capacity,
		contexts: make(map[string]*contextLog),
	}
}

// Record 追加一条命令记录。容量满时淘汰最旧条目。
func (m *Monitor) Record(context, command, target string, kind Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cl := m.contexts[context]
	if cl == nil {
		cl = &contextLog{
			entries:    make([]Entry, m.capacity),
			perCommand: make(map[string]int64),
		}
		m.contexts[context] = cl
	}

	e := Entry{
		Timestamp: time.Now(),
		Command:   command,
		Target:    target,
		Kind:      kind,
		Context:   context,
	}

	if cl.size < m.capacity {
		cl.entries[(cl.head+cl.size)%m.capacity] = e
		cl.size++
	} else {
		// 覆盖最旧条目
		cl.entries[cl.head] = e
		cl.head = (cl.head + 1) % m.capacity
	}

	switch kind {
	case KindRead:
		cl.reads++
	case KindWrite:
		cl.writes++
	}
	cl.total++
	cl.perCommand[command]++
}

// Stats 返回 context 的读写统计（O(1)，不遍历日志）
func (m *Monitor) Stats(context string) Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	cl := m.contexts[context]
	if cl == nil {
		return Stats{PerCommand: map[string]int64{}}
	}

	perCommand := make(map[string]int64, len(cl.perCommand))
	for cmd, n := range cl.perCommand {
		perCommand[cmd] = n
	}
	return Stats{
		ReadCount:  cl.reads,
		WriteCount: cl.writes,
		TotalCount: cl.total,
		PerCommand: perCommand,
	}
}

// Recent 返回 context 最近的 limit 条记录，最新在前
func (m *Monitor) Recent(context string, limit int) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	cl := m.contexts[context]
	if cl == nil || limit <= 0 {
		return []Entry{}
	}

	n := cl.size
	if limit < n {
		n = limit
	}
	out := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		idx := (cl.head + cl.size - 1 - i + m.capacity*2) % m.capacity
		out = append(out, cl.entries[idx])
	}
	return out
}

// Contexts 返回当前持有记录的 context 列表
func (m *Monitor) Contexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.contexts))
	for name := range m.contexts {
		out = append(out, name)
	}
	return out
}

// Clear 清空 context 的日志与计数器
func (m *Monitor) Clear(context string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.contexts, context)
}

// ClearAll 清空所有 context
func (m *Monitor) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contexts = make(map[string]*contextLog)
}
