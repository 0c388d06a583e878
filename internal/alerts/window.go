package alerts

import (
	"sync"

	"fieldops-demo/internal/models"
)

// Window 固定容量的时间有序报警集合。
// 插入超过容量时淘汰最旧条目；同 ID 插入为原地替换（幂等去重）。
type Window struct {
	mu       sync.Mutex
	capacity int
	list     []models.Alert
}

// NewWindow 创建报警窗口
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = 1
	}
	return &Window{capacity: capacity}
}

// Add 插入一条报警。若窗口内已有同 ID 条目则替换并返回被替换的旧条目。
func (w *Window) Add(a models.Alert) (replaced *models.Alert) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.list {
		if w.list[i].ID == a.ID {
			old := w.list[i]
			w.list[i] = a
			return &old
		}
	}

	w.list = append(w.list, a)
	if len(w.list) > w.capacity {
		w.list = w.list[len(w.list)-w.capacity:]
	}
	return nil
}

// Len 当前条目数
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.list)
}

// Snapshot 返回窗口内容拷贝，最新在前
func (w *Window) Snapshot() []models.Alert {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]models.Alert, len(w.list))
	for i := range w.list {
		out[i] = w.list[len(w.list)-1-i]
	}
	return out
}
