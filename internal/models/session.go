package models

// Session 演示用用户会话（Redis hash + TTL）
type Session struct {
	SessionID    string `json:"session_id"`
	UserID       string `json:"user_id"`
	CreatedAt    string `json:"created_at"`
	LastActivity string `json:"last_activity"`
	UserData     string `json:"user_data"`
	Status       string `json:"status"`
	TTL          int64  `json:"ttl"`
}
