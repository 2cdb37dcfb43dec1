package model

import "time"

// TurnLog is an audit row for one completed conversational turn
// (user message plus assistant reply). Rows are written asynchronously
// by the turn audit worker, never on the request path.
type TurnLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   uint      `gorm:"not null;index" json:"session_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Model       string    `gorm:"size:64;not null" json:"model"`
	PromptChars int       `gorm:"not null" json:"prompt_chars"`
	ReplyChars  int       `gorm:"not null" json:"reply_chars"`
	ContextDocs int       `gorm:"not null" json:"context_docs"`
	HistoryUsed int       `gorm:"not null" json:"history_used"`
	DurationMS  int64     `gorm:"not null" json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}
