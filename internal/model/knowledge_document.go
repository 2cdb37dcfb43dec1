package model

import "time"

// KnowledgeDocument is an admin-curated text record injected into the model
// prompt to ground responses in institution-specific facts.
type KnowledgeDocument struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:256;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Kind      string    `gorm:"size:32;not null;default:documento" json:"kind"`
	URL       string    `gorm:"size:512" json:"url,omitempty"`
	Active    bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt time.Time `json:"uploaded_at"`
}
