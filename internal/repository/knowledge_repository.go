package repository

import (
	"fmt"

	"gorm.io/gorm"

	"inchat/internal/model"
)

type KnowledgeRepository struct {
	db *gorm.DB
}

func NewKnowledgeRepository(db *gorm.DB) *KnowledgeRepository {
	return &KnowledgeRepository{db: db}
}

func (r *KnowledgeRepository) Create(doc *model.KnowledgeDocument) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create knowledge document failed: %w", err)
	}
	return nil
}

// ListActive returns up to limit active documents in insertion order (id
// ascending). The order is part of the prompt contract: context assembly
// concatenates documents exactly as returned here.
func (r *KnowledgeRepository) ListActive(limit int) ([]model.KnowledgeDocument, error) {
	if limit <= 0 {
		limit = 10
	}

	var docs []model.KnowledgeDocument
	if err := r.db.Where("active = ?", true).Order("id ASC").Limit(limit).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list active knowledge documents failed: %w", err)
	}
	return docs, nil
}
