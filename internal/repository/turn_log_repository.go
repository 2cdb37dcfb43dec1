package repository

import (
	"fmt"

	"gorm.io/gorm"

	"inchat/internal/model"
)

type TurnLogRepository struct {
	db *gorm.DB
}

func NewTurnLogRepository(db *gorm.DB) *TurnLogRepository {
	return &TurnLogRepository{db: db}
}

func (r *TurnLogRepository) Create(entry *model.TurnLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("create turn log failed: %w", err)
	}
	return nil
}
