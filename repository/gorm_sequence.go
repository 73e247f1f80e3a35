package repository

import (
	"context"

	"github.com/yeremiapane/restaurant-backoffice/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequencer reserves values by incrementing a row of the sequences
// table. The row lock taken by the UPDATE serializes concurrent callers.
type GormSequencer struct {
	DB *gorm.DB
}

func NewGormSequencer(db *gorm.DB) *GormSequencer {
	return &GormSequencer{DB: db}
}

func (s *GormSequencer) Next(ctx context.Context, name string) (int64, error) {
	var seq models.Sequence
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Sequence{Name: name}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Sequence{}).
			Where("name = ?", name).
			UpdateColumn("value", gorm.Expr("value + ?", 1)).Error; err != nil {
			return err
		}
		return tx.First(&seq, "name = ?", name).Error
	})
	if err != nil {
		return 0, err
	}
	return seq.Value, nil
}
