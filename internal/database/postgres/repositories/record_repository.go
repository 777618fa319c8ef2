package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lpb-monitor/internal/models"
)

type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// FindPage returns rows ordered by customer id so offsets are stable between pages.
func (r *RecordRepository) FindPage(ctx context.Context, table string, offset, limit int) ([]models.LPBRow, error) {
	var rows []models.LPBRow
	err := r.db.WithContext(ctx).
		Table(table).
		Order(models.IdentityColumn).
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read %s page at offset %d: %w", table, offset, err)
	}
	return rows, nil
}

func (r *RecordRepository) FindInBounds(ctx context.Context, table string, b models.Bounds, offset, limit int) ([]models.LPBRow, error) {
	var rows []models.LPBRow
	err := r.db.WithContext(ctx).
		Table(table).
		Where("latitude BETWEEN ? AND ?", b.MinLat, b.MaxLat).
		Where("longitude BETWEEN ? AND ?", b.MinLng, b.MaxLng).
		Order(models.IdentityColumn).
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read %s rows in bounds: %w", table, err)
	}
	return rows, nil
}

// Upsert inserts rows or overwrites existing ones with the same customer id.
func (r *RecordRepository) Upsert(ctx context.Context, table string, rows []models.LPBRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Table(table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: models.IdentityColumn}},
			UpdateAll: true,
		}).
		Create(&rows)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to upsert %d rows into %s: %w", len(rows), table, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *RecordRepository) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Table(table).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
