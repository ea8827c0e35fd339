package repository

import (
	"context"

	"gorm.io/gorm"
)

type CounterRepository interface {
	// Increment advances the named sequence by one and returns the new
	// value. The increment happens in a single statement so concurrent
	// callers always observe distinct, gapless values.
	Increment(ctx context.Context, name string) (int64, error)
	// Get reads the current value without advancing it (CRO path).
	Get(ctx context.Context, name string) (int64, error)
}

type counterRepo struct{ db *gorm.DB }

func NewCounterRepository(db *gorm.DB) CounterRepository { return &counterRepo{db: db} }

func (r *counterRepo) Increment(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO counters (name, value, updated_at)
		VALUES (?, 1, NOW())
		ON CONFLICT (name) DO UPDATE
		SET value = counters.value + 1, updated_at = NOW()
		RETURNING value`, name).Scan(&value).Error
	return value, err
}

func (r *counterRepo) Get(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COALESCE((SELECT value FROM counters WHERE name = ?), 0)`, name).
		Scan(&value).Error
	return value, err
}
