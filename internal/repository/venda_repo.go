package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Marcos-ViniciusDEV/PDV/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VendaRepository interface {
	// Create persists the sale with its items and payments atomically.
	Create(ctx context.Context, v *model.Sale) error
	FindByUUID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	ListBySession(ctx context.Context, sessionID uint) ([]model.Sale, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.Sale, error)
	ListByStatus(ctx context.Context, status string) ([]model.Sale, error)
	ListPending(ctx context.Context) ([]model.Sale, error)
	ListRecent(ctx context.Context, limit int) ([]model.Sale, error)
	GetItems(ctx context.Context, saleID uint) ([]model.SaleItem, error)
	DeleteByUUID(ctx context.Context, id uuid.UUID) error

	// SumGrossCompleted sums `total` over completed sales in [from, to);
	// zero times mean unbounded, which yields the all-time grand total.
	SumGrossCompleted(ctx context.Context, from, to time.Time) (int64, error)

	MarkSynced(ctx context.Context, uuids []uuid.UUID) error
	MarkSyncFailed(ctx context.Context, uuids []uuid.UUID, syncErr string) error
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func (r *vendaRepo) Create(ctx context.Context, v *model.Sale) error {
	// Items and payments ride along in the same insert; GORM wraps the
	// association writes in one transaction.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(v).Error
	})
}

func (r *vendaRepo) FindByUUID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var v model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Payments").
		Where("uuid = ?", id).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &v, err
}

func (r *vendaRepo) ListBySession(ctx context.Context, sessionID uint) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *vendaRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *vendaRepo) ListByStatus(ctx context.Context, status string) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *vendaRepo) ListPending(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("sync_status = ?", model.SyncPending).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *vendaRepo) ListRecent(ctx context.Context, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}

func (r *vendaRepo) GetItems(ctx context.Context, saleID uint) ([]model.SaleItem, error) {
	var items []model.SaleItem
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *vendaRepo) DeleteByUUID(ctx context.Context, id uuid.UUID) error {
	// Items and payments cascade at the schema level.
	return r.db.WithContext(ctx).
		Where("uuid = ?", id).
		Delete(&model.Sale{}).Error
}

func (r *vendaRepo) SumGrossCompleted(ctx context.Context, from, to time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("status = ?", model.SaleCompleted)
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}
	var sum int64
	err := q.Select("COALESCE(SUM(total), 0)").Scan(&sum).Error
	return sum, err
}

func (r *vendaRepo) MarkSynced(ctx context.Context, uuids []uuid.UUID) error {
	if len(uuids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("uuid IN ?", uuids).
		Update("sync_status", model.SyncSynced).Error
}

func (r *vendaRepo) MarkSyncFailed(ctx context.Context, uuids []uuid.UUID, syncErr string) error {
	if len(uuids) == 0 {
		return nil
	}
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("uuid IN ?", uuids).
		Updates(map[string]interface{}{
			"sync_error":        syncErr,
			"sync_attempts":     gorm.Expr("sync_attempts + 1"),
			"last_sync_attempt": now,
		}).Error
}
