package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Marcos-ViniciusDEV/PDV/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned by Find* methods when no row matches.
var ErrNotFound = errors.New("not found")

type CaixaRepository interface {
	CreateSession(ctx context.Context, s *model.CaixaSession) error
	FindSessionByID(ctx context.Context, id uint) (*model.CaixaSession, error)
	// FindOpenByOperator returns ErrNotFound when the operator has no
	// OPEN session.
	FindOpenByOperator(ctx context.Context, operatorID int) (*model.CaixaSession, error)
	UpdateSession(ctx context.Context, s *model.CaixaSession) error

	CreateMovement(ctx context.Context, m *model.CashMovement) error
	ListMovementsBySession(ctx context.Context, sessionID uint) ([]model.CashMovement, error)
	ListMovementsBetween(ctx context.Context, from, to time.Time) ([]model.CashMovement, error)
	ListPendingMovements(ctx context.Context) ([]model.CashMovement, error)
	MarkMovementsSynced(ctx context.Context, uuids []uuid.UUID) error
	// MarkMovementsSyncFailed keeps records pending for the next cycle
	// while bumping the attempt counter and storing the error text.
	MarkMovementsSyncFailed(ctx context.Context, uuids []uuid.UUID, syncErr string) error
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) CreateSession(ctx context.Context, s *model.CaixaSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *caixaRepo) FindSessionByID(ctx context.Context, id uint) (*model.CaixaSession, error) {
	var s model.CaixaSession
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &s, err
}

func (r *caixaRepo) FindOpenByOperator(ctx context.Context, operatorID int) (*model.CaixaSession, error) {
	var s model.CaixaSession
	err := r.db.WithContext(ctx).
		Where("operator_id = ? AND status = ?", operatorID, model.SessionOpen).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &s, err
}

func (r *caixaRepo) UpdateSession(ctx context.Context, s *model.CaixaSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *caixaRepo) CreateMovement(ctx context.Context, m *model.CashMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *caixaRepo) ListMovementsBySession(ctx context.Context, sessionID uint) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *caixaRepo) ListMovementsBetween(ctx context.Context, from, to time.Time) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *caixaRepo) ListPendingMovements(ctx context.Context) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("sync_status = ?", model.SyncPending).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *caixaRepo) MarkMovementsSynced(ctx context.Context, uuids []uuid.UUID) error {
	if len(uuids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.CashMovement{}).
		Where("uuid IN ?", uuids).
		Update("sync_status", model.SyncSynced).Error
}

func (r *caixaRepo) MarkMovementsSyncFailed(ctx context.Context, uuids []uuid.UUID, syncErr string) error {
	if len(uuids) == 0 {
		return nil
	}
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.CashMovement{}).
		Where("uuid IN ?", uuids).
		Updates(map[string]interface{}{
			"sync_error":        syncErr,
			"sync_attempts":     gorm.Expr("sync_attempts + 1"),
			"last_sync_attempt": now,
		}).Error
}
