package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Marcos-ViniciusDEV/PDV/internal/dto"
	"github.com/Marcos-ViniciusDEV/PDV/internal/model"
	"github.com/Marcos-ViniciusDEV/PDV/internal/repository"
)

// ── In-memory CounterRepository ──────────────────────────────────────────────

type memCounterRepo struct {
	mu     sync.Mutex
	values map[string]int64
}

func newMemCounterRepo() *memCounterRepo {
	return &memCounterRepo{values: make(map[string]int64)}
}

func (r *memCounterRepo) Increment(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[name]++
	return r.values[name], nil
}

func (r *memCounterRepo) Get(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[name], nil
}

// ── In-memory CaixaRepository ────────────────────────────────────────────────

type memCaixaRepo struct {
	mu        sync.Mutex
	nextID    uint
	sessions  map[uint]*model.CaixaSession
	movements []model.CashMovement
}

func newMemCaixaRepo() *memCaixaRepo {
	return &memCaixaRepo{sessions: make(map[uint]*model.CaixaSession)}
}

func (r *memCaixaRepo) CreateSession(_ context.Context, s *model.CaixaSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	copied := *s
	r.sessions[s.ID] = &copied
	return nil
}

func (r *memCaixaRepo) FindSessionByID(_ context.Context, id uint) (*model.CaixaSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *memCaixaRepo) FindOpenByOperator(_ context.Context, operatorID int) (*model.CaixaSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.OperatorID == operatorID && s.Status == model.SessionOpen {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memCaixaRepo) UpdateSession(_ context.Context, s *model.CaixaSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.sessions[s.ID] = &copied
	return nil
}

func (r *memCaixaRepo) CreateMovement(_ context.Context, m *model.CashMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uint(len(r.movements) + 1)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *memCaixaRepo) ListMovementsBySession(_ context.Context, sessionID uint) ([]model.CashMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.SessionID != nil && *m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memCaixaRepo) ListMovementsBetween(_ context.Context, from, to time.Time) ([]model.CashMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CashMovement
	for _, m := range r.movements {
		if !m.CreatedAt.Before(from) && m.CreatedAt.Before(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memCaixaRepo) ListPendingMovements(_ context.Context) ([]model.CashMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.SyncStatus == model.SyncPending {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memCaixaRepo) MarkMovementsSynced(_ context.Context, uuids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.movements {
		for _, id := range uuids {
			if r.movements[i].UUID == id {
				r.movements[i].SyncStatus = model.SyncSynced
			}
		}
	}
	return nil
}

func (r *memCaixaRepo) MarkMovementsSyncFailed(_ context.Context, uuids []uuid.UUID, syncErr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for i := range r.movements {
		for _, id := range uuids {
			if r.movements[i].UUID == id {
				r.movements[i].SyncAttempts++
				r.movements[i].SyncError = &syncErr
				r.movements[i].LastSyncAttempt = &now
			}
		}
	}
	return nil
}

// ── In-memory VendaRepository ────────────────────────────────────────────────

type memVendaRepo struct {
	mu     sync.Mutex
	nextID uint
	sales  map[uuid.UUID]*model.Sale
}

func newMemVendaRepo() *memVendaRepo {
	return &memVendaRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *memVendaRepo) Create(_ context.Context, v *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	v.ID = r.nextID
	for i := range v.Items {
		v.Items[i].SaleID = v.ID
	}
	for i := range v.Payments {
		v.Payments[i].SaleID = v.ID
	}
	copied := *v
	r.sales[v.UUID] = &copied
	return nil
}

func (r *memVendaRepo) FindByUUID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.sales[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (r *memVendaRepo) ListBySession(_ context.Context, sessionID uint) ([]model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, v := range r.sales {
		if v.SessionID != nil && *v.SessionID == sessionID {
			out = append(out, bareRow(v))
		}
	}
	return out, nil
}

func (r *memVendaRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, v := range r.sales {
		if !v.CreatedAt.Before(from) && v.CreatedAt.Before(to) {
			out = append(out, bareRow(v))
		}
	}
	return out, nil
}

// bareRow mirrors the SQL list queries, which select sale rows only and
// leave associations for GetItems.
func bareRow(v *model.Sale) model.Sale {
	row := *v
	row.Items = nil
	return row
}

func (r *memVendaRepo) ListByStatus(_ context.Context, status string) ([]model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, v := range r.sales {
		if v.Status == status {
			out = append(out, bareRow(v))
		}
	}
	return out, nil
}

func (r *memVendaRepo) ListPending(_ context.Context) ([]model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, v := range r.sales {
		if v.SyncStatus == model.SyncPending {
			out = append(out, bareRow(v))
		}
	}
	return out, nil
}

func (r *memVendaRepo) ListRecent(_ context.Context, limit int) ([]model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, v := range r.sales {
		out = append(out, *v)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memVendaRepo) GetItems(_ context.Context, saleID uint) ([]model.SaleItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.sales {
		if v.ID == saleID {
			return v.Items, nil
		}
	}
	return nil, nil
}

func (r *memVendaRepo) DeleteByUUID(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sales, id)
	return nil
}

func (r *memVendaRepo) SumGrossCompleted(_ context.Context, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, v := range r.sales {
		if v.Status != model.SaleCompleted {
			continue
		}
		if !from.IsZero() && v.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !v.CreatedAt.Before(to) {
			continue
		}
		sum += v.Total
	}
	return sum, nil
}

func (r *memVendaRepo) MarkSynced(_ context.Context, uuids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range uuids {
		if v, ok := r.sales[id]; ok {
			v.SyncStatus = model.SyncSynced
		}
	}
	return nil
}

func (r *memVendaRepo) MarkSyncFailed(_ context.Context, uuids []uuid.UUID, syncErr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, id := range uuids {
		if v, ok := r.sales[id]; ok {
			v.SyncAttempts++
			v.SyncError = &syncErr
			v.LastSyncAttempt = &now
		}
	}
	return nil
}

// ── Fake central API ─────────────────────────────────────────────────────────

type fakeCentral struct {
	mu        sync.Mutex
	healthErr error
	syncErr   error
	batches   []dto.SyncBatchRequest
	catalog   *dto.CatalogData
}

func (f *fakeCentral) Health(context.Context) error { return f.healthErr }

func (f *fakeCentral) Heartbeat(context.Context, string) error { return nil }

func (f *fakeCentral) FetchCatalog(context.Context) (*dto.CatalogData, error) {
	if f.catalog != nil {
		return f.catalog, nil
	}
	return &dto.CatalogData{}, nil
}

func (f *fakeCentral) SyncBatch(_ context.Context, batch dto.SyncBatchRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.syncErr != nil {
		return f.syncErr
	}
	f.batches = append(f.batches, batch)
	return nil
}
