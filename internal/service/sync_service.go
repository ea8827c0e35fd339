package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Marcos-ViniciusDEV/PDV/internal/dto"
	"github.com/Marcos-ViniciusDEV/PDV/internal/infra"
	"github.com/Marcos-ViniciusDEV/PDV/internal/model"
	"github.com/Marcos-ViniciusDEV/PDV/internal/repository"
)

// CentralAPI is the slice of the retail-central HTTP surface the
// terminal talks to. infra.CentralClient implements it.
type CentralAPI interface {
	Health(ctx context.Context) error
	Heartbeat(ctx context.Context, pdvID string) error
	FetchCatalog(ctx context.Context) (*dto.CatalogData, error)
	SyncBatch(ctx context.Context, batch dto.SyncBatchRequest) error
}

// SyncService pushes locally persisted sales and drawer movements to the
// central server in the background. The terminal never blocks on it: all
// writes land locally as pending first, and the push is best effort.
type SyncService struct {
	client   CentralAPI
	breaker  *infra.CircuitBreaker
	vendas   repository.VendaRepository
	caixa    repository.CaixaRepository
	catalogo CatalogoService
	pdvID    string

	checkInterval time.Duration
	syncInterval  time.Duration

	mu        sync.Mutex
	isOnline  bool
	lastCheck time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSyncService(
	client CentralAPI,
	breaker *infra.CircuitBreaker,
	vendas repository.VendaRepository,
	caixa repository.CaixaRepository,
	catalogo CatalogoService,
	pdvID string,
	checkInterval, syncInterval time.Duration,
) *SyncService {
	return &SyncService{
		client:        client,
		breaker:       breaker,
		vendas:        vendas,
		caixa:         caixa,
		catalogo:      catalogo,
		pdvID:         pdvID,
		checkInterval: checkInterval,
		syncInterval:  syncInterval,
	}
}

// Start launches the connectivity probe and periodic sync loops. Call
// Stop to shut both down; Start must not be called twice without an
// intervening Stop.
func (s *SyncService) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	// Initial catalog pull is best effort: the terminal keeps selling
	// from whatever catalog it already has.
	if s.catalogo != nil {
		if err := s.catalogo.Load(ctx); err != nil {
			log.Warn().Err(err).Msg("carga inicial do catálogo falhou, usando dados locais")
		}
	}

	s.CheckConnection(ctx)

	s.wg.Add(2)
	go s.connectionLoop(ctx)
	go s.syncLoop(ctx)

	log.Info().
		Dur("check_interval", s.checkInterval).
		Dur("sync_interval", s.syncInterval).
		Msg("serviço de sincronização iniciado")
}

// Stop cancels both loops and waits for them to drain.
func (s *SyncService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	log.Info().Msg("serviço de sincronização encerrado")
}

func (s *SyncService) connectionLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CheckConnection(ctx)
		}
	}
}

func (s *SyncService) syncLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SyncPendingData(ctx)
		}
	}
}

// CheckConnection probes the central server and records the result.
// Transitions are logged once; while online a heartbeat is sent so the
// central side can track live terminals.
func (s *SyncService) CheckConnection(ctx context.Context) bool {
	err := s.client.Health(ctx)
	online := err == nil

	s.mu.Lock()
	changed := online != s.isOnline
	s.isOnline = online
	s.lastCheck = time.Now()
	s.mu.Unlock()

	if changed {
		if online {
			log.Info().Msg("conexão com o servidor central restabelecida")
		} else {
			log.Warn().Err(err).Msg("servidor central inacessível, operando offline")
		}
	}

	if online {
		if err := s.client.Heartbeat(ctx, s.pdvID); err != nil {
			log.Debug().Err(err).Msg("heartbeat falhou")
		}
	}
	return online
}

// SyncPendingData pushes every pending sale and drawer movement in one
// batch. Offline it is a silent no-op; a failed push leaves everything
// pending with the attempt counter bumped, so the next cycle retries.
func (s *SyncService) SyncPendingData(ctx context.Context) dto.SyncResult {
	if !s.CheckConnection(ctx) {
		return dto.SyncResult{Success: false, Reason: "offline"}
	}

	sales, err := s.vendas.ListPending(ctx)
	if err != nil {
		log.Error().Err(err).Msg("falha ao listar vendas pendentes")
		return dto.SyncResult{Success: false, Error: err.Error()}
	}
	movs, err := s.caixa.ListPendingMovements(ctx)
	if err != nil {
		log.Error().Err(err).Msg("falha ao listar movimentos pendentes")
		return dto.SyncResult{Success: false, Error: err.Error()}
	}
	if len(sales) == 0 && len(movs) == 0 {
		return dto.SyncResult{Success: true, Synced: 0}
	}

	batch := dto.SyncBatchRequest{
		Vendas:          make([]dto.VendaSync, 0, len(sales)),
		MovimentosCaixa: make([]dto.MovimentoCaixaSync, 0, len(movs)),
	}

	saleUUIDs := make([]uuid.UUID, 0, len(sales))
	for i := range sales {
		items, err := s.vendas.GetItems(ctx, sales[i].ID)
		if err != nil {
			log.Error().Err(err).Str("uuid", sales[i].UUID.String()).Msg("falha ao carregar itens da venda")
			return dto.SyncResult{Success: false, Error: err.Error()}
		}
		batch.Vendas = append(batch.Vendas, toVendaSync(&sales[i], items))
		saleUUIDs = append(saleUUIDs, sales[i].UUID)
	}

	// SALE movements are derivable from the sales themselves on the
	// central side, so they never travel. They are still flipped to
	// synced below to keep the pending queue clean.
	sentMovUUIDs := make([]uuid.UUID, 0, len(movs))
	allMovUUIDs := make([]uuid.UUID, 0, len(movs))
	for i := range movs {
		allMovUUIDs = append(allMovUUIDs, movs[i].UUID)
		if movs[i].Type == model.MovementSale {
			continue
		}
		batch.MovimentosCaixa = append(batch.MovimentosCaixa, toMovimentoSync(&movs[i]))
		sentMovUUIDs = append(sentMovUUIDs, movs[i].UUID)
	}

	err = s.breaker.Execute(func() error {
		return s.client.SyncBatch(ctx, batch)
	})
	if err != nil {
		log.Warn().Err(err).
			Int("vendas", len(batch.Vendas)).
			Int("movimentos", len(batch.MovimentosCaixa)).
			Msg("sincronização falhou, registros continuam pendentes")
		if merr := s.vendas.MarkSyncFailed(ctx, saleUUIDs, err.Error()); merr != nil {
			log.Error().Err(merr).Msg("falha ao marcar vendas com erro de sincronização")
		}
		if merr := s.caixa.MarkMovementsSyncFailed(ctx, sentMovUUIDs, err.Error()); merr != nil {
			log.Error().Err(merr).Msg("falha ao marcar movimentos com erro de sincronização")
		}
		return dto.SyncResult{Success: false, Error: err.Error()}
	}

	if err := s.vendas.MarkSynced(ctx, saleUUIDs); err != nil {
		log.Error().Err(err).Msg("falha ao marcar vendas sincronizadas")
	}
	if err := s.caixa.MarkMovementsSynced(ctx, allMovUUIDs); err != nil {
		log.Error().Err(err).Msg("falha ao marcar movimentos sincronizados")
	}

	synced := len(batch.Vendas) + len(batch.MovimentosCaixa)
	log.Info().
		Int("vendas", len(batch.Vendas)).
		Int("movimentos", len(batch.MovimentosCaixa)).
		Msg("sincronização concluída")

	return dto.SyncResult{Success: true, Synced: synced}
}

// ForceSyncNow runs one sync cycle outside the timer, for the manual
// "sincronizar agora" action.
func (s *SyncService) ForceSyncNow(ctx context.Context) dto.SyncResult {
	return s.SyncPendingData(ctx)
}

func (s *SyncService) Status() dto.SyncStatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp := dto.SyncStatusResponse{
		IsOnline: s.isOnline,
		PDVID:    s.pdvID,
	}
	if !s.lastCheck.IsZero() {
		resp.LastCheck = s.lastCheck.Format(time.RFC3339)
	}
	return resp
}

func toVendaSync(sale *model.Sale, items []model.SaleItem) dto.VendaSync {
	out := dto.VendaSync{
		UUID:           sale.UUID.String(),
		NumeroVenda:    sale.SaleNumber,
		CCF:            sale.CCF,
		COO:            sale.COO,
		PDVID:          sale.PDVID,
		DataVenda:      sale.CreatedAt.Format(time.RFC3339),
		ValorTotal:     sale.Total,
		ValorDesconto:  sale.Discount,
		ValorLiquido:   sale.NetTotal,
		FormaPagamento: sale.PaymentMethod,
		OperadorID:     sale.OperatorID,
		OperadorNome:   sale.OperatorName,
		Itens:          make([]dto.ItemVendaSync, 0, len(items)),
	}
	for _, it := range items {
		out.Itens = append(out.Itens, dto.ItemVendaSync{
			ProdutoID:     it.ProductID,
			Quantidade:    it.Quantity,
			PrecoUnitario: it.UnitPrice,
			ValorTotal:    it.Total,
			ValorDesconto: it.Discount,
		})
	}
	return out
}

func toMovimentoSync(mov *model.CashMovement) dto.MovimentoCaixaSync {
	out := dto.MovimentoCaixaSync{
		UUID:          mov.UUID.String(),
		Tipo:          mov.Type,
		Valor:         mov.Amount,
		OperadorID:    mov.OperatorID,
		DataMovimento: mov.CreatedAt.Format(time.RFC3339),
	}
	if mov.Reason != nil {
		out.Observacao = *mov.Reason
	}
	return out
}
