package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Marcos-ViniciusDEV/PDV/internal/apierror"
	"github.com/Marcos-ViniciusDEV/PDV/internal/dto"
	"github.com/Marcos-ViniciusDEV/PDV/internal/model"
	"github.com/Marcos-ViniciusDEV/PDV/internal/repository"
)

// SessionQuery is the only view of the cash engine the sale engine gets:
// the operator's currently open session, or nil.
type SessionQuery interface {
	CurrentSession(ctx context.Context, operatorID int) (*model.CaixaSession, error)
}

// CashRegister receives the drawer entry for cash sales.
type CashRegister interface {
	RegistrarVendaDinheiro(ctx context.Context, sessionID uint, operatorID int, amount int64) error
}

// VendaService drives the sale lifecycle: completed sales with fiscal
// numbering, cancellations that burn fresh counters, and suspended sales
// that park a cart without touching the fiscal sequences.
type VendaService interface {
	Registrar(ctx context.Context, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error)
	Cancelar(ctx context.Context, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error)
	Suspender(ctx context.Context, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error)
	Suspensas(ctx context.Context) ([]dto.VendaDetalheResponse, error)
	Recuperar(ctx context.Context, saleUUID uuid.UUID) (*dto.RecoveredSaleResponse, error)
	ExcluirSuspensa(ctx context.Context, saleUUID uuid.UUID) error
	Recentes(ctx context.Context, limit int) ([]dto.VendaDetalheResponse, error)
	Pendentes(ctx context.Context) ([]dto.VendaDetalheResponse, error)
}

type vendaService struct {
	repo     repository.VendaRepository
	sessions SessionQuery
	caixa    CashRegister
	counters CounterService
	pdvID    string
}

func NewVendaService(repo repository.VendaRepository, sessions SessionQuery, caixa CashRegister, counters CounterService, pdvID string) VendaService {
	return &vendaService{repo: repo, sessions: sessions, caixa: caixa, counters: counters, pdvID: pdvID}
}

// saleAmounts folds the request into gross/net totals and built items.
func saleAmounts(req dto.RegistrarVendaRequest) (items []model.SaleItem, gross, net int64) {
	for _, it := range req.Items {
		lineTotal := it.UnitPrice*int64(it.Quantity) - it.Discount
		if lineTotal < 0 {
			lineTotal = 0
		}
		items = append(items, model.SaleItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     lineTotal,
			Discount:  it.Discount,
		})
		gross += lineTotal
	}
	net = gross - req.Discount
	if net < 0 {
		net = 0
	}
	return items, gross, net
}

func (s *vendaService) Registrar(ctx context.Context, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error) {
	sess, err := s.sessions.CurrentSession(ctx, req.OperatorID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apierror.Precondition(fmt.Sprintf("operador %d não possui caixa aberto", req.OperatorID))
	}

	items, gross, net := saleAmounts(req)

	var paid int64
	payments := make([]model.SalePayment, 0, len(req.Payments))
	for _, p := range req.Payments {
		paid += p.Amount
		payments = append(payments, model.SalePayment{Method: p.Method, Amount: p.Amount})
	}
	if paid < net {
		return nil, apierror.Precondition(
			fmt.Sprintf("pagamentos insuficientes: %d recebido, %d necessário", paid, net))
	}

	ccf, coo, err := s.counters.NextSalePair(ctx)
	if err != nil {
		return nil, err
	}

	// Split payments attribute the whole sale to the first method; the
	// X/Z reports inherit this legacy attribution.
	method := model.PaymentMixed
	if len(req.Payments) > 0 {
		method = req.Payments[0].Method
	}

	sale := &model.Sale{
		UUID:          uuid.New(),
		SaleNumber:    fmt.Sprintf("%s-%06d", s.pdvID, coo),
		CCF:           fmt.Sprintf("%06d", ccf),
		COO:           fmt.Sprintf("%06d", coo),
		PDVID:         s.pdvID,
		OperatorID:    req.OperatorID,
		OperatorName:  req.OperatorName,
		SessionID:     &sess.ID,
		Total:         gross,
		Discount:      req.Discount,
		NetTotal:      net,
		PaymentMethod: method,
		CouponType:    "NFC-e",
		Status:        model.SaleCompleted,
		SyncStatus:    model.SyncPending,
		CreatedAt:     time.Now(),
		Items:         items,
		Payments:      payments,
	}
	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, apierror.Persistence("registrar venda", err)
	}

	change := paid - net

	// Cash settlement: the drawer gains tendered minus change, which for
	// a single-method cash payment collapses to the net total.
	if cash := cashPortion(req, net, change); cash > 0 {
		if err := s.caixa.RegistrarVendaDinheiro(ctx, sess.ID, req.OperatorID, cash); err != nil {
			log.Error().Err(err).Str("uuid", sale.UUID.String()).
				Msg("venda registrada mas entrada de caixa falhou")
		}
	}

	log.Info().
		Str("numero_venda", sale.SaleNumber).
		Str("ccf", sale.CCF).
		Str("coo", sale.COO).
		Int64("net_total", net).
		Msg("venda registrada")

	return &dto.VendaResponse{
		UUID:       sale.UUID.String(),
		SaleNumber: sale.SaleNumber,
		CCF:        sale.CCF,
		COO:        sale.COO,
		Total:      gross,
		Discount:   req.Discount,
		NetTotal:   net,
		Status:     sale.Status,
		Change:     change,
	}, nil
}

// cashPortion works out how much physical cash stays in the drawer.
// Change always comes back out of the cash handed over.
func cashPortion(req dto.RegistrarVendaRequest, net, change int64) int64 {
	var cashPaid int64
	for _, p := range req.Payments {
		if p.Method == model.PaymentCash {
			cashPaid += p.Amount
		}
	}
	if cashPaid == 0 {
		return 0
	}
	tendered := req.CashTendered
	if tendered == 0 {
		tendered = cashPaid
	}
	kept := tendered - change
	if kept < 0 {
		kept = 0
	}
	return kept
}

// Cancelar records an aborted sale for the fiscal trail. It consumes a
// fresh ccf/coo pair and needs no open session.
func (s *vendaService) Cancelar(ctx context.Context, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error) {
	items, gross, net := saleAmounts(req)

	ccf, coo, err := s.counters.NextSalePair(ctx)
	if err != nil {
		return nil, err
	}

	sale := &model.Sale{
		UUID:          uuid.New(),
		SaleNumber:    fmt.Sprintf("%s-%06d", s.pdvID, coo),
		CCF:           fmt.Sprintf("%06d", ccf),
		COO:           fmt.Sprintf("%06d", coo),
		PDVID:         s.pdvID,
		OperatorID:    req.OperatorID,
		OperatorName:  req.OperatorName,
		Total:         gross,
		Discount:      req.Discount,
		NetTotal:      net,
		PaymentMethod: model.PaymentCancelled,
		CouponType:    "NFC-e",
		Status:        model.SaleCancelled,
		SyncStatus:    model.SyncPending,
		CreatedAt:     time.Now(),
		Items:         items,
	}
	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, apierror.Persistence("registrar cancelamento", err)
	}

	log.Info().
		Str("numero_venda", sale.SaleNumber).
		Str("coo", sale.COO).
		Msg("venda cancelada")

	return &dto.VendaResponse{
		UUID:       sale.UUID.String(),
		SaleNumber: sale.SaleNumber,
		CCF:        sale.CCF,
		COO:        sale.COO,
		Total:      gross,
		Discount:   req.Discount,
		NetTotal:   net,
		Status:     sale.Status,
	}, nil
}

// Suspender parks the cart without fiscal numbering: dummy counters, a
// timestamp-based number, no payments.
func (s *vendaService) Suspender(ctx context.Context, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error) {
	items, gross, net := saleAmounts(req)

	sale := &model.Sale{
		UUID:          uuid.New(),
		SaleNumber:    fmt.Sprintf("SUSP-%d", time.Now().UnixMilli()),
		CCF:           model.DummyCounter,
		COO:           model.DummyCounter,
		PDVID:         s.pdvID,
		OperatorID:    req.OperatorID,
		OperatorName:  req.OperatorName,
		Total:         gross,
		Discount:      req.Discount,
		NetTotal:      net,
		PaymentMethod: model.PaymentSuspended,
		CouponType:    "NFC-e",
		Status:        model.SaleSuspended,
		SyncStatus:    model.SyncPending,
		CreatedAt:     time.Now(),
		Items:         items,
	}
	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, apierror.Persistence("suspender venda", err)
	}

	log.Info().Str("numero_venda", sale.SaleNumber).Msg("venda suspensa")

	return &dto.VendaResponse{
		UUID:       sale.UUID.String(),
		SaleNumber: sale.SaleNumber,
		CCF:        sale.CCF,
		COO:        sale.COO,
		Total:      gross,
		Discount:   req.Discount,
		NetTotal:   net,
		Status:     sale.Status,
	}, nil
}

func (s *vendaService) Suspensas(ctx context.Context) ([]dto.VendaDetalheResponse, error) {
	sales, err := s.repo.ListByStatus(ctx, model.SaleSuspended)
	if err != nil {
		return nil, apierror.Persistence("listar vendas suspensas", err)
	}
	out := make([]dto.VendaDetalheResponse, 0, len(sales))
	for i := range sales {
		items, err := s.repo.GetItems(ctx, sales[i].ID)
		if err != nil {
			return nil, apierror.Persistence("listar itens", err)
		}
		sales[i].Items = items
		out = append(out, toDetalheResponse(&sales[i]))
	}
	return out, nil
}

// Recuperar hands the suspended cart back and removes the suspended
// record. The returned items are the only surviving copy.
func (s *vendaService) Recuperar(ctx context.Context, saleUUID uuid.UUID) (*dto.RecoveredSaleResponse, error) {
	sale, err := s.repo.FindByUUID(ctx, saleUUID)
	if err == repository.ErrNotFound {
		return nil, apierror.InvalidState("venda suspensa não encontrada")
	}
	if err != nil {
		return nil, apierror.Persistence("consultar venda suspensa", err)
	}
	if sale.Status != model.SaleSuspended {
		return nil, apierror.InvalidState(fmt.Sprintf("venda %s não está suspensa", saleUUID))
	}

	resp := &dto.RecoveredSaleResponse{
		UUID:     sale.UUID.String(),
		Discount: sale.Discount,
		Items:    toItemResponses(sale.Items),
	}
	if err := s.repo.DeleteByUUID(ctx, saleUUID); err != nil {
		return nil, apierror.Persistence("remover venda suspensa", err)
	}

	log.Info().Str("uuid", saleUUID.String()).Msg("venda suspensa recuperada")
	return resp, nil
}

func (s *vendaService) ExcluirSuspensa(ctx context.Context, saleUUID uuid.UUID) error {
	sale, err := s.repo.FindByUUID(ctx, saleUUID)
	if err == repository.ErrNotFound {
		return apierror.InvalidState("venda suspensa não encontrada")
	}
	if err != nil {
		return apierror.Persistence("consultar venda suspensa", err)
	}
	if sale.Status != model.SaleSuspended {
		return apierror.InvalidState(fmt.Sprintf("venda %s não está suspensa", saleUUID))
	}
	if err := s.repo.DeleteByUUID(ctx, saleUUID); err != nil {
		return apierror.Persistence("remover venda suspensa", err)
	}
	return nil
}

func (s *vendaService) Recentes(ctx context.Context, limit int) ([]dto.VendaDetalheResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	sales, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, apierror.Persistence("listar vendas recentes", err)
	}
	out := make([]dto.VendaDetalheResponse, 0, len(sales))
	for i := range sales {
		out = append(out, toDetalheResponse(&sales[i]))
	}
	return out, nil
}

func (s *vendaService) Pendentes(ctx context.Context) ([]dto.VendaDetalheResponse, error) {
	sales, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, apierror.Persistence("listar vendas pendentes", err)
	}
	out := make([]dto.VendaDetalheResponse, 0, len(sales))
	for i := range sales {
		items, err := s.repo.GetItems(ctx, sales[i].ID)
		if err != nil {
			return nil, apierror.Persistence("listar itens", err)
		}
		sales[i].Items = items
		out = append(out, toDetalheResponse(&sales[i]))
	}
	return out, nil
}

func toItemResponses(items []model.SaleItem) []dto.ItemVendaResponse {
	out := make([]dto.ItemVendaResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ItemVendaResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
			Discount:  it.Discount,
		})
	}
	return out
}

func toDetalheResponse(sale *model.Sale) dto.VendaDetalheResponse {
	return dto.VendaDetalheResponse{
		UUID:          sale.UUID.String(),
		SaleNumber:    sale.SaleNumber,
		CCF:           sale.CCF,
		COO:           sale.COO,
		OperatorID:    sale.OperatorID,
		OperatorName:  sale.OperatorName,
		Total:         sale.Total,
		Discount:      sale.Discount,
		NetTotal:      sale.NetTotal,
		PaymentMethod: sale.PaymentMethod,
		Status:        sale.Status,
		SyncStatus:    sale.SyncStatus,
		CreatedAt:     sale.CreatedAt.Format(time.RFC3339),
		Items:         toItemResponses(sale.Items),
	}
}
