package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Marcos-ViniciusDEV/PDV/internal/apierror"
	"github.com/Marcos-ViniciusDEV/PDV/internal/dto"
	"github.com/Marcos-ViniciusDEV/PDV/internal/model"
	"github.com/Marcos-ViniciusDEV/PDV/internal/repository"
)

// SalesQuery is the read-only slice of the sale store the cash engine
// needs for its reports. VendaRepository satisfies it.
type SalesQuery interface {
	ListBySession(ctx context.Context, sessionID uint) ([]model.Sale, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.Sale, error)
	SumGrossCompleted(ctx context.Context, from, to time.Time) (int64, error)
}

// CaixaService controls the operator cash session lifecycle and produces
// the X (partial) and Z (daily closing) readings.
type CaixaService interface {
	Abrir(ctx context.Context, req dto.AbrirCaixaRequest) (*dto.SessionResponse, error)
	Fechar(ctx context.Context, req dto.FecharCaixaRequest) (*dto.FecharCaixaResponse, error)
	CurrentSession(ctx context.Context, operatorID int) (*model.CaixaSession, error)
	RegistrarMovimento(ctx context.Context, kind string, req dto.MovimentoRequest) (*dto.MovementResponse, error)
	RegistrarVendaDinheiro(ctx context.Context, sessionID uint, operatorID int, amount int64) error
	SessionTotals(ctx context.Context, sessionID uint) (*dto.SessionTotals, error)
	DailyTotals(ctx context.Context, day time.Time) (*dto.DailyTotals, error)
}

type caixaService struct {
	repo     repository.CaixaRepository
	sales    SalesQuery
	counters CounterService
}

func NewCaixaService(repo repository.CaixaRepository, sales SalesQuery, counters CounterService) CaixaService {
	return &caixaService{repo: repo, sales: sales, counters: counters}
}

// Variance classification thresholds over the expected drawer amount.
var (
	desvioNormal  = decimal.NewFromInt(1)
	desvioWarning = decimal.NewFromInt(5)
)

func (s *caixaService) Abrir(ctx context.Context, req dto.AbrirCaixaRequest) (*dto.SessionResponse, error) {
	existing, err := s.repo.FindOpenByOperator(ctx, req.OperatorID)
	if err != nil && err != repository.ErrNotFound {
		return nil, apierror.Persistence("consultar caixa aberto", err)
	}
	if existing != nil {
		return nil, apierror.Conflict(fmt.Sprintf("operador %d já possui um caixa aberto", req.OperatorID))
	}

	sess := &model.CaixaSession{
		UUID:          uuid.New(),
		OperatorID:    req.OperatorID,
		OperatorName:  req.OperatorName,
		OpenedAt:      time.Now(),
		InitialAmount: req.InitialAmount,
		Status:        model.SessionOpen,
		SyncStatus:    model.SyncPending,
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		// Two racing opens for the same operator collide on the partial
		// unique index; surface that as the same conflict.
		if existing, ferr := s.repo.FindOpenByOperator(ctx, req.OperatorID); ferr == nil && existing != nil {
			return nil, apierror.Conflict(fmt.Sprintf("operador %d já possui um caixa aberto", req.OperatorID))
		}
		return nil, apierror.Persistence("abrir caixa", err)
	}

	mov := &model.CashMovement{
		UUID:       uuid.New(),
		Type:       model.MovementOpen,
		Amount:     req.InitialAmount,
		OperatorID: req.OperatorID,
		SessionID:  &sess.ID,
		SyncStatus: model.SyncPending,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreateMovement(ctx, mov); err != nil {
		return nil, apierror.Persistence("registrar movimento de abertura", err)
	}

	log.Info().
		Int("operator_id", req.OperatorID).
		Uint("session_id", sess.ID).
		Int64("initial_amount", req.InitialAmount).
		Msg("caixa aberto")

	resp := toSessionResponse(sess)
	return &resp, nil
}

func (s *caixaService) Fechar(ctx context.Context, req dto.FecharCaixaRequest) (*dto.FecharCaixaResponse, error) {
	sess, err := s.repo.FindSessionByID(ctx, req.SessionID)
	if err == repository.ErrNotFound {
		return nil, apierror.InvalidState(fmt.Sprintf("caixa %d não encontrado", req.SessionID))
	}
	if err != nil {
		return nil, apierror.Persistence("consultar caixa", err)
	}
	if sess.Status != model.SessionOpen {
		return nil, apierror.InvalidState(fmt.Sprintf("caixa %d não está aberto", req.SessionID))
	}

	totals, err := s.SessionTotals(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess.Status = model.SessionClosed
	sess.ClosedAt = &now
	sess.FinalAmount = &req.FinalAmount
	sess.SyncStatus = model.SyncPending
	if err := s.repo.UpdateSession(ctx, sess); err != nil {
		return nil, apierror.Persistence("fechar caixa", err)
	}

	variance := classificarDesvio(req.FinalAmount, totals.NetTotal)

	log.Info().
		Uint("session_id", sess.ID).
		Int64("expected", totals.NetTotal).
		Int64("counted", req.FinalAmount).
		Int64("variance", variance.Amount).
		Str("classification", variance.Classification).
		Msg("caixa fechado")

	return &dto.FecharCaixaResponse{
		Session:  toSessionResponse(sess),
		Totals:   *totals,
		Variance: variance,
	}, nil
}

// classificarDesvio compares the counted drawer against the expected
// amount and buckets the deviation: up to 1% normal, up to 5% warning,
// above that critical. A zero expected amount with any deviation is
// critical outright.
func classificarDesvio(counted, expected int64) dto.VarianceResponse {
	amount := counted - expected

	var pct decimal.Decimal
	if expected != 0 {
		pct = decimal.NewFromInt(amount).
			Div(decimal.NewFromInt(expected)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	} else if amount != 0 {
		pct = decimal.NewFromInt(100)
	}

	abs := pct.Abs()
	classification := "normal"
	switch {
	case abs.GreaterThan(desvioWarning):
		classification = "critical"
	case abs.GreaterThan(desvioNormal):
		classification = "warning"
	}

	return dto.VarianceResponse{Amount: amount, Percent: pct, Classification: classification}
}

func (s *caixaService) CurrentSession(ctx context.Context, operatorID int) (*model.CaixaSession, error) {
	sess, err := s.repo.FindOpenByOperator(ctx, operatorID)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apierror.Persistence("consultar caixa aberto", err)
	}
	return sess, nil
}

func (s *caixaService) RegistrarMovimento(ctx context.Context, kind string, req dto.MovimentoRequest) (*dto.MovementResponse, error) {
	if kind != model.MovementBleed && kind != model.MovementSupply {
		return nil, apierror.InvalidState(fmt.Sprintf("tipo de movimento inválido: %s", kind))
	}

	sess, err := s.repo.FindSessionByID(ctx, req.SessionID)
	if err == repository.ErrNotFound {
		return nil, apierror.InvalidState(fmt.Sprintf("caixa %d não encontrado", req.SessionID))
	}
	if err != nil {
		return nil, apierror.Persistence("consultar caixa", err)
	}
	if sess.Status != model.SessionOpen {
		return nil, apierror.InvalidState(fmt.Sprintf("caixa %d não está aberto", req.SessionID))
	}

	reason := req.Reason
	mov := &model.CashMovement{
		UUID:       uuid.New(),
		Type:       kind,
		Amount:     req.Amount,
		OperatorID: req.OperatorID,
		SessionID:  &sess.ID,
		Reason:     &reason,
		SyncStatus: model.SyncPending,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreateMovement(ctx, mov); err != nil {
		return nil, apierror.Persistence("registrar movimento", err)
	}

	log.Info().
		Str("type", kind).
		Uint("session_id", sess.ID).
		Int64("amount", req.Amount).
		Msg("movimento de caixa registrado")

	resp := toMovementResponse(mov)
	return &resp, nil
}

// RegistrarVendaDinheiro records the cash that actually entered the
// drawer for a sale: tendered minus change, never the full sale value.
func (s *caixaService) RegistrarVendaDinheiro(ctx context.Context, sessionID uint, operatorID int, amount int64) error {
	mov := &model.CashMovement{
		UUID:       uuid.New(),
		Type:       model.MovementSale,
		Amount:     amount,
		OperatorID: operatorID,
		SessionID:  &sessionID,
		SyncStatus: model.SyncPending,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreateMovement(ctx, mov); err != nil {
		return apierror.Persistence("registrar entrada de venda", err)
	}
	return nil
}

func (s *caixaService) SessionTotals(ctx context.Context, sessionID uint) (*dto.SessionTotals, error) {
	sess, err := s.repo.FindSessionByID(ctx, sessionID)
	if err == repository.ErrNotFound {
		return nil, apierror.InvalidState(fmt.Sprintf("caixa %d não encontrado", sessionID))
	}
	if err != nil {
		return nil, apierror.Persistence("consultar caixa", err)
	}

	movs, err := s.repo.ListMovementsBySession(ctx, sessionID)
	if err != nil {
		return nil, apierror.Persistence("listar movimentos", err)
	}
	sales, err := s.sales.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, apierror.Persistence("listar vendas da sessão", err)
	}

	totals := aggregateTotals(sess.InitialAmount, sales, movs)
	totals.SessionID = sess.ID
	return &totals, nil
}

func (s *caixaService) DailyTotals(ctx context.Context, day time.Time) (*dto.DailyTotals, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	sales, err := s.sales.ListBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, apierror.Persistence("listar vendas do dia", err)
	}
	movs, err := s.repo.ListMovementsBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, apierror.Persistence("listar movimentos do dia", err)
	}

	totals := aggregateTotals(0, sales, movs)

	fiscal, err := s.fiscalTotals(ctx, dayStart, sales)
	if err != nil {
		return nil, err
	}

	return &dto.DailyTotals{
		Date:           dayStart.Format("2006-01-02"),
		SalesCount:     totals.SalesCount,
		SalesTotal:     totals.SalesTotal,
		BleedsTotal:    totals.BleedsTotal,
		SuppliesTotal:  totals.SuppliesTotal,
		NetTotal:       totals.NetTotal,
		PaymentMethods: totals.PaymentMethods,
		Operators:      totals.Operators,
		Movements:      totals.Movements,
		Fiscal:         *fiscal,
	}, nil
}

// fiscalTotals builds the Z-reading fiscal block. Calling it consumes
// one CRZ number, so a failed print still burns the counter.
func (s *caixaService) fiscalTotals(ctx context.Context, dayStart time.Time, sales []model.Sale) (*dto.FiscalTotals, error) {
	crz, err := s.counters.Next(ctx, model.CounterCRZ)
	if err != nil {
		return nil, err
	}
	cro, err := s.counters.Current(ctx, model.CounterCRO)
	if err != nil {
		return nil, err
	}

	var gross, discount, cancelledTotal int64
	var cancelledCount int
	cooMin, cooMax := int64(0), int64(0)
	for _, sale := range sales {
		switch sale.Status {
		case model.SaleCompleted:
			gross += sale.Total
			discount += sale.Discount
		case model.SaleCancelled:
			cancelledCount++
			cancelledTotal += sale.Total
		default:
			continue
		}
		if coo, perr := strconv.ParseInt(sale.COO, 10, 64); perr == nil {
			if cooMin == 0 || coo < cooMin {
				cooMin = coo
			}
			if coo > cooMax {
				cooMax = coo
			}
		}
	}

	// Grand total over the full fiscal history, not just the day.
	gt, err := s.sales.SumGrossCompleted(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, apierror.Persistence("calcular total geral", err)
	}

	// Week runs Sunday through Saturday.
	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
	weekly, err := s.sales.SumGrossCompleted(ctx, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, apierror.Persistence("calcular total semanal", err)
	}

	monthly := make(map[string]int64, 12)
	for m := time.January; m <= time.December; m++ {
		monthStart := time.Date(dayStart.Year(), m, 1, 0, 0, 0, 0, dayStart.Location())
		sum, err := s.sales.SumGrossCompleted(ctx, monthStart, monthStart.AddDate(0, 1, 0))
		if err != nil {
			return nil, apierror.Persistence("calcular total mensal", err)
		}
		monthly[m.String()] = sum
	}

	return &dto.FiscalTotals{
		CRZ:            crz,
		CRO:            cro,
		GT:             gt,
		COOInitial:     cooMin,
		COOFinal:       cooMax,
		GrossTotal:     gross,
		DiscountTotal:  discount,
		CancelledCount: cancelledCount,
		CancelledTotal: cancelledTotal,
		WeeklyTotal:    weekly,
		MonthlyTotals:  monthly,
	}, nil
}

// aggregateTotals folds sales and drawer movements into the reading the
// X and Z reports share. Only completed sales count toward revenue;
// bleeds and supplies adjust the expected drawer either way.
func aggregateTotals(initialAmount int64, sales []model.Sale, movs []model.CashMovement) dto.SessionTotals {
	totals := dto.SessionTotals{
		InitialAmount:  initialAmount,
		PaymentMethods: map[string]int64{},
		Operators:      map[string]*dto.OperatorStats{},
	}

	names := map[int]string{}
	for _, sale := range sales {
		if sale.OperatorName != "" {
			names[sale.OperatorID] = sale.OperatorName
		}
	}
	resolveName := func(id int) string {
		if n, ok := names[id]; ok {
			return n
		}
		return fmt.Sprintf("Operador %d", id)
	}
	opStats := func(id int) *dto.OperatorStats {
		name := resolveName(id)
		st, ok := totals.Operators[name]
		if !ok {
			st = &dto.OperatorStats{PaymentMethods: map[string]int64{}}
			totals.Operators[name] = st
		}
		return st
	}

	for _, sale := range sales {
		if sale.Status != model.SaleCompleted {
			continue
		}
		totals.SalesCount++
		totals.SalesTotal += sale.NetTotal
		totals.PaymentMethods[sale.PaymentMethod] += sale.NetTotal

		st := opStats(sale.OperatorID)
		st.SalesCount++
		st.GrossTotal += sale.Total
		st.DiscountTotal += sale.Discount
		st.NetTotal += sale.NetTotal
		st.PaymentMethods[sale.PaymentMethod] += sale.NetTotal
	}

	for _, mov := range movs {
		switch mov.Type {
		case model.MovementBleed:
			totals.BleedsTotal += mov.Amount
			opStats(mov.OperatorID).BleedsTotal += mov.Amount
		case model.MovementSupply:
			totals.SuppliesTotal += mov.Amount
			opStats(mov.OperatorID).SuppliesTotal += mov.Amount
		}
		line := dto.MovementLine{
			Type:      mov.Type,
			Amount:    mov.Amount,
			CreatedAt: mov.CreatedAt.Format(time.RFC3339),
		}
		if mov.Reason != nil {
			line.Reason = *mov.Reason
		}
		totals.Movements = append(totals.Movements, line)
	}

	totals.NetTotal = initialAmount + totals.SalesTotal + totals.SuppliesTotal - totals.BleedsTotal
	return totals
}

func toSessionResponse(sess *model.CaixaSession) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:            sess.ID,
		UUID:          sess.UUID.String(),
		OperatorID:    sess.OperatorID,
		OperatorName:  sess.OperatorName,
		OpenedAt:      sess.OpenedAt.Format(time.RFC3339),
		InitialAmount: sess.InitialAmount,
		FinalAmount:   sess.FinalAmount,
		Status:        sess.Status,
	}
	if sess.ClosedAt != nil {
		closed := sess.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &closed
	}
	return resp
}

func toMovementResponse(mov *model.CashMovement) dto.MovementResponse {
	return dto.MovementResponse{
		UUID:   mov.UUID.String(),
		Type:   mov.Type,
		Amount: mov.Amount,
	}
}
