package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marcos-ViniciusDEV/PDV/internal/apierror"
	"github.com/Marcos-ViniciusDEV/PDV/internal/dto"
	"github.com/Marcos-ViniciusDEV/PDV/internal/model"
)

type caixaFixture struct {
	svc      CaixaService
	caixa    *memCaixaRepo
	vendas   *memVendaRepo
	counters CounterService
}

func newCaixaFixture() *caixaFixture {
	caixa := newMemCaixaRepo()
	vendas := newMemVendaRepo()
	counters := NewCounterService(newMemCounterRepo())
	return &caixaFixture{
		svc:      NewCaixaService(caixa, vendas, counters),
		caixa:    caixa,
		vendas:   vendas,
		counters: counters,
	}
}

func (f *caixaFixture) addCompletedSale(sessionID uint, operatorID int, operatorName string, gross, discount int64, method string) {
	net := gross - discount
	if net < 0 {
		net = 0
	}
	sale := &model.Sale{
		UUID:          uuid.New(),
		SaleNumber:    uuid.NewString(),
		OperatorID:    operatorID,
		OperatorName:  operatorName,
		SessionID:     &sessionID,
		Total:         gross,
		Discount:      discount,
		NetTotal:      net,
		PaymentMethod: method,
		Status:        model.SaleCompleted,
		SyncStatus:    model.SyncPending,
		CreatedAt:     time.Now(),
	}
	_ = f.vendas.Create(context.Background(), sale)
}

func TestAbrirCaixaCreatesOpeningMovement(t *testing.T) {
	f := newCaixaFixture()
	ctx := context.Background()

	resp, err := f.svc.Abrir(ctx, dto.AbrirCaixaRequest{
		OperatorID: 1, OperatorName: "Maria", InitialAmount: 10000,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SessionOpen, resp.Status)
	assert.Equal(t, int64(10000), resp.InitialAmount)

	movs, err := f.caixa.ListMovementsBySession(ctx, resp.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, model.MovementOpen, movs[0].Type)
	assert.Equal(t, int64(10000), movs[0].Amount)
	assert.Equal(t, model.SyncPending, movs[0].SyncStatus)
}

func TestAbrirCaixaRejectsSecondOpenSession(t *testing.T) {
	f := newCaixaFixture()
	ctx := context.Background()

	_, err := f.svc.Abrir(ctx, dto.AbrirCaixaRequest{OperatorID: 1, OperatorName: "Maria", InitialAmount: 5000})
	require.NoError(t, err)

	_, err = f.svc.Abrir(ctx, dto.AbrirCaixaRequest{OperatorID: 1, OperatorName: "Maria", InitialAmount: 5000})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.KindConflict))

	// A different operator is unaffected.
	_, err = f.svc.Abrir(ctx, dto.AbrirCaixaRequest{OperatorID: 2, OperatorName: "João", InitialAmount: 5000})
	assert.NoError(t, err)
}

func TestSessionTotalsFormula(t *testing.T) {
	f := newCaixaFixture()
	ctx := context.Background()

	sess, err := f.svc.Abrir(ctx, dto.AbrirCaixaRequest{OperatorID: 1, OperatorName: "Maria", InitialAmount: 10000})
	require.NoError(t, err)

	f.addCompletedSale(sess.ID, 1, "Maria", 3000, 0, model.PaymentCash)

	_, err = f.svc.RegistrarMovimento(ctx, model.MovementBleed, dto.MovimentoRequest{
		SessionID: sess.ID, OperatorID: 1, Amount: 500, Reason: "troco para gaveta 2",
	})
	require.NoError(t, err)
	_, err = f.svc.RegistrarMovimento(ctx, model.MovementSupply, dto.MovimentoRequest{
		SessionID: sess.ID, OperatorID: 1, Amount: 2000, Reason: "reforço da tesouraria",
	})
	require.NoError(t, err)

	totals, err := f.svc.SessionTotals(ctx, sess.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, totals.SalesCount)
	assert.Equal(t, int64(3000), totals.SalesTotal)
	assert.Equal(t, int64(500), totals.BleedsTotal)
	assert.Equal(t, int64(2000), totals.SuppliesTotal)
	// 10000 + 3000 + 2000 - 500
	assert.Equal(t, int64(14500), totals.NetTotal)
	assert.Equal(t, int64(3000), totals.PaymentMethods[model.PaymentCash])

	maria := totals.Operators["Maria"]
	require.NotNil(t, maria)
	assert.Equal(t, 1, maria.SalesCount)
	assert.Equal(t, int64(500), maria.BleedsTotal)
	assert.Equal(t, int64(2000), maria.SuppliesTotal)
}

func TestFecharCaixaZeroVarianceRoundTrip(t *testing.T) {
	f := newCaixaFixture()
	ctx := context.Background()

	sess, err := f.svc.Abrir(ctx, dto.AbrirCaixaRequest{OperatorID: 1, OperatorName: "Maria", InitialAmount: 10000})
	require.NoError(t, err)
	f.addCompletedSale(sess.ID, 1, "Maria", 3000, 0, model.PaymentCash)

	totals, err := f.svc.SessionTotals(ctx, sess.ID)
	require.NoError(t, err)

	resp, err := f.svc.Fechar(ctx, dto.FecharCaixaRequest{SessionID: sess.ID, FinalAmount: totals.NetTotal})
	require.NoError(t, err)

	assert.Equal(t, model.SessionClosed, resp.Session.Status)
	assert.NotNil(t, resp.Session.ClosedAt)
	assert.Equal(t, int64(0), resp.Variance.Amount)
	assert.True(t, resp.Variance.Percent.IsZero())
	assert.Equal(t, "normal", resp.Variance.Classification)
}

func TestFecharCaixaVarianceClassification(t *testing.T) {
	cases := []struct {
		name     string
		counted  int64
		expected int64
		class    string
	}{
		{"within one percent", 10050, 10000, "normal"},
		{"short within five percent", 9700, 10000, "warning"},
		{"over five percent", 8000, 10000, "critical"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := classificarDesvio(tc.counted, tc.expected)
			assert.Equal(t, tc.class, v.Classification)
			assert.Equal(t, tc.counted-tc.expected, v.Amount)
		})
	}
}

func TestFecharCaixaTwiceFails(t *testing.T) {
	f := newCaixaFixture()
	ctx := context.Background()

	sess, err := f.svc.Abrir(ctx, dto.AbrirCaixaRequest{OperatorID: 1, OperatorName: "Maria", InitialAmount: 0})
	require.NoError(t, err)

	_, err = f.svc.Fechar(ctx, dto.FecharCaixaRequest{SessionID: sess.ID, FinalAmount: 0})
	require.NoError(t, err)

	_, err = f.svc.Fechar(ctx, dto.FecharCaixaRequest{SessionID: sess.ID, FinalAmount: 0})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.KindInvalidState))

	_, err = f.svc.Fechar(ctx, dto.FecharCaixaRequest{SessionID: 999, FinalAmount: 0})
	assert.True(t, apierror.Is(err, apierror.KindInvalidState))
}

func TestRegistrarMovimentoRejectsClosedSessionAndBadKind(t *testing.T) {
	f := newCaixaFixture()
	ctx := context.Background()

	sess, err := f.svc.Abrir(ctx, dto.AbrirCaixaRequest{OperatorID: 1, OperatorName: "Maria", InitialAmount: 0})
	require.NoError(t, err)

	_, err = f.svc.RegistrarMovimento(ctx, model.MovementOpen, dto.MovimentoRequest{
		SessionID: sess.ID, OperatorID: 1, Amount: 100, Reason: "abc",
	})
	assert.True(t, apierror.Is(err, apierror.KindInvalidState))

	_, err = f.svc.Fechar(ctx, dto.FecharCaixaRequest{SessionID: sess.ID, FinalAmount: 0})
	require.NoError(t, err)

	_, err = f.svc.RegistrarMovimento(ctx, model.MovementBleed, dto.MovimentoRequest{
		SessionID: sess.ID, OperatorID: 1, Amount: 100, Reason: "abc",
	})
	assert.True(t, apierror.Is(err, apierror.KindInvalidState))
}

func TestDailyTotalsFiscalBlock(t *testing.T) {
	f := newCaixaFixture()
	ctx := context.Background()

	sess, err := f.svc.Abrir(ctx, dto.AbrirCaixaRequest{OperatorID: 1, OperatorName: "Maria", InitialAmount: 5000})
	require.NoError(t, err)

	now := time.Now()
	completed := &model.Sale{
		UUID: uuid.New(), SaleNumber: "PDV001-000001",
		CCF: "000001", COO: "000001",
		OperatorID: 1, OperatorName: "Maria", SessionID: &sess.ID,
		Total: 10000, Discount: 1000, NetTotal: 9000,
		PaymentMethod: model.PaymentCash, Status: model.SaleCompleted,
		SyncStatus: model.SyncPending, CreatedAt: now,
	}
	require.NoError(t, f.vendas.Create(ctx, completed))

	cancelled := &model.Sale{
		UUID: uuid.New(), SaleNumber: "PDV001-000002",
		CCF: "000002", COO: "000002",
		OperatorID: 1, OperatorName: "Maria",
		Total: 4000, NetTotal: 4000,
		PaymentMethod: model.PaymentCancelled, Status: model.SaleCancelled,
		SyncStatus: model.SyncPending, CreatedAt: now,
	}
	require.NoError(t, f.vendas.Create(ctx, cancelled))

	suspended := &model.Sale{
		UUID: uuid.New(), SaleNumber: "SUSP-1",
		CCF: model.DummyCounter, COO: model.DummyCounter,
		OperatorID: 1, OperatorName: "Maria",
		Total: 700, NetTotal: 700,
		PaymentMethod: model.PaymentSuspended, Status: model.SaleSuspended,
		SyncStatus: model.SyncPending, CreatedAt: now,
	}
	require.NoError(t, f.vendas.Create(ctx, suspended))

	z, err := f.svc.DailyTotals(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 1, z.SalesCount)
	assert.Equal(t, int64(9000), z.SalesTotal)
	// Daily aggregation carries no opening float.
	assert.Equal(t, int64(9000), z.NetTotal)

	assert.Equal(t, int64(1), z.Fiscal.CRZ)
	assert.Equal(t, int64(0), z.Fiscal.CRO)
	assert.Equal(t, int64(10000), z.Fiscal.GrossTotal)
	assert.Equal(t, int64(1000), z.Fiscal.DiscountTotal)
	assert.Equal(t, 1, z.Fiscal.CancelledCount)
	assert.Equal(t, int64(4000), z.Fiscal.CancelledTotal)
	assert.Equal(t, int64(1), z.Fiscal.COOInitial)
	assert.Equal(t, int64(2), z.Fiscal.COOFinal)
	assert.Equal(t, int64(10000), z.Fiscal.GT)
	assert.Equal(t, int64(10000), z.Fiscal.WeeklyTotal)
	assert.Equal(t, int64(10000), z.Fiscal.MonthlyTotals[now.Month().String()])
	assert.Len(t, z.Fiscal.MonthlyTotals, 12)

	// Every call is one fiscal reduction: CRZ advances again.
	z2, err := f.svc.DailyTotals(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), z2.Fiscal.CRZ)
}
