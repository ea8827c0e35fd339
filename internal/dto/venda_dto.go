package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVendaRequest struct {
	ProductID int   `json:"product_id" validate:"required,min=1"`
	Quantity  int   `json:"quantity"   validate:"required,gt=0"`
	UnitPrice int64 `json:"unit_price" validate:"required,gt=0"`
	Discount  int64 `json:"discount"   validate:"min=0"`
}

type PagamentoRequest struct {
	Method string `json:"method" validate:"required,min=1"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

type RegistrarVendaRequest struct {
	OperatorID   int                `json:"operator_id"   validate:"required,min=1"`
	OperatorName string             `json:"operator_name" validate:"required,min=1"`
	Items        []ItemVendaRequest `json:"items"         validate:"required,min=1,dive"`
	Payments     []PagamentoRequest `json:"payments"      validate:"dive"`
	// Discount is the sale-level discount in cents, additive to any
	// per-line discounts.
	Discount int64 `json:"discount" validate:"min=0"`
	// CashTendered: bills handed over when paying in DINHEIRO. Used by
	// the settlement path to record the net cash that entered the drawer
	// (tendered minus change), not the full payment amount.
	CashTendered int64 `json:"cash_tendered" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VendaResponse struct {
	UUID       string `json:"uuid"`
	SaleNumber string `json:"numero_venda"`
	CCF        string `json:"ccf"`
	COO        string `json:"coo"`
	Total      int64  `json:"total"`
	Discount   int64  `json:"discount"`
	NetTotal   int64  `json:"net_total"`
	Status     string `json:"status"`
	// Change returned to the customer, cents. Zero for non-cash sales.
	Change int64 `json:"change"`
}

type ItemVendaResponse struct {
	ProductID int   `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
	Total     int64 `json:"total"`
	Discount  int64 `json:"discount"`
}

type VendaDetalheResponse struct {
	UUID          string              `json:"uuid"`
	SaleNumber    string              `json:"numero_venda"`
	CCF           string              `json:"ccf"`
	COO           string              `json:"coo"`
	OperatorID    int                 `json:"operator_id"`
	OperatorName  string              `json:"operator_name"`
	Total         int64               `json:"total"`
	Discount      int64               `json:"discount"`
	NetTotal      int64               `json:"net_total"`
	PaymentMethod string              `json:"payment_method"`
	Status        string              `json:"status"`
	SyncStatus    string              `json:"sync_status"`
	CreatedAt     string              `json:"created_at"`
	Items         []ItemVendaResponse `json:"items"`
}

// RecoveredSaleResponse carries the items of a recovered suspended sale
// back to the cart. The suspended record is gone by the time this is
// returned.
type RecoveredSaleResponse struct {
	UUID     string              `json:"uuid"`
	Discount int64               `json:"discount"`
	Items    []ItemVendaResponse `json:"items"`
}
