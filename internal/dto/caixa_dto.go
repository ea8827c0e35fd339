package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	OperatorID   int    `json:"operator_id"    validate:"required,min=1"`
	OperatorName string `json:"operator_name"  validate:"required,min=1"`
	// InitialAmount is the opening float in cents.
	InitialAmount int64 `json:"initial_amount" validate:"min=0"`
}

type FecharCaixaRequest struct {
	SessionID uint `json:"session_id"   validate:"required,min=1"`
	// FinalAmount is the counted drawer value in cents.
	FinalAmount int64 `json:"final_amount" validate:"min=0"`
}

type MovimentoRequest struct {
	SessionID  uint   `json:"session_id"  validate:"required,min=1"`
	OperatorID int    `json:"operator_id" validate:"required,min=1"`
	Amount     int64  `json:"amount"      validate:"required,gt=0"`
	Reason     string `json:"reason"      validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SessionResponse struct {
	ID            uint    `json:"id"`
	UUID          string  `json:"uuid"`
	OperatorID    int     `json:"operator_id"`
	OperatorName  string  `json:"operator_name"`
	OpenedAt      string  `json:"opened_at"`
	ClosedAt      *string `json:"closed_at,omitempty"`
	InitialAmount int64   `json:"initial_amount"`
	FinalAmount   *int64  `json:"final_amount,omitempty"`
	Status        string  `json:"status"`
}

type MovementResponse struct {
	UUID   string `json:"uuid"`
	Type   string `json:"type"`
	Amount int64  `json:"amount"`
}

// VarianceResponse reports counted-vs-expected drawer variance at close.
// Percent uses two decimal places; classification follows the
// |pct| ≤ 1 / ≤ 5 / > 5 thresholds.
type VarianceResponse struct {
	Amount         int64           `json:"amount"`
	Percent        decimal.Decimal `json:"percent"`
	Classification string          `json:"classification"` // normal | warning | critical
}

type FecharCaixaResponse struct {
	Session  SessionResponse  `json:"session"`
	Totals   SessionTotals    `json:"totals"`
	Variance VarianceResponse `json:"variance"`
}

type StatusCaixaResponse struct {
	IsOpen  bool             `json:"is_open"`
	Session *SessionResponse `json:"session,omitempty"`
}
