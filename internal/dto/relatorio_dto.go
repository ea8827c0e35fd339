package dto

// OperatorStats is the per-operator breakdown inside an X or Z report,
// keyed by operator display name.
type OperatorStats struct {
	SalesCount     int              `json:"sales_count"`
	GrossTotal     int64            `json:"gross_total"`
	DiscountTotal  int64            `json:"discount_total"`
	NetTotal       int64            `json:"net_total"`
	PaymentMethods map[string]int64 `json:"payment_methods"`
	BleedsTotal    int64            `json:"bleeds_total"`
	SuppliesTotal  int64            `json:"supplies_total"`
}

// MovementLine is one drawer event echoed into a report for audit.
type MovementLine struct {
	Type      string `json:"type"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"created_at"`
}

// SessionTotals is the X report: a non-terminal snapshot of one session.
// NetTotal = InitialAmount + SalesTotal + SuppliesTotal - BleedsTotal,
// so a drawer counted at exactly NetTotal closes with zero variance.
type SessionTotals struct {
	SessionID     uint  `json:"session_id"`
	InitialAmount int64 `json:"initial_amount"`
	SalesCount    int   `json:"sales_count"`
	// SalesTotal is the sum of net totals of completed sales.
	SalesTotal    int64 `json:"sales_total"`
	BleedsTotal   int64 `json:"bleeds_total"`
	SuppliesTotal int64 `json:"supplies_total"`
	NetTotal      int64 `json:"net_total"`
	// PaymentMethods attributes each sale's full net total to its primary
	// method label. Split payments keep this legacy attribution.
	PaymentMethods map[string]int64          `json:"payment_methods"`
	Operators      map[string]*OperatorStats `json:"operators"`
	Movements      []MovementLine            `json:"movements"`
}

// FiscalTotals is the Z-only fiscal block.
type FiscalTotals struct {
	CRZ int64 `json:"crz"`
	CRO int64 `json:"cro"`
	// GT is the all-time gross total of completed sales, recomputed from
	// history on every call.
	GT         int64 `json:"gt"`
	COOInitial int64 `json:"coo_initial"`
	COOFinal   int64 `json:"coo_final"`

	GrossTotal     int64 `json:"gross_total"`
	DiscountTotal  int64 `json:"discount_total"`
	CancelledCount int   `json:"cancelled_count"`
	CancelledTotal int64 `json:"cancelled_total"`

	// WeeklyTotal covers the Sunday-to-Saturday week containing the
	// report date; MonthlyTotals covers the twelve months of its year.
	WeeklyTotal   int64            `json:"weekly_total"`
	MonthlyTotals map[string]int64 `json:"monthly_totals"`
}

// DailyTotals is the Z report: day-scoped aggregation across all
// sessions and operators plus the fiscal rollup.
type DailyTotals struct {
	Date          string `json:"date"`
	SalesCount    int    `json:"sales_count"`
	SalesTotal    int64  `json:"sales_total"`
	BleedsTotal   int64  `json:"bleeds_total"`
	SuppliesTotal int64  `json:"supplies_total"`
	NetTotal      int64  `json:"net_total"`

	PaymentMethods map[string]int64          `json:"payment_methods"`
	Operators      map[string]*OperatorStats `json:"operators"`
	Movements      []MovementLine            `json:"movements"`

	Fiscal FiscalTotals `json:"fiscal"`
}
