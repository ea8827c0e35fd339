package model

import (
	"time"

	"github.com/google/uuid"
)

// Sale lifecycle states.
const (
	SaleCompleted = "completed"
	SaleCancelled = "cancelled"
	SaleSuspended = "suspended"
)

// Primary payment-method labels. DINHEIRO/CREDITO/DEBITO/PIX come from
// the payment lines; the rest are sentinels for the legacy single-method
// column.
const (
	PaymentCash      = "DINHEIRO"
	PaymentMixed     = "MISTO"
	PaymentCancelled = "CANCELADO"
	PaymentSuspended = "SUSPENSO"
)

// DummyCounter fills the ccf/coo columns of suspended sales, which never
// consume real fiscal numbers.
const DummyCounter = "000000"

// Sale is one completed, cancelled or suspended transaction together
// with its fiscal identification. CCF and COO are issued per sale and
// stored zero-padded to six digits.
type Sale struct {
	ID         uint      `gorm:"primaryKey"`
	UUID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	SaleNumber string    `gorm:"column:numero_venda;uniqueIndex;not null"`
	CCF        string    `gorm:"column:ccf;type:varchar(6);not null"`
	COO        string    `gorm:"column:coo;type:varchar(6);not null"`
	PDVID      string    `gorm:"column:pdv_id;type:varchar(50);not null"`

	OperatorID   int    `gorm:"not null;index"`
	OperatorName string `gorm:"not null"`
	// SessionID is nullable: cancellations and suspensions are not
	// required to be tied to an open session.
	SessionID *uint `gorm:"index"`

	// Totals in cents. NetTotal = Total - Discount, floored at zero.
	Total    int64 `gorm:"not null"`
	Discount int64 `gorm:"not null;default:0"`
	NetTotal int64 `gorm:"not null"`

	PaymentMethod string `gorm:"type:varchar(50)"`
	CouponType    string `gorm:"type:varchar(20);default:'NFC-e'"`
	Status        string `gorm:"type:varchar(10);not null;default:'completed';index"`

	SyncStatus      string  `gorm:"type:varchar(10);not null;default:'pending';index"`
	SyncError       *string `gorm:"type:text"`
	SyncAttempts    int     `gorm:"not null;default:0"`
	LastSyncAttempt *time.Time
	CreatedAt       time.Time

	Items    []SaleItem    `gorm:"foreignKey:SaleID"`
	Payments []SalePayment `gorm:"foreignKey:SaleID"`
}

func (Sale) TableName() string { return "sales" }

// SaleItem is one line of a sale. Total = UnitPrice*Quantity - Discount
// is computed at creation and never re-derived.
type SaleItem struct {
	ID        uint  `gorm:"primaryKey"`
	SaleID    uint  `gorm:"not null;index"`
	ProductID int   `gorm:"not null"`
	Quantity  int   `gorm:"not null"`
	UnitPrice int64 `gorm:"not null"`
	Total     int64 `gorm:"not null"`
	Discount  int64 `gorm:"not null;default:0"`
	CreatedAt time.Time
}

func (SaleItem) TableName() string { return "sale_items" }

// SalePayment is one settled payment line (method + amount in cents).
// A completed sale's payment amounts sum to at least its net total.
type SalePayment struct {
	ID        uint   `gorm:"primaryKey"`
	SaleID    uint   `gorm:"not null;index"`
	Method    string `gorm:"type:varchar(50);not null"`
	Amount    int64  `gorm:"not null"`
	CreatedAt time.Time
}

func (SalePayment) TableName() string { return "sale_payments" }
