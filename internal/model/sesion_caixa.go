package model

import (
	"time"

	"github.com/google/uuid"
)

// Session lifecycle states.
const (
	SessionOpen   = "OPEN"
	SessionClosed = "CLOSED"
)

// Sync states shared by sessions, movements and sales.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

// Movement kinds carry the central-API wire values so records are
// re-sent verbatim on retry.
const (
	MovementOpen   = "ABERTURA"
	MovementClose  = "FECHAMENTO"
	MovementBleed  = "SANGRIA"
	MovementSupply = "REFORCO"
	MovementSale   = "VENDA"
)

// CaixaSession represents one cashier shift, from drawer opening to the
// counted close. At most one OPEN session may exist per operator —
// checked in the service and enforced by a partial unique index.
type CaixaSession struct {
	ID           uint      `gorm:"primaryKey"`
	UUID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	OperatorID   int       `gorm:"not null;index"`
	OperatorName string    `gorm:"not null"`
	OpenedAt     time.Time `gorm:"not null"`
	ClosedAt     *time.Time
	// InitialAmount is the opening float, FinalAmount the counted drawer
	// value declared at close. All amounts in cents.
	InitialAmount int64  `gorm:"not null"`
	FinalAmount   *int64
	Status        string `gorm:"type:varchar(10);not null;default:'OPEN'"`

	SyncStatus      string  `gorm:"type:varchar(10);not null;default:'pending'"`
	SyncError       *string `gorm:"type:text"`
	SyncAttempts    int     `gorm:"not null;default:0"`
	LastSyncAttempt *time.Time

	Movements []CashMovement `gorm:"foreignKey:SessionID"`
}

func (CaixaSession) TableName() string { return "caixa_sessions" }

// CashMovement is one immutable drawer event. Amounts are stored
// positive; the kind decides the sign when aggregating. Only the sync
// fields change after creation.
type CashMovement struct {
	ID         uint      `gorm:"primaryKey"`
	UUID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Type       string    `gorm:"type:varchar(12);not null"`
	Amount     int64     `gorm:"not null"`
	OperatorID int       `gorm:"not null"`
	// SessionID is nullable: legacy rows predate session linkage.
	SessionID *uint   `gorm:"index"`
	Reason    *string `gorm:"type:text"`

	SyncStatus      string  `gorm:"type:varchar(10);not null;default:'pending';index"`
	SyncError       *string `gorm:"type:text"`
	SyncAttempts    int     `gorm:"not null;default:0"`
	LastSyncAttempt *time.Time
	CreatedAt       time.Time
}

func (CashMovement) TableName() string { return "cash_movements" }
