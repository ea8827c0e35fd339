package model

import "time"

// Fiscal sequence names. CCF and COO are issued per sale, CRZ counts
// Z-report reductions, CRO counts operational restarts (never
// incremented by this core).
const (
	CounterCCF = "ccf"
	CounterCOO = "coo"
	CounterCRZ = "crz"
	CounterCRO = "cro"
)

// Counter is a named monotonic integer. Mutated only by an atomic
// increment-and-read at the storage layer.
type Counter struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(20);uniqueIndex;not null"`
	Value     int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (Counter) TableName() string { return "counters" }
