package model

import "time"

// Product mirrors one catalog row pushed by the central API. The ID is
// the central ID, not a local surrogate, so catalog loads are upserts.
type Product struct {
	ID         int     `gorm:"primaryKey"`
	Code       string  `gorm:"column:codigo;type:varchar(50);not null;index"`
	Barcode    *string `gorm:"column:codigo_barras;type:varchar(50);index"`
	Descricao  string  `gorm:"type:text;not null"`
	// PrecoVenda in cents.
	PrecoVenda int64  `gorm:"not null"`
	Unit       string `gorm:"column:unidade;type:varchar(10);not null"`
	Stock      int    `gorm:"column:estoque;not null;default:0"`
	Active     bool   `gorm:"column:ativo;not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Product) TableName() string { return "products" }

// Operator mirrors one user row from the central API. PasswordHash is a
// bcrypt hash generated upstream; the terminal only verifies it.
type Operator struct {
	ID           int     `gorm:"primaryKey"`
	Name         string  `gorm:"type:text;not null"`
	Email        string  `gorm:"type:varchar(320);uniqueIndex;not null"`
	PasswordHash *string `gorm:"type:text"`
	Role         string  `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Operator) TableName() string { return "users" }
