package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a point-of-sale transaction was paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// SaleTransaction is a point-of-sale record. It carries no status:
// its existence denotes a completed transaction.
type SaleTransaction struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID    `gorm:"not null;index" json:"organization_id"`
	OwnerID       snowflake.ID    `gorm:"not null;index" json:"owner_id"`
	Total         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total"`
	PaymentMethod PaymentMethod   `gorm:"not null" json:"payment_method"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (SaleTransaction) TableName() string { return "sale_transactions" }
