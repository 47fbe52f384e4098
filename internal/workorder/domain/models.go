package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Status is the repair lifecycle state of a work order.
type Status string

const (
	StatusReceived     Status = "received"
	StatusDiagnosed    Status = "diagnosed"
	StatusInProgress   Status = "in_progress"
	StatusWaitingParts Status = "waiting_parts"
	StatusCompleted    Status = "completed"
	StatusDelivered    Status = "delivered"
	StatusCancelled    Status = "cancelled"
)

// IsTerminal reports whether the status counts as completed work.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusDelivered
}

// WorkOrder is a repair job tracked from intake to delivery.
// The dashboard engine only ever reads these rows.
type WorkOrder struct {
	ID          snowflake.ID     `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID     `gorm:"not null;index" json:"organization_id"`
	OwnerID     snowflake.ID     `gorm:"not null;index" json:"owner_id"`
	Status      Status           `gorm:"not null;index" json:"status"`
	Title       string           `gorm:"not null" json:"title"`
	Description string           `json:"description,omitempty"`
	Cost        *decimal.Decimal `gorm:"type:decimal(20,4)" json:"cost,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt   time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (WorkOrder) TableName() string { return "work_orders" }
