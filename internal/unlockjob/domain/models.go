package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Status is the unlock lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// IsTerminal reports whether the status counts as completed work.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// UnlockJob is a device-unlock service request.
type UnlockJob struct {
	ID        snowflake.ID     `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID     `gorm:"not null;index" json:"organization_id"`
	OwnerID   snowflake.ID     `gorm:"not null;index" json:"owner_id"`
	Status    Status           `gorm:"not null;index" json:"status"`
	Brand     string           `json:"brand,omitempty"`
	Model     string           `json:"model,omitempty"`
	Cost      *decimal.Decimal `gorm:"type:decimal(20,4)" json:"cost,omitempty"`
	CreatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (UnlockJob) TableName() string { return "unlock_jobs" }
