package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuarterlyStatement holds the hand-entered balance sheet of one quarter.
// Each section maps a line item to its amount as entered.
type QuarterlyStatement struct {
	ID                    uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID        uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_statement_period,priority:1" json:"organization_id"`
	Year                  string            `gorm:"type:varchar(4);not null;uniqueIndex:idx_statement_period,priority:2" json:"year"`
	Quarter               string            `gorm:"type:varchar(10);not null;uniqueIndex:idx_statement_period,priority:3" json:"quarter"`
	CurrentAssets         datatypes.JSONMap `json:"current_assets"`
	NonCurrentAssets      datatypes.JSONMap `json:"non_current_assets"`
	CurrentLiabilities    datatypes.JSONMap `json:"current_liabilities"`
	NonCurrentLiabilities datatypes.JSONMap `json:"non_current_liabilities"`
	ShareholdersEquity    datatypes.JSONMap `json:"shareholders_equity"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

func (s *QuarterlyStatement) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
