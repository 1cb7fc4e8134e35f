package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DepartmentBudget is the spending limit of one department, unique per
// (organization, department). Rows are created lazily by the first limit
// update and never deleted.
type DepartmentBudget struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budget_org_department,priority:1" json:"organization_id"`
	DepartmentName string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_budget_org_department,priority:2" json:"department_name"`
	BudgetAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"budget_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (b *DepartmentBudget) BeforeCreate(tx *gorm.DB) error {
	assignID(&b.ID)
	return nil
}
