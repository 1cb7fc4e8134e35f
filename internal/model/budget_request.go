package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BudgetRequest asks to spend against one or more departments' limits.
// Only Approved (and its approver stamp) changes after creation.
type BudgetRequest struct {
	ID                  uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID      uuid.UUID                   `gorm:"type:uuid;not null;index" json:"organization_id"`
	MemberID            uuid.UUID                   `gorm:"type:uuid;not null;index" json:"member_id"`
	RequesterName       string                      `gorm:"type:varchar(255)" json:"requester_name"`
	Title               string                      `gorm:"type:varchar(100);not null" json:"title"`
	Purpose             string                      `gorm:"type:varchar(50)" json:"purpose"`
	BusinessImpact      string                      `gorm:"type:text" json:"business_impact"`
	InvolvedDepartments datatypes.JSONSlice[string] `json:"involved_departments"`
	AmountRequired      decimal.Decimal             `gorm:"type:decimal(18,2);not null" json:"amount_required"`
	DetailedDescription string                      `gorm:"type:text" json:"detailed_description"`
	Approved            bool                        `gorm:"not null;index" json:"approved"`
	ApprovedBy          *uuid.UUID                  `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt          *time.Time                  `json:"approved_at"`
	CreatedAt           time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}

func (r *BudgetRequest) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
