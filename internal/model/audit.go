package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionSetBudget             = "SET_BUDGET"
	ActionCreateCashFlow        = "CREATE_CASH_FLOW"
	ActionDeleteCashFlow        = "DELETE_CASH_FLOW"
	ActionSubmitBudgetRequest   = "SUBMIT_BUDGET_REQUEST"
	ActionApproveBudgetRequest  = "APPROVE_BUDGET_REQUEST"
	ActionRevokeBudgetRequest   = "REVOKE_BUDGET_REQUEST"
	ActionPostBalanceSheet      = "POST_BALANCE_SHEET"
	ActionRetractBalanceSheet   = "RETRACT_BALANCE_SHEET"
	ActionReconcileBalanceSheet = "RECONCILE_BALANCE_SHEET"
	ActionCreateOrganization    = "CREATE_ORGANIZATION"
	ActionUpdateOrganization    = "UPDATE_ORGANIZATION"
	ActionAcceptMember          = "ACCEPT_MEMBER"
	ActionRejectMember          = "REJECT_MEMBER"
	ActionSaveStatement         = "SAVE_STATEMENT"
)

// AuditLog tracks Who, What, and When for ledger-affecting changes
type AuditLog struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID *uuid.UUID `gorm:"type:uuid;index" json:"organization_id"`
	UserID         *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil for system jobs such as reconciliation
	User           *User      `gorm:"foreignKey:UserID" json:"user"`
	Action         string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID       string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName     string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details        string     `gorm:"type:text" json:"details"` // serialized JSON payload of the action
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}
