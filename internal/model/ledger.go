package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Accounting type of a ledger entry
const (
	EntryTypeAsset     = "asset"
	EntryTypeLiability = "liability"
)

// Direction of a ledger entry. Amounts are always stored as magnitudes.
const (
	FlowInflow  = "inflow"
	FlowOutflow = "outflow"
)

// Origin of a balance sheet entry
const (
	SourceCashFlow      = "cash_flow"
	SourceBudgetRequest = "budget_request"
)

// LedgerFields is the entry shape shared by the cash-flow ledger and the
// balance sheet. Entries are immutable once written; they can only be deleted.
type LedgerFields struct {
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string          `gorm:"type:varchar(100);not null" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	Type           string          `gorm:"type:varchar(20);not null;index" json:"type"` // asset, liability
	Flow           string          `gorm:"type:varchar(20);not null;index" json:"flow"` // inflow, outflow
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	DepartmentName string          `gorm:"type:varchar(255);index" json:"department_name"`
	AuthorName     string          `gorm:"type:varchar(255)" json:"author_name"`
	MemberID       uuid.UUID       `gorm:"type:uuid;index" json:"member_id"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`
}

// CashFlowEntry is a raw transaction entered directly by an owner.
type CashFlowEntry struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LedgerFields
}

func (e *CashFlowEntry) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}

// BalanceSheetEntry is a line of the official statement. Each entry is
// keyed by what produced it, so a source posts at most once.
type BalanceSheetEntry struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LedgerFields
	SourceType string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_balance_source,priority:1" json:"source_type"`
	SourceID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balance_source,priority:2" json:"source_id"`
}

func (e *BalanceSheetEntry) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}
