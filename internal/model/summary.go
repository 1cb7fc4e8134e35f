package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSummary aggregates balance sheet entries over a time window
type LedgerSummary struct {
	TotalInflow      decimal.Decimal   `json:"total_inflow"`
	TotalOutflow     decimal.Decimal   `json:"total_outflow"`
	NetCashFlow      decimal.Decimal   `json:"net_cash_flow"`
	TotalAssets      decimal.Decimal   `json:"total_assets"`
	TotalLiabilities decimal.Decimal   `json:"total_liabilities"`
	Departments      []DepartmentTotal `json:"departments"`
	RangeStart       time.Time         `json:"range_start"`
	RangeEnd         time.Time         `json:"range_end"`
}

// DepartmentTotal is the inflow/outflow of one department label
type DepartmentTotal struct {
	DepartmentName string          `json:"department_name"`
	Inflow         decimal.Decimal `json:"inflow"`
	Outflow        decimal.Decimal `json:"outflow"`
}

// LedgerAggregate is one grouped row of the summary query
type LedgerAggregate struct {
	DepartmentName string
	Type           string
	Flow           string
	Total          decimal.Decimal
}
