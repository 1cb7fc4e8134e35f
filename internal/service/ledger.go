package service

import (
	"strings"
	"time"

	"paisawise/internal/apperr"
	"paisawise/internal/model"

	"github.com/shopspring/decimal"
)

// LedgerEntryResponse is the wire shape shared by both ledgers.
type LedgerEntryResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Type           string          `json:"type"`
	Flow           string          `json:"flow"`
	Amount         decimal.Decimal `json:"amount"`
	DepartmentName string          `json:"department_name"`
	AuthorName     string          `json:"author_name"`
	MemberID       string          `json:"member_id"`
	SourceType     string          `json:"source_type,omitempty"`
	SourceID       string          `json:"source_id,omitempty"`
	CreatedAt      string          `json:"created_at"`
}

// DateRange is an inclusive created_at window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange accepts YYYY-MM-DD or RFC3339 bounds. A date-only end
// covers the whole of that day.
func ParseDateRange(start, end string) (DateRange, error) {
	from, err := parseBound(start, false)
	if err != nil {
		return DateRange{}, err
	}
	to, err := parseBound(end, true)
	if err != nil {
		return DateRange{}, err
	}
	if to.Before(from) {
		return DateRange{}, apperr.Validation("end %s is before start %s", end, start)
	}
	return DateRange{Start: from, End: to}, nil
}

func parseBound(raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid date %q, expected YYYY-MM-DD or RFC3339", raw)
	}
	return t.UTC(), nil
}

func validateLedgerFields(f *model.LedgerFields) error {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return apperr.Validation("name is required")
	}
	if len(f.Name) > 100 {
		return apperr.Validation("name must be at most 100 characters")
	}
	switch f.Type {
	case model.EntryTypeAsset, model.EntryTypeLiability:
	default:
		return apperr.Validation("type must be %q or %q", model.EntryTypeAsset, model.EntryTypeLiability)
	}
	switch f.Flow {
	case model.FlowInflow, model.FlowOutflow:
	default:
		return apperr.Validation("flow must be %q or %q", model.FlowInflow, model.FlowOutflow)
	}
	amount, err := checkAmount(f.Amount)
	if err != nil {
		return err
	}
	f.Amount = amount
	return nil
}

func toLedgerResponse(id string, f model.LedgerFields) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:             id,
		Name:           f.Name,
		Description:    f.Description,
		Type:           f.Type,
		Flow:           f.Flow,
		Amount:         f.Amount,
		DepartmentName: f.DepartmentName,
		AuthorName:     f.AuthorName,
		MemberID:       f.MemberID.String(),
		CreatedAt:      f.CreatedAt.Format(timeLayout),
	}
}

func toCashFlowResponse(e model.CashFlowEntry) LedgerEntryResponse {
	return toLedgerResponse(e.ID.String(), e.LedgerFields)
}

func toBalanceSheetResponse(e model.BalanceSheetEntry) LedgerEntryResponse {
	res := toLedgerResponse(e.ID.String(), e.LedgerFields)
	res.SourceType = e.SourceType
	res.SourceID = e.SourceID.String()
	return res
}
