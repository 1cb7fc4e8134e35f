package service

import (
	"testing"
	"time"

	"paisawise/internal/apperr"
	"paisawise/internal/model"
	"paisawise/internal/repository"

	"github.com/google/uuid"
)

func TestCreateCashFlowMirrorsOntoBalanceSheet(t *testing.T) {
	f := newFixture(t)

	entry, err := f.cashFlow.Create(f.ctx, f.owner, CreateCashFlowRequest{
		Name:       "Office rent",
		Type:       model.EntryTypeLiability,
		Flow:       model.FlowOutflow,
		Amount:     dec("2500"),
		Department: "operations",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if entry.AuthorName != "Olivia Owner" || entry.MemberID != f.owner.MembershipID.String() {
		t.Fatalf("attribution = %q/%s, want session owner", entry.AuthorName, entry.MemberID)
	}
	if entry.DepartmentName != "Operations" {
		t.Fatalf("department = %q, want Operations", entry.DepartmentName)
	}

	sheet, err := f.balance.List(f.ctx, f.member)
	if err != nil {
		t.Fatalf("balance List: %v", err)
	}
	if len(sheet) != 1 {
		t.Fatalf("balance sheet entries = %d, want 1", len(sheet))
	}
	if sheet[0].SourceType != model.SourceCashFlow || sheet[0].SourceID != entry.ID {
		t.Fatalf("mirror source = %s/%s, want cash_flow/%s", sheet[0].SourceType, sheet[0].SourceID, entry.ID)
	}
	if !sheet[0].Amount.Equal(dec("2500")) {
		t.Fatalf("mirror amount = %s, want 2500", sheet[0].Amount)
	}
	if !f.notifier.saw(PathCashFlow) {
		t.Fatal("cash-flow view was not revalidated")
	}
}

func TestCreateCashFlowValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		req      CreateCashFlowRequest
		asMember bool
		wantKind apperr.Kind
	}{
		{name: "member", req: CreateCashFlowRequest{Name: "x", Type: "asset", Flow: "inflow", Amount: dec("1")}, asMember: true, wantKind: apperr.KindUnauthorized},
		{name: "bad type", req: CreateCashFlowRequest{Name: "x", Type: "equity", Flow: "inflow", Amount: dec("1")}, wantKind: apperr.KindValidation},
		{name: "bad flow", req: CreateCashFlowRequest{Name: "x", Type: "asset", Flow: "sideways", Amount: dec("1")}, wantKind: apperr.KindValidation},
		{name: "negative amount", req: CreateCashFlowRequest{Name: "x", Type: "asset", Flow: "inflow", Amount: dec("-10")}, wantKind: apperr.KindValidation},
		{name: "huge exponent", req: CreateCashFlowRequest{Name: "x", Type: "asset", Flow: "inflow", Amount: dec("1e20000000")}, wantKind: apperr.KindValidation},
		{name: "too many integer digits", req: CreateCashFlowRequest{Name: "x", Type: "asset", Flow: "inflow", Amount: dec("12345678901234567")}, wantKind: apperr.KindValidation},
		{name: "tiny exponent", req: CreateCashFlowRequest{Name: "x", Type: "asset", Flow: "inflow", Amount: dec("1e-20000000")}, wantKind: apperr.KindValidation},
		{name: "blank name", req: CreateCashFlowRequest{Name: "  ", Type: "asset", Flow: "inflow", Amount: dec("1")}, wantKind: apperr.KindValidation},
		{name: "unknown department", req: CreateCashFlowRequest{Name: "x", Type: "asset", Flow: "inflow", Amount: dec("1"), Department: "Astrology"}, wantKind: apperr.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := f.owner
			if tt.asMember {
				actor = f.member
			}
			if _, err := f.cashFlow.Create(f.ctx, actor, tt.req); !apperr.Is(err, tt.wantKind) {
				t.Fatalf("Create error = %v, want %s", err, tt.wantKind)
			}
		})
	}

	entries, err := f.cashFlow.List(f.ctx, f.owner)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected creates left %d entries", len(entries))
	}
}

func TestDeleteCashFlowRemovesMirror(t *testing.T) {
	f := newFixture(t)
	entry, err := f.cashFlow.Create(f.ctx, f.owner, CreateCashFlowRequest{
		Name: "Consulting income", Type: model.EntryTypeAsset, Flow: model.FlowInflow, Amount: dec("900"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := uuid.MustParse(entry.ID)

	if err := f.cashFlow.Delete(f.ctx, f.member, id); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("member Delete error = %v, want Unauthorized", err)
	}

	if err := f.cashFlow.Delete(f.ctx, f.owner, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	sheet, err := f.balance.List(f.ctx, f.owner)
	if err != nil {
		t.Fatalf("balance List: %v", err)
	}
	if len(sheet) != 0 {
		t.Fatalf("balance sheet still has %d entries", len(sheet))
	}

	if err := f.cashFlow.Delete(f.ctx, f.owner, id); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("second Delete error = %v, want NotFound", err)
	}
}

func TestListByDateRangeIsInclusive(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewCashFlowRepository(f.db)

	stamps := []time.Time{
		time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 23, 30, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 23, 59, 59, 500_000_000, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, ts := range stamps {
		e := model.CashFlowEntry{LedgerFields: model.LedgerFields{
			OrganizationID: f.owner.OrganizationID,
			Name:           ts.Format(time.RFC3339Nano),
			Type:           model.EntryTypeAsset,
			Flow:           model.FlowInflow,
			Amount:         dec("1"),
			CreatedAt:      ts,
		}}
		if err := repo.Create(f.ctx, &e); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	r, err := ParseDateRange("2024-01-01", "2024-03-31")
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	got, err := f.cashFlow.ListByDateRange(f.ctx, f.member, r)
	if err != nil {
		t.Fatalf("ListByDateRange: %v", err)
	}

	want := []string{
		"2024-01-01T00:00:00Z",
		"2024-02-15T12:00:00Z",
		"2024-03-31T23:30:00Z",
		"2024-03-31T23:59:59.5Z",
	}
	if len(got) != len(want) {
		t.Fatalf("ListByDateRange returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name != want[i] {
			t.Errorf("entry %d = %s, want %s", i, got[i].Name, want[i])
		}
	}
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		start, end string
		wantErr    bool
		wantEnd    time.Time
	}{
		{"2024-01-01", "2024-03-31", false, time.Date(2024, 3, 31, 23, 59, 59, 999999999, time.UTC)},
		{"2024-01-01T00:00:00Z", "2024-01-02T10:00:00+02:00", false, time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)},
		{"2024-03-31", "2024-01-01", true, time.Time{}},
		{"yesterday", "2024-01-01", true, time.Time{}},
	}

	for _, tt := range tests {
		r, err := ParseDateRange(tt.start, tt.end)
		if tt.wantErr {
			if !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("ParseDateRange(%q, %q) error = %v, want Validation", tt.start, tt.end, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDateRange(%q, %q): %v", tt.start, tt.end, err)
			continue
		}
		if !r.End.Equal(tt.wantEnd) {
			t.Errorf("ParseDateRange(%q, %q).End = %v, want %v", tt.start, tt.end, r.End, tt.wantEnd)
		}
	}
}
