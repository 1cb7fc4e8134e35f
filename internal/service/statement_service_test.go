package service

import (
	"testing"

	"paisawise/internal/apperr"
)

func TestStatementSaveAndGet(t *testing.T) {
	f := newFixture(t)

	exists, err := f.statements.Exists(f.ctx, f.member, "2024", "Q1")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatal("statement exists before save")
	}

	empty, err := f.statements.Get(f.ctx, f.member, "2024", "q1")
	if err != nil {
		t.Fatalf("Get(empty): %v", err)
	}
	if empty.Exists || empty.Quarter != "Q1" || len(empty.CurrentAssets) != 0 {
		t.Fatalf("empty statement = %+v", empty)
	}

	sections := StatementSections{
		CurrentAssets:      map[string]string{"Cash": "12000.50", "Receivables": "3000"},
		CurrentLiabilities: map[string]string{"Payables": "4000"},
		ShareholdersEquity: map[string]string{"Retained earnings": ""},
	}
	if _, err := f.statements.Save(f.ctx, f.owner, "2024", "Q1", sections); err != nil {
		t.Fatalf("Save: %v", err)
	}

	sections.CurrentAssets["Cash"] = "15000"
	saved, err := f.statements.Save(f.ctx, f.owner, "2024", "Q1", sections)
	if err != nil {
		t.Fatalf("Save (update): %v", err)
	}
	if saved.CurrentAssets["Cash"] != "15000" {
		t.Fatalf("Cash = %q, want 15000", saved.CurrentAssets["Cash"])
	}

	var rows int64
	f.db.Table("quarterly_statements").Count(&rows)
	if rows != 1 {
		t.Fatalf("statement rows = %d, want 1", rows)
	}

	got, err := f.statements.Get(f.ctx, f.member, "2024", "Q1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Exists || got.CurrentLiabilities["Payables"] != "4000" || got.CurrentAssets["Receivables"] != "3000" {
		t.Fatalf("statement = %+v", got)
	}
}

func TestStatementValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name, year, quarter string
		sections            StatementSections
		wantKind            apperr.Kind
	}{
		{"short year", "24", "Q1", StatementSections{}, apperr.KindValidation},
		{"bad quarter", "2024", "Q5", StatementSections{}, apperr.KindValidation},
		{"bad amount", "2024", "Q2", StatementSections{CurrentAssets: map[string]string{"Cash": "a lot"}}, apperr.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.statements.Save(f.ctx, f.owner, tt.year, tt.quarter, tt.sections); !apperr.Is(err, tt.wantKind) {
				t.Fatalf("Save error = %v, want %s", err, tt.wantKind)
			}
		})
	}

	if _, err := f.statements.Save(f.ctx, f.member, "2024", "Q1", StatementSections{}); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("member Save error = %v, want Unauthorized", err)
	}
}
