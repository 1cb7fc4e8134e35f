package service

import (
	"testing"

	"paisawise/internal/apperr"
	"paisawise/internal/model"

	"github.com/google/uuid"
)

func submit(t *testing.T, f *fixture, amount string, departments ...string) BudgetRequestResponse {
	t.Helper()
	res, err := f.requests.Submit(f.ctx, f.member, SubmitBudgetRequest{
		Title:               "Conference travel",
		Purpose:             "travel",
		InvolvedDepartments: departments,
		AmountRequired:      dec(amount),
		DetailedDescription: "Flights and hotel",
	})
	if err != nil {
		t.Fatalf("Submit(%s, %v): %v", amount, departments, err)
	}
	return res
}

func TestSubmitAutoApprovesWithinCombinedLimits(t *testing.T) {
	f := newFixture(t)
	f.setBudget(t, "Engineering", "100000")
	f.setBudget(t, "Marketing", "50000")

	res := submit(t, f, "120000", "Engineering", "Marketing")
	if !res.Approved {
		t.Fatal("request within combined limits was not approved")
	}
	if res.RequesterName != "Mark Member" {
		t.Fatalf("requester = %q, want Mark Member", res.RequesterName)
	}

	postings := f.requestPostings(t)
	if len(postings) != 1 {
		t.Fatalf("postings = %d, want 1", len(postings))
	}
	p := postings[0]
	if !p.Amount.Equal(dec("120000")) {
		t.Errorf("amount = %s, want 120000", p.Amount)
	}
	if p.Type != model.EntryTypeLiability || p.Flow != model.FlowOutflow {
		t.Errorf("posting = %s/%s, want liability/outflow", p.Type, p.Flow)
	}
	if p.DepartmentName != "Engineering, Marketing" {
		t.Errorf("department = %q, want %q", p.DepartmentName, "Engineering, Marketing")
	}
	if p.Name != "Conference travel" || p.Description != "Flights and hotel" {
		t.Errorf("posting text = %q/%q", p.Name, p.Description)
	}
	if p.AuthorName != "Mark Member" || p.MemberID != f.member.MembershipID {
		t.Errorf("attribution = %q/%s, want requester", p.AuthorName, p.MemberID)
	}
	if p.SourceID.String() != res.ID {
		t.Errorf("source id = %s, want %s", p.SourceID, res.ID)
	}
	if !f.notifier.saw(PathBalanceSheet) {
		t.Error("balance sheet was not revalidated")
	}
}

func TestSubmitOverLimitIsPending(t *testing.T) {
	f := newFixture(t)
	f.setBudget(t, "Engineering", "100000")
	f.setBudget(t, "Marketing", "50000")

	res := submit(t, f, "200000", "Engineering", "Marketing")
	if res.Approved {
		t.Fatal("request over combined limits was approved")
	}
	if n := len(f.requestPostings(t)); n != 0 {
		t.Fatalf("postings = %d, want 0", n)
	}
}

func TestAffordabilityBoundary(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		departments []string
		want        bool
	}{
		{"exactly the sum", "150000", []string{"Engineering", "Marketing"}, true},
		{"one cent over", "150000.01", []string{"Engineering", "Marketing"}, false},
		{"no departments", "1", nil, false},
		{"no departments zero amount", "0", nil, true},
		{"unknown department adds nothing", "100001", []string{"Engineering", "Astrology"}, false},
		{"duplicate department counts once", "150000", []string{"Engineering", "Engineering"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.setBudget(t, "Engineering", "100000")
			f.setBudget(t, "Marketing", "50000")

			res := submit(t, f, tt.amount, tt.departments...)
			if res.Approved != tt.want {
				t.Fatalf("approved = %v, want %v", res.Approved, tt.want)
			}
			wantPostings := 0
			if tt.want {
				wantPostings = 1
			}
			if n := len(f.requestPostings(t)); n != wantPostings {
				t.Fatalf("postings = %d, want %d", n, wantPostings)
			}
		})
	}
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.requests.Submit(f.ctx, f.member, SubmitBudgetRequest{Title: " ", AmountRequired: dec("1")})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("blank title error = %v, want Validation", err)
	}
	_, err = f.requests.Submit(f.ctx, f.member, SubmitBudgetRequest{Title: "x", AmountRequired: dec("-1")})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("negative amount error = %v, want Validation", err)
	}
	_, err = f.requests.Submit(f.ctx, f.member, SubmitBudgetRequest{Title: "x", AmountRequired: dec("1e20000000")})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("oversized amount error = %v, want Validation", err)
	}
	_, total, err := f.requests.List(f.ctx, f.owner, BudgetRequestFilter{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 {
		t.Fatalf("rejected submits left %d requests", total)
	}

	applicant := f.createUser(t, "Pat Pending", "pending@example.com")
	if _, err := f.orgs.RequestToJoin(f.ctx, f.actorFor(t, applicant.ID), f.owner.OrganizationID); err != nil {
		t.Fatalf("RequestToJoin: %v", err)
	}
	_, err = f.requests.Submit(f.ctx, f.actorFor(t, applicant.ID), SubmitBudgetRequest{Title: "x", AmountRequired: dec("1")})
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("applicant submit error = %v, want Unauthorized", err)
	}
}

func TestManualApprovalPostsOnce(t *testing.T) {
	f := newFixture(t)
	res := submit(t, f, "5000", "Sales")
	if res.Approved {
		t.Fatal("request without budget was auto-approved")
	}
	id := uuid.MustParse(res.ID)

	approved, err := f.requests.SetApproval(f.ctx, f.owner, id, true)
	if err != nil {
		t.Fatalf("SetApproval(true): %v", err)
	}
	if !approved.Approved || approved.ApprovedBy == nil || *approved.ApprovedBy != f.owner.UserID.String() {
		t.Fatalf("approval = %+v, want approved by owner", approved)
	}
	if n := len(f.requestPostings(t)); n != 1 {
		t.Fatalf("postings after approve = %d, want 1", n)
	}

	// approving again is idempotent
	if _, err := f.requests.SetApproval(f.ctx, f.owner, id, true); err != nil {
		t.Fatalf("SetApproval(true) again: %v", err)
	}
	if n := len(f.requestPostings(t)); n != 1 {
		t.Fatalf("postings after repeated approve = %d, want 1", n)
	}
}

func TestApprovalToggleKeepsSinglePosting(t *testing.T) {
	f := newFixture(t)
	res := submit(t, f, "5000", "Sales")
	id := uuid.MustParse(res.ID)

	steps := []struct {
		approved bool
		postings int
	}{
		{true, 1},
		{false, 0},
		{true, 1},
		{false, 0},
		{false, 0},
		{true, 1},
	}
	for i, step := range steps {
		got, err := f.requests.SetApproval(f.ctx, f.owner, id, step.approved)
		if err != nil {
			t.Fatalf("step %d SetApproval(%v): %v", i, step.approved, err)
		}
		if got.Approved != step.approved || got.Posted != step.approved {
			t.Fatalf("step %d: approved/posted = %v/%v, want %v", i, got.Approved, got.Posted, step.approved)
		}
		if n := len(f.requestPostings(t)); n != step.postings {
			t.Fatalf("step %d: postings = %d, want %d", i, n, step.postings)
		}
	}
}

func TestRevokeRetractsAutoApprovedPosting(t *testing.T) {
	f := newFixture(t)
	f.setBudget(t, "Engineering", "100")
	res := submit(t, f, "100", "Engineering")
	if !res.Approved {
		t.Fatal("expected auto-approval")
	}

	got, err := f.requests.SetApproval(f.ctx, f.owner, uuid.MustParse(res.ID), false)
	if err != nil {
		t.Fatalf("SetApproval(false): %v", err)
	}
	if got.Approved || got.ApprovedAt != nil {
		t.Fatalf("revoked request = %+v", got)
	}
	if n := len(f.requestPostings(t)); n != 0 {
		t.Fatalf("postings after revoke = %d, want 0", n)
	}
}

func TestSetApprovalErrors(t *testing.T) {
	f := newFixture(t)
	res := submit(t, f, "5000", "Sales")
	id := uuid.MustParse(res.ID)

	if _, err := f.requests.SetApproval(f.ctx, f.member, id, true); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("member approval error = %v, want Unauthorized", err)
	}
	if n := len(f.requestPostings(t)); n != 0 {
		t.Fatalf("postings after rejected approval = %d, want 0", n)
	}

	if _, err := f.requests.SetApproval(f.ctx, f.owner, uuid.New(), true); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("missing request error = %v, want NotFound", err)
	}
}

func TestListAndGetRequests(t *testing.T) {
	f := newFixture(t)
	f.setBudget(t, "Engineering", "1000")
	approved := submit(t, f, "10", "Engineering")
	submit(t, f, "5000", "Engineering")
	submit(t, f, "6000", "Engineering")

	all, total, err := f.requests.List(f.ctx, f.member, BudgetRequestFilter{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("List = %d items, total %d, want 3", len(all), total)
	}

	yes := true
	onlyApproved, total, err := f.requests.List(f.ctx, f.member, BudgetRequestFilter{Approved: &yes, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List(approved): %v", err)
	}
	if total != 1 || onlyApproved[0].ID != approved.ID {
		t.Fatalf("approved filter = %+v (total %d)", onlyApproved, total)
	}

	page, total, err := f.requests.List(f.ctx, f.member, BudgetRequestFilter{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("List(page 2): %v", err)
	}
	if total != 3 || len(page) != 1 {
		t.Fatalf("page 2 = %d items, total %d, want 1 of 3", len(page), total)
	}

	got, err := f.requests.Get(f.ctx, f.member, uuid.MustParse(approved.ID))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Posted || got.RequesterName != "Mark Member" {
		t.Fatalf("Get = %+v, want posted request with requester", got)
	}

	if _, err := f.requests.Get(f.ctx, f.member, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("Get(missing) error = %v, want NotFound", err)
	}
}

func TestRequestsAreTenantScoped(t *testing.T) {
	f := newFixture(t)
	res := submit(t, f, "5000", "Sales")

	outsider := f.createUser(t, "Olga Other", "other@example.com")
	if _, err := f.orgs.CreateOrganization(f.ctx, f.actorFor(t, outsider.ID), CreateOrganizationRequest{Name: "Other Co"}); err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	otherOwner := f.actorFor(t, outsider.ID)

	if _, err := f.requests.SetApproval(f.ctx, otherOwner, uuid.MustParse(res.ID), true); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("cross-tenant approval error = %v, want NotFound", err)
	}
	list, _, err := f.requests.List(f.ctx, otherOwner, BudgetRequestFilter{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("other tenant sees %d requests", len(list))
	}
}
