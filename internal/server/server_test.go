package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"paisawise/internal/apperr"
	"paisawise/internal/config"
	"paisawise/internal/database"
	"paisawise/internal/logger"
	"paisawise/internal/model"
	"paisawise/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Kind       apperr.Kind     `json:"kind"`
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLiteConnection(filepath.Join(t.TempDir(), "api.db"), false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Server.Mode = gin.TestMode
	cfg.Server.JWTSecret = "router-secret"

	svc := NewServices(Deps{
		DB:          db,
		Departments: cfg.Departments.Names,
		Secret:      cfg.Secret(),
		Log:         logger.Discard(),
	})
	return &apiClient{t: t, router: NewRouter(cfg, svc, nil)}
}

func (a *apiClient) do(method, path, token string, body interface{}) envelope {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		a.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
	}
	if env.StatusCode != w.Code {
		a.t.Fatalf("%s %s: envelope status %d, http status %d", method, path, env.StatusCode, w.Code)
	}
	return env
}

// must performs the call and decodes data into out, failing unless the
// response has the wanted status.
func (a *apiClient) must(want int, method, path, token string, body, out interface{}) {
	a.t.Helper()
	env := a.do(method, path, token, body)
	if env.StatusCode != want {
		a.t.Fatalf("%s %s = %d (%s %s), want %d", method, path, env.StatusCode, env.Kind, env.Error, want)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			a.t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
}

func (a *apiClient) signup(name, email string) string {
	a.t.Helper()
	a.must(http.StatusCreated, http.MethodPost, "/register", "", service.RegisterRequest{Name: name, Email: email, Password: "correct-horse"}, nil)
	var tok service.TokenResponse
	a.must(http.StatusOK, http.MethodPost, "/login", "", service.LoginRequest{Email: email, Password: "correct-horse"}, &tok)
	if tok.Token == "" {
		a.t.Fatal("login returned an empty token")
	}
	return tok.Token
}

// onboard returns tokens for an owner and an accepted member of one organization.
func (a *apiClient) onboard() (owner, member string) {
	a.t.Helper()
	owner = a.signup("Olivia Owner", "owner@example.com")
	member = a.signup("Mark Member", "member@example.com")

	var org service.OrganizationResponse
	a.must(http.StatusCreated, http.MethodPost, "/api/organizations", owner, service.CreateOrganizationRequest{Name: "Acme"}, &org)
	a.must(http.StatusCreated, http.MethodPost, "/api/organizations/join", member, service.JoinOrganizationRequest{OrganizationID: org.ID}, nil)

	var pending []service.MemberResponse
	a.must(http.StatusOK, http.MethodGet, "/api/organization/requests", owner, nil, &pending)
	if len(pending) != 1 {
		a.t.Fatalf("pending = %d, want 1", len(pending))
	}
	a.must(http.StatusOK, http.MethodPut, "/api/organization/members/"+pending[0].ID+"/accept", owner, nil, nil)
	return owner, member
}

func TestHealth(t *testing.T) {
	api := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
}

func TestAuthErrors(t *testing.T) {
	api := newAPI(t)

	if env := api.do(http.MethodGet, "/api/budgets", "", nil); env.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token = %d, want 401", env.StatusCode)
	}
	if env := api.do(http.MethodPost, "/login", "", service.LoginRequest{Email: "nobody@example.com", Password: "whatever1"}); env.StatusCode != http.StatusForbidden {
		t.Fatalf("bad login = %d, want 403", env.StatusCode)
	}

	token := api.signup("Lone User", "lone@example.com")
	env := api.do(http.MethodGet, "/api/budgets", token, nil)
	if env.StatusCode != http.StatusForbidden || env.Kind != apperr.KindUnauthorized {
		t.Fatalf("no organization = %d/%s, want 403/%s", env.StatusCode, env.Kind, apperr.KindUnauthorized)
	}

	if env := api.do(http.MethodPost, "/register", "", service.RegisterRequest{Name: "Dup", Email: "lone@example.com", Password: "correct-horse"}); env.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate email = %d, want 409", env.StatusCode)
	}
}

func TestBudgetRequestLifecycle(t *testing.T) {
	api := newAPI(t)
	owner, member := api.onboard()

	api.must(http.StatusOK, http.MethodPut, "/api/budgets/Engineering", owner, service.SetBudgetRequest{Limit: "100000"}, nil)
	api.must(http.StatusOK, http.MethodPut, "/api/budgets/marketing", owner, service.SetBudgetRequest{Limit: "50000"}, nil)

	env := api.do(http.MethodPut, "/api/budgets/Engineering", member, service.SetBudgetRequest{Limit: "1"})
	if env.StatusCode != http.StatusForbidden {
		t.Fatalf("member SetBudget = %d, want 403", env.StatusCode)
	}
	env = api.do(http.MethodPut, "/api/budgets/Engineering", owner, service.SetBudgetRequest{Limit: "-5"})
	if env.StatusCode != http.StatusBadRequest || env.Kind != apperr.KindValidation {
		t.Fatalf("negative limit = %d/%s, want 400", env.StatusCode, env.Kind)
	}

	var budget service.BudgetResponse
	api.must(http.StatusOK, http.MethodGet, "/api/budgets/Marketing", member, nil, &budget)
	if !budget.Limit.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("Marketing limit = %s, want 50000", budget.Limit)
	}

	var approved service.BudgetRequestResponse
	api.must(http.StatusCreated, http.MethodPost, "/api/budget-requests", member, service.SubmitBudgetRequest{
		Title:               "Trade show",
		InvolvedDepartments: []string{"Engineering", "Marketing"},
		AmountRequired:      decimal.NewFromInt(120000),
	}, &approved)
	if !approved.Approved || !approved.Posted {
		t.Fatalf("120000 against 150000: approved=%v posted=%v", approved.Approved, approved.Posted)
	}

	var pending service.BudgetRequestResponse
	api.must(http.StatusCreated, http.MethodPost, "/api/budget-requests", member, service.SubmitBudgetRequest{
		Title:               "New office",
		InvolvedDepartments: []string{"Engineering", "Marketing"},
		AmountRequired:      decimal.NewFromInt(200000),
	}, &pending)
	if pending.Approved {
		t.Fatal("200000 against 150000 was approved")
	}

	var sheet []service.LedgerEntryResponse
	api.must(http.StatusOK, http.MethodGet, "/api/balance-sheet", member, nil, &sheet)
	if len(sheet) != 1 || sheet[0].SourceID != approved.ID {
		t.Fatalf("balance sheet = %+v, want one posting for %s", sheet, approved.ID)
	}

	var before model.LedgerSummary
	api.must(http.StatusOK, http.MethodGet, "/api/balance-sheet/summary", member, nil, &before)
	if !before.TotalOutflow.Equal(decimal.NewFromInt(120000)) {
		t.Fatalf("outflow = %s, want 120000", before.TotalOutflow)
	}

	var list struct {
		Requests []service.BudgetRequestResponse `json:"requests"`
		Total    int64                           `json:"total"`
	}
	api.must(http.StatusOK, http.MethodGet, "/api/budget-requests?approved=false", member, nil, &list)
	if list.Total != 1 || list.Requests[0].ID != pending.ID {
		t.Fatalf("pending list = %+v", list)
	}

	// member cannot approve
	if env := api.do(http.MethodPut, "/api/budget-requests/"+pending.ID+"/approval", member, map[string]bool{"approved": true}); env.StatusCode != http.StatusForbidden {
		t.Fatalf("member approval = %d, want 403", env.StatusCode)
	}

	var revoked service.BudgetRequestResponse
	api.must(http.StatusOK, http.MethodPut, "/api/budget-requests/"+approved.ID+"/approval", owner, map[string]bool{"approved": false}, &revoked)
	if revoked.Approved || revoked.Posted {
		t.Fatalf("revoked: approved=%v posted=%v", revoked.Approved, revoked.Posted)
	}

	var summary model.LedgerSummary
	api.must(http.StatusOK, http.MethodGet, "/api/balance-sheet/summary", member, nil, &summary)
	if !summary.TotalOutflow.IsZero() {
		t.Fatalf("outflow after revoke = %s, want 0", summary.TotalOutflow)
	}

	var report service.ReconcileReport
	api.must(http.StatusOK, http.MethodPost, "/api/budget-requests/reconcile", owner, nil, &report)
	if report.Repairs() != 0 {
		t.Fatalf("reconcile on a consistent ledger repaired %d", report.Repairs())
	}

	if env := api.do(http.MethodGet, "/api/budget-requests/not-a-uuid", member, nil); env.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed id = %d, want 400", env.StatusCode)
	}
	if env := api.do(http.MethodPut, "/api/budget-requests/"+approved.ID+"/approval", owner, map[string]string{}); env.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing approved flag = %d, want 400", env.StatusCode)
	}
}

func TestCashFlowDateRange(t *testing.T) {
	api := newAPI(t)
	owner, member := api.onboard()

	var entry service.LedgerEntryResponse
	api.must(http.StatusCreated, http.MethodPost, "/api/cash-flow", owner, service.CreateCashFlowRequest{
		Name:       "Consulting income",
		Type:       model.EntryTypeAsset,
		Flow:       model.FlowInflow,
		Amount:     decimal.RequireFromString("2500.50"),
		Department: "Sales",
	}, &entry)

	var all []service.LedgerEntryResponse
	api.must(http.StatusOK, http.MethodGet, "/api/cash-flow", member, nil, &all)
	if len(all) != 1 {
		t.Fatalf("cash flow = %d entries, want 1", len(all))
	}

	var none []service.LedgerEntryResponse
	api.must(http.StatusOK, http.MethodGet, "/api/cash-flow?start=2000-01-01&end=2000-12-31", member, nil, &none)
	if len(none) != 0 {
		t.Fatalf("entries in 2000 = %d, want 0", len(none))
	}

	if env := api.do(http.MethodGet, "/api/cash-flow?start=2024-03-31&end=2024-01-01", member, nil); env.StatusCode != http.StatusBadRequest {
		t.Fatalf("inverted range = %d, want 400", env.StatusCode)
	}

	api.must(http.StatusOK, http.MethodDelete, "/api/cash-flow/"+entry.ID, owner, nil, nil)
	var sheet []service.LedgerEntryResponse
	api.must(http.StatusOK, http.MethodGet, "/api/balance-sheet", member, nil, &sheet)
	if len(sheet) != 0 {
		t.Fatalf("balance sheet after delete = %d entries, want 0", len(sheet))
	}
}

func TestStatementAndAudit(t *testing.T) {
	api := newAPI(t)
	owner, member := api.onboard()

	var empty service.StatementResponse
	api.must(http.StatusOK, http.MethodGet, "/api/statements/2024/Q1", member, nil, &empty)
	if empty.Exists {
		t.Fatal("statement exists before save")
	}

	api.must(http.StatusOK, http.MethodPut, "/api/statements/2024/Q1", owner, service.StatementSections{
		CurrentAssets: map[string]string{"Cash": "1000.00"},
	}, nil)

	var exists struct {
		Exists bool `json:"exists"`
	}
	api.must(http.StatusOK, http.MethodGet, "/api/statements/2024/Q1/exists", member, nil, &exists)
	if !exists.Exists {
		t.Fatal("statement missing after save")
	}
	if env := api.do(http.MethodGet, "/api/statements/2024/Q5", member, nil); env.StatusCode != http.StatusBadRequest {
		t.Fatalf("Q5 = %d, want 400", env.StatusCode)
	}

	if env := api.do(http.MethodGet, "/api/audit-logs", member, nil); env.StatusCode != http.StatusForbidden {
		t.Fatalf("member audit = %d, want 403", env.StatusCode)
	}
	var logs struct {
		Total int64 `json:"total"`
	}
	api.must(http.StatusOK, http.MethodGet, "/api/audit-logs?limit=5", owner, nil, &logs)
	if logs.Total == 0 {
		t.Fatal("no audit rows recorded")
	}
}
