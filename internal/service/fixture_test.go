package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"paisawise/internal/auth"
	"paisawise/internal/cache"
	"paisawise/internal/config"
	"paisawise/internal/database"
	"paisawise/internal/logger"
	"paisawise/internal/model"
	"paisawise/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type revalidation struct {
	orgID uuid.UUID
	path  string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []revalidation
}

func (n *recordingNotifier) Revalidate(orgID uuid.UUID, paths ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, p := range paths {
		n.events = append(n.events, revalidation{orgID: orgID, path: p})
	}
}

func (n *recordingNotifier) saw(path string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.events {
		if e.path == path {
			return true
		}
	}
	return false
}

type fixture struct {
	ctx context.Context
	db  *gorm.DB

	users      UserService
	orgs       OrganizationService
	budgets    BudgetService
	cashFlow   CashFlowService
	balance    BalanceSheetService
	requests   BudgetRequestService
	reconcile  ReconcileService
	summary    SummaryService
	statements StatementService
	audit      AuditService
	notifier   *recordingNotifier

	userRepo repository.UserRepository

	owner  auth.Actor
	member auth.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.NewSQLiteConnection(filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logger.Discard()
	notifier := &recordingNotifier{}
	departments := NewDepartmentCatalog(config.DefaultDepartments)

	tx := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	memberRepo := repository.NewMembershipRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	cashRepo := repository.NewCashFlowRepository(db)
	ledgerRepo := repository.NewBalanceSheetRepository(db)
	requestRepo := repository.NewBudgetRequestRepository(db)
	statementRepo := repository.NewStatementRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	f := &fixture{ctx: context.Background(), db: db, notifier: notifier, userRepo: userRepo}
	f.users = NewUserService(userRepo, memberRepo, cache.Noop{}, []byte("test-secret"))
	f.orgs = NewOrganizationService(tx, orgRepo, memberRepo, auditRepo, cache.Noop{}, notifier, log)
	f.budgets = NewBudgetService(tx, budgetRepo, auditRepo, departments, notifier, log)
	f.balance = NewBalanceSheetService(ledgerRepo, auditRepo, log)
	f.cashFlow = NewCashFlowService(tx, cashRepo, f.balance, auditRepo, departments, notifier, log)
	f.requests = NewBudgetRequestService(tx, requestRepo, ledgerRepo, f.budgets, f.balance, auditRepo, departments, notifier, log)
	f.reconcile = NewReconcileService(tx, orgRepo, requestRepo, cashRepo, ledgerRepo, f.balance, auditRepo, notifier, log)
	f.summary = NewSummaryService(ledgerRepo)
	f.statements = NewStatementService(tx, statementRepo, auditRepo, notifier, log)
	f.audit = NewAuditService(auditRepo)

	ownerUser := f.createUser(t, "Olivia Owner", "owner@example.com")
	if _, err := f.orgs.CreateOrganization(f.ctx, f.actorFor(t, ownerUser.ID), CreateOrganizationRequest{Name: "Acme"}); err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	f.owner = f.actorFor(t, ownerUser.ID)

	memberUser := f.createUser(t, "Mark Member", "member@example.com")
	pending, err := f.orgs.RequestToJoin(f.ctx, f.actorFor(t, memberUser.ID), f.owner.OrganizationID)
	if err != nil {
		t.Fatalf("RequestToJoin: %v", err)
	}
	if _, err := f.orgs.AcceptMember(f.ctx, f.owner, uuid.MustParse(pending.ID)); err != nil {
		t.Fatalf("AcceptMember: %v", err)
	}
	f.member = f.actorFor(t, memberUser.ID)

	return f
}

// createUser inserts a user directly, skipping password hashing.
func (f *fixture) createUser(t *testing.T, name, email string) model.User {
	t.Helper()
	u := model.User{Name: name, Email: email, Password: "x"}
	if err := f.userRepo.Create(f.ctx, &u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func (f *fixture) actorFor(t *testing.T, userID uuid.UUID) auth.Actor {
	t.Helper()
	a, err := f.users.ResolveActor(f.ctx, userID)
	if err != nil {
		t.Fatalf("ResolveActor: %v", err)
	}
	return a
}

func (f *fixture) setBudget(t *testing.T, department, limit string) {
	t.Helper()
	if _, err := f.budgets.SetBudget(f.ctx, f.owner, department, limit); err != nil {
		t.Fatalf("SetBudget(%s, %s): %v", department, limit, err)
	}
}

// requestPostings returns the balance sheet entries posted for budget requests.
func (f *fixture) requestPostings(t *testing.T) []model.BalanceSheetEntry {
	t.Helper()
	var entries []model.BalanceSheetEntry
	if err := f.db.Where("source_type = ?", model.SourceBudgetRequest).Find(&entries).Error; err != nil {
		t.Fatalf("load postings: %v", err)
	}
	return entries
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
