package service

import (
	"context"
	"sort"

	"paisawise/internal/apperr"
	"paisawise/internal/auth"
	"paisawise/internal/model"
	"paisawise/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type BudgetResponse struct {
	Department string          `json:"department"`
	Limit      decimal.Decimal `json:"limit"`
	UpdatedAt  *string         `json:"updated_at"`
}

type SetBudgetRequest struct {
	Limit string `json:"limit" binding:"required"`
}

// BudgetService is the per-department limit store.
type BudgetService interface {
	GetAll(ctx context.Context, actor auth.Actor) ([]BudgetResponse, error)
	GetOne(ctx context.Context, actor auth.Actor, department string) (BudgetResponse, error)
	SetBudget(ctx context.Context, actor auth.Actor, department, newLimit string) (BudgetResponse, error)
	// AffordableTotal sums the limits of departments. Unknown or unset
	// departments contribute zero.
	AffordableTotal(ctx context.Context, orgID uuid.UUID, departments []string) (decimal.Decimal, error)
}

type budgetService struct {
	tx          repository.TransactionManager
	budgets     repository.BudgetRepository
	audit       repository.AuditRepository
	departments *DepartmentCatalog
	notifier    Notifier
	log         logrus.FieldLogger
}

func NewBudgetService(
	tx repository.TransactionManager,
	budgets repository.BudgetRepository,
	audit repository.AuditRepository,
	departments *DepartmentCatalog,
	notifier Notifier,
	log logrus.FieldLogger,
) BudgetService {
	return &budgetService{
		tx:          tx,
		budgets:     budgets,
		audit:       audit,
		departments: departments,
		notifier:    notifier,
		log:         log,
	}
}

func (s *budgetService) GetAll(ctx context.Context, actor auth.Actor) ([]BudgetResponse, error) {
	if err := auth.RequireMember(actor); err != nil {
		return nil, err
	}
	return s.getAll(ctx, actor.OrganizationID)
}

// getAll lists every canonical department, defaulting missing rows to
// zero, followed by stored departments that are no longer canonical.
func (s *budgetService) getAll(ctx context.Context, orgID uuid.UUID) ([]BudgetResponse, error) {
	stored, err := s.budgets.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, storageErr(err, "failed to load department budgets")
	}

	byName := make(map[string]model.DepartmentBudget, len(stored))
	for _, b := range stored {
		byName[b.DepartmentName] = b
	}

	res := make([]BudgetResponse, 0, len(stored)+len(s.departments.names))
	for _, name := range s.departments.Names() {
		if b, ok := byName[name]; ok {
			res = append(res, toBudgetResponse(b))
			delete(byName, name)
			continue
		}
		res = append(res, BudgetResponse{Department: name, Limit: decimal.Zero})
	}

	extra := make([]string, 0, len(byName))
	for name := range byName {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		res = append(res, toBudgetResponse(byName[name]))
	}
	return res, nil
}

func (s *budgetService) GetOne(ctx context.Context, actor auth.Actor, department string) (BudgetResponse, error) {
	if err := auth.RequireMember(actor); err != nil {
		return BudgetResponse{}, err
	}
	name, ok := s.departments.Canonical(department)
	if !ok {
		return BudgetResponse{}, apperr.NotFound("department %q not found", department)
	}

	all, err := s.getAll(ctx, actor.OrganizationID)
	if err != nil {
		return BudgetResponse{}, err
	}
	for _, b := range all {
		if b.Department == name {
			return b, nil
		}
	}
	return BudgetResponse{}, apperr.NotFound("department %q not found", department)
}

func (s *budgetService) SetBudget(ctx context.Context, actor auth.Actor, department, newLimit string) (BudgetResponse, error) {
	if err := auth.RequireOwner(actor); err != nil {
		return BudgetResponse{}, err
	}
	name, ok := s.departments.Canonical(department)
	if !ok {
		return BudgetResponse{}, apperr.Validation("unknown department %q", department)
	}
	limit, err := parseAmount(newLimit)
	if err != nil {
		return BudgetResponse{}, err
	}

	var saved *model.DepartmentBudget
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.budgets.Upsert(txCtx, &model.DepartmentBudget{
			OrganizationID: actor.OrganizationID,
			DepartmentName: name,
			BudgetAmount:   limit,
		}); err != nil {
			return storageErr(err, "failed to save department budget")
		}

		saved, err = s.budgets.FindByDepartment(txCtx, actor.OrganizationID, name)
		if err != nil {
			return storageErr(err, "failed to reload department budget")
		}

		return writeAudit(txCtx, s.audit, auditEntry(&actor, actor.OrganizationID, model.ActionSetBudget, saved.ID.String(), name, map[string]interface{}{
			"department": name,
			"limit":      limit.String(),
		}))
	})
	if err != nil {
		return BudgetResponse{}, storageErr(err, "failed to save department budget")
	}

	s.log.WithFields(logrus.Fields{"org_id": actor.OrganizationID, "department": name, "limit": limit.String()}).Info("department budget updated")
	s.notifier.Revalidate(actor.OrganizationID, PathLimitExpenses)
	return toBudgetResponse(*saved), nil
}

func (s *budgetService) AffordableTotal(ctx context.Context, orgID uuid.UUID, departments []string) (decimal.Decimal, error) {
	stored, err := s.budgets.ListByOrganization(ctx, orgID)
	if err != nil {
		return decimal.Zero, storageErr(err, "failed to load department budgets")
	}
	limits := make(map[string]decimal.Decimal, len(stored))
	for _, b := range stored {
		limits[b.DepartmentName] = b.BudgetAmount
	}

	total := decimal.Zero
	for _, d := range s.departments.Normalize(departments) {
		name, ok := s.departments.Canonical(d)
		if !ok {
			continue
		}
		total = total.Add(limits[name])
	}
	return total, nil
}

func toBudgetResponse(b model.DepartmentBudget) BudgetResponse {
	res := BudgetResponse{Department: b.DepartmentName, Limit: b.BudgetAmount}
	if !b.UpdatedAt.IsZero() {
		res.UpdatedAt = formatTime(&b.UpdatedAt)
	}
	return res
}
