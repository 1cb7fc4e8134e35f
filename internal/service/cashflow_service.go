package service

import (
	"context"
	"time"

	"paisawise/internal/apperr"
	"paisawise/internal/auth"
	"paisawise/internal/model"
	"paisawise/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CreateCashFlowRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Type        string          `json:"type" binding:"required"`
	Flow        string          `json:"flow" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Department  string          `json:"department"`
}

// CashFlowService is the ledger of transactions entered directly by owners.
// Every entry is mirrored onto the balance sheet in the same transaction.
type CashFlowService interface {
	Create(ctx context.Context, actor auth.Actor, req CreateCashFlowRequest) (LedgerEntryResponse, error)
	List(ctx context.Context, actor auth.Actor) ([]LedgerEntryResponse, error)
	ListByDateRange(ctx context.Context, actor auth.Actor, r DateRange) ([]LedgerEntryResponse, error)
	Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error
}

type cashFlowService struct {
	tx           repository.TransactionManager
	entries      repository.CashFlowRepository
	balanceSheet BalanceSheetService
	audit        repository.AuditRepository
	departments  *DepartmentCatalog
	notifier     Notifier
	log          logrus.FieldLogger
}

func NewCashFlowService(
	tx repository.TransactionManager,
	entries repository.CashFlowRepository,
	balanceSheet BalanceSheetService,
	audit repository.AuditRepository,
	departments *DepartmentCatalog,
	notifier Notifier,
	log logrus.FieldLogger,
) CashFlowService {
	return &cashFlowService{
		tx:           tx,
		entries:      entries,
		balanceSheet: balanceSheet,
		audit:        audit,
		departments:  departments,
		notifier:     notifier,
		log:          log,
	}
}

func (s *cashFlowService) Create(ctx context.Context, actor auth.Actor, req CreateCashFlowRequest) (LedgerEntryResponse, error) {
	if err := auth.RequireOwner(actor); err != nil {
		return LedgerEntryResponse{}, err
	}

	department := req.Department
	if department != "" {
		canonical, ok := s.departments.Canonical(department)
		if !ok {
			return LedgerEntryResponse{}, apperr.Validation("unknown department %q", department)
		}
		department = canonical
	}

	// attribution comes from the session, never from the request body
	entry := model.CashFlowEntry{LedgerFields: model.LedgerFields{
		OrganizationID: actor.OrganizationID,
		Name:           req.Name,
		Description:    req.Description,
		Type:           req.Type,
		Flow:           req.Flow,
		Amount:         req.Amount,
		DepartmentName: department,
		AuthorName:     actor.UserName,
		MemberID:       actor.MembershipID,
		CreatedAt:      time.Now().UTC(),
	}}
	if err := validateLedgerFields(&entry.LedgerFields); err != nil {
		return LedgerEntryResponse{}, err
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.entries.Create(txCtx, &entry); err != nil {
			return storageErr(err, "failed to create cash-flow entry")
		}
		if _, err := s.balanceSheet.Append(txCtx, model.BalanceSheetEntry{
			LedgerFields: entry.LedgerFields,
			SourceType:   model.SourceCashFlow,
			SourceID:     entry.ID,
		}); err != nil {
			return err
		}
		return writeAudit(txCtx, s.audit, auditEntry(&actor, actor.OrganizationID, model.ActionCreateCashFlow, entry.ID.String(), entry.Name, map[string]interface{}{
			"type":   entry.Type,
			"flow":   entry.Flow,
			"amount": entry.Amount.String(),
		}))
	})
	if err != nil {
		return LedgerEntryResponse{}, storageErr(err, "failed to create cash-flow entry")
	}

	s.log.WithFields(logrus.Fields{"org_id": actor.OrganizationID, "entry_id": entry.ID}).Info("cash-flow entry recorded")
	s.notifier.Revalidate(actor.OrganizationID, PathCashFlow, PathBalanceSheet)
	return toCashFlowResponse(entry), nil
}

func (s *cashFlowService) List(ctx context.Context, actor auth.Actor) ([]LedgerEntryResponse, error) {
	if err := auth.RequireMember(actor); err != nil {
		return nil, err
	}
	entries, err := s.entries.List(ctx, actor.OrganizationID)
	if err != nil {
		return nil, storageErr(err, "failed to list cash-flow entries")
	}
	res := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, toCashFlowResponse(e))
	}
	return res, nil
}

func (s *cashFlowService) ListByDateRange(ctx context.Context, actor auth.Actor, r DateRange) ([]LedgerEntryResponse, error) {
	if err := auth.RequireMember(actor); err != nil {
		return nil, err
	}
	entries, err := s.entries.ListByDateRange(ctx, actor.OrganizationID, r.Start, r.End)
	if err != nil {
		return nil, storageErr(err, "failed to list cash-flow entries")
	}
	res := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, toCashFlowResponse(e))
	}
	return res, nil
}

// Delete removes the entry together with its balance sheet mirror.
func (s *cashFlowService) Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if err := auth.RequireOwner(actor); err != nil {
		return err
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		entry, err := s.entries.FindByID(txCtx, actor.OrganizationID, id)
		if err != nil {
			return lookupErr(err, "cash-flow entry %s not found", id)
		}
		if err := s.entries.Delete(txCtx, actor.OrganizationID, id); err != nil {
			return lookupErr(err, "cash-flow entry %s not found", id)
		}
		if _, err := s.balanceSheet.Retract(txCtx, model.SourceCashFlow, id); err != nil {
			return err
		}
		return writeAudit(txCtx, s.audit, auditEntry(&actor, actor.OrganizationID, model.ActionDeleteCashFlow, id.String(), entry.Name, map[string]interface{}{
			"amount": entry.Amount.String(),
		}))
	})
	if err != nil {
		return storageErr(err, "failed to delete cash-flow entry")
	}

	s.notifier.Revalidate(actor.OrganizationID, PathCashFlow, PathBalanceSheet)
	return nil
}
