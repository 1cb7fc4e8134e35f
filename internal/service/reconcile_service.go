package service

import (
	"context"

	"paisawise/internal/auth"
	"paisawise/internal/model"
	"paisawise/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReconcileReport counts the repairs made for one organization.
type ReconcileReport struct {
	OrganizationID   string `json:"organization_id"`
	RequestsPosted   int    `json:"requests_posted"`
	CashFlowMirrored int    `json:"cash_flow_mirrored"`
	OrphansRemoved   int    `json:"orphans_removed"`
}

func (r ReconcileReport) Repairs() int {
	return r.RequestsPosted + r.CashFlowMirrored + r.OrphansRemoved
}

// ReconcileService restores the balance sheet invariant: one posting per
// approved request and per cash-flow entry, nothing else.
type ReconcileService interface {
	Reconcile(ctx context.Context, actor auth.Actor) (ReconcileReport, error)
	ReconcileAll(ctx context.Context) ([]ReconcileReport, error)
}

type reconcileService struct {
	tx           repository.TransactionManager
	orgs         repository.OrganizationRepository
	requests     repository.BudgetRequestRepository
	cashFlow     repository.CashFlowRepository
	ledger       repository.BalanceSheetRepository
	balanceSheet BalanceSheetService
	audit        repository.AuditRepository
	notifier     Notifier
	log          logrus.FieldLogger
}

func NewReconcileService(
	tx repository.TransactionManager,
	orgs repository.OrganizationRepository,
	requests repository.BudgetRequestRepository,
	cashFlow repository.CashFlowRepository,
	ledger repository.BalanceSheetRepository,
	balanceSheet BalanceSheetService,
	audit repository.AuditRepository,
	notifier Notifier,
	log logrus.FieldLogger,
) ReconcileService {
	return &reconcileService{
		tx:           tx,
		orgs:         orgs,
		requests:     requests,
		cashFlow:     cashFlow,
		ledger:       ledger,
		balanceSheet: balanceSheet,
		audit:        audit,
		notifier:     notifier,
		log:          log,
	}
}

func (s *reconcileService) Reconcile(ctx context.Context, actor auth.Actor) (ReconcileReport, error) {
	if err := auth.RequireOwner(actor); err != nil {
		return ReconcileReport{}, err
	}
	return s.reconcile(ctx, actor.OrganizationID, &actor)
}

// ReconcileAll repairs every tenant, stopping at the first storage failure.
func (s *reconcileService) ReconcileAll(ctx context.Context) ([]ReconcileReport, error) {
	ids, err := s.orgs.ListIDs(ctx)
	if err != nil {
		return nil, storageErr(err, "failed to list organizations")
	}

	reports := make([]ReconcileReport, 0, len(ids))
	for _, id := range ids {
		report, err := s.reconcile(ctx, id, nil)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *reconcileService) reconcile(ctx context.Context, orgID uuid.UUID, actor *auth.Actor) (ReconcileReport, error) {
	report := ReconcileReport{OrganizationID: orgID.String()}
	log := s.log.WithField("org_id", orgID)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		report = ReconcileReport{OrganizationID: orgID.String()}

		unposted, err := s.requests.ListApprovedUnposted(txCtx, orgID)
		if err != nil {
			return storageErr(err, "failed to find unposted requests")
		}
		for _, req := range unposted {
			written, err := s.balanceSheet.PostForRequest(txCtx, req)
			if err != nil {
				return err
			}
			if written {
				report.RequestsPosted++
				log.WithField("request_id", req.ID).Warn("approved budget request had no balance sheet posting, posted")
			}
		}

		unmirrored, err := s.cashFlow.ListUnmirrored(txCtx, orgID)
		if err != nil {
			return storageErr(err, "failed to find unmirrored cash-flow entries")
		}
		for _, e := range unmirrored {
			written, err := s.balanceSheet.Append(txCtx, model.BalanceSheetEntry{
				LedgerFields: e.LedgerFields,
				SourceType:   model.SourceCashFlow,
				SourceID:     e.ID,
			})
			if err != nil {
				return err
			}
			if written {
				report.CashFlowMirrored++
				log.WithField("entry_id", e.ID).Warn("cash-flow entry had no balance sheet mirror, mirrored")
			}
		}

		orphans, err := s.ledger.ListOrphaned(txCtx, orgID)
		if err != nil {
			return storageErr(err, "failed to find orphaned postings")
		}
		for _, o := range orphans {
			if _, err := s.balanceSheet.Retract(txCtx, o.SourceType, o.SourceID); err != nil {
				return err
			}
			report.OrphansRemoved++
			log.WithFields(logrus.Fields{"source_type": o.SourceType, "source_id": o.SourceID}).Warn("removed balance sheet posting without a valid source")
		}

		if report.Repairs() == 0 {
			return nil
		}
		return writeAudit(txCtx, s.audit, auditEntry(actor, orgID, model.ActionReconcileBalanceSheet, orgID.String(), "balance sheet", map[string]interface{}{
			"requests_posted":    report.RequestsPosted,
			"cash_flow_mirrored": report.CashFlowMirrored,
			"orphans_removed":    report.OrphansRemoved,
		}))
	})
	if err != nil {
		log.WithError(err).Error("balance sheet reconciliation failed")
		return ReconcileReport{}, storageErr(err, "failed to reconcile balance sheet")
	}

	if report.Repairs() > 0 {
		s.notifier.Revalidate(orgID, PathBalanceSheet)
	}
	return report, nil
}
