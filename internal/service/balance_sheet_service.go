package service

import (
	"context"
	"strings"

	"paisawise/internal/auth"
	"paisawise/internal/model"
	"paisawise/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BalanceSheetService is the official ledger. Append, PostForRequest and
// Retract carry no authorization of their own; callers gate them.
type BalanceSheetService interface {
	Append(ctx context.Context, entry model.BalanceSheetEntry) (bool, error)
	PostForRequest(ctx context.Context, req model.BudgetRequest) (bool, error)
	Retract(ctx context.Context, sourceType string, sourceID uuid.UUID) (bool, error)
	List(ctx context.Context, actor auth.Actor) ([]LedgerEntryResponse, error)
	ListByDateRange(ctx context.Context, actor auth.Actor, r DateRange) ([]LedgerEntryResponse, error)
}

type balanceSheetService struct {
	entries repository.BalanceSheetRepository
	audit   repository.AuditRepository
	log     logrus.FieldLogger
}

func NewBalanceSheetService(entries repository.BalanceSheetRepository, audit repository.AuditRepository, log logrus.FieldLogger) BalanceSheetService {
	return &balanceSheetService{entries: entries, audit: audit, log: log}
}

// Append writes entry once per source. A repeated append for the same
// source is a no-op and reports false.
func (s *balanceSheetService) Append(ctx context.Context, entry model.BalanceSheetEntry) (bool, error) {
	entry.ID = uuid.Nil
	if err := validateLedgerFields(&entry.LedgerFields); err != nil {
		return false, err
	}
	written, err := s.entries.Post(ctx, &entry)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"org_id":      entry.OrganizationID,
			"source_type": entry.SourceType,
			"source_id":   entry.SourceID,
		}).Error("balance sheet posting failed")
		return false, storageErr(err, "failed to append balance sheet entry")
	}
	return written, nil
}

// PostForRequest appends the compensating liability outflow of an approved request.
func (s *balanceSheetService) PostForRequest(ctx context.Context, req model.BudgetRequest) (bool, error) {
	entry := model.BalanceSheetEntry{
		LedgerFields: model.LedgerFields{
			OrganizationID: req.OrganizationID,
			Name:           req.Title,
			Description:    req.DetailedDescription,
			Type:           model.EntryTypeLiability,
			Flow:           model.FlowOutflow,
			Amount:         req.AmountRequired,
			DepartmentName: strings.Join(req.InvolvedDepartments, ", "),
			AuthorName:     req.RequesterName,
			MemberID:       req.MemberID,
		},
		SourceType: model.SourceBudgetRequest,
		SourceID:   req.ID,
	}

	written, err := s.Append(ctx, entry)
	if err != nil {
		return false, err
	}
	if written {
		err = writeAudit(ctx, s.audit, auditEntry(nil, req.OrganizationID, model.ActionPostBalanceSheet, req.ID.String(), req.Title, map[string]interface{}{
			"amount":      req.AmountRequired.String(),
			"departments": entry.DepartmentName,
		}))
	}
	return written, err
}

// Retract deletes the posting of a source. It reports whether one existed.
func (s *balanceSheetService) Retract(ctx context.Context, sourceType string, sourceID uuid.UUID) (bool, error) {
	n, err := s.entries.DeleteBySource(ctx, sourceType, sourceID)
	if err != nil {
		return false, storageErr(err, "failed to retract balance sheet entry")
	}
	return n > 0, nil
}

func (s *balanceSheetService) List(ctx context.Context, actor auth.Actor) ([]LedgerEntryResponse, error) {
	if err := auth.RequireMember(actor); err != nil {
		return nil, err
	}
	entries, err := s.entries.List(ctx, actor.OrganizationID)
	if err != nil {
		return nil, storageErr(err, "failed to list balance sheet entries")
	}
	return toBalanceSheetResponses(entries), nil
}

func (s *balanceSheetService) ListByDateRange(ctx context.Context, actor auth.Actor, r DateRange) ([]LedgerEntryResponse, error) {
	if err := auth.RequireMember(actor); err != nil {
		return nil, err
	}
	entries, err := s.entries.ListByDateRange(ctx, actor.OrganizationID, r.Start, r.End)
	if err != nil {
		return nil, storageErr(err, "failed to list balance sheet entries")
	}
	return toBalanceSheetResponses(entries), nil
}

func toBalanceSheetResponses(entries []model.BalanceSheetEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, toBalanceSheetResponse(e))
	}
	return res
}
