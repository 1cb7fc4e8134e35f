package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"paisawise/internal/apperr"
	"paisawise/internal/auth"
	"paisawise/internal/model"
	"paisawise/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmitBudgetRequest struct {
	Title               string          `json:"title" binding:"required"`
	Purpose             string          `json:"purpose"`
	BusinessImpact      string          `json:"business_impact"`
	InvolvedDepartments []string        `json:"involved_departments"`
	AmountRequired      decimal.Decimal `json:"amount_required"`
	DetailedDescription string          `json:"detailed_description"`
}

type SetApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

type BudgetRequestFilter struct {
	Approved *bool
	Page     int
	Limit    int
}

type BudgetRequestResponse struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Purpose             string          `json:"purpose"`
	BusinessImpact      string          `json:"business_impact"`
	InvolvedDepartments []string        `json:"involved_departments"`
	AmountRequired      decimal.Decimal `json:"amount_required"`
	DetailedDescription string          `json:"detailed_description"`
	MemberID            string          `json:"member_id"`
	RequesterName       string          `json:"requester_name"`
	Approved            bool            `json:"approved"`
	ApprovedBy          *string         `json:"approved_by"`
	ApprovedAt          *string         `json:"approved_at"`
	Posted              bool            `json:"posted"`
	CreatedAt           string          `json:"created_at"`
}

// BudgetRequestService decides whether a department spend is affordable
// and keeps the balance sheet posting of each request in step with its
// approval flag: one posting while approved, none otherwise.
type BudgetRequestService interface {
	Submit(ctx context.Context, actor auth.Actor, req SubmitBudgetRequest) (BudgetRequestResponse, error)
	SetApproval(ctx context.Context, actor auth.Actor, id uuid.UUID, approved bool) (BudgetRequestResponse, error)
	List(ctx context.Context, actor auth.Actor, filter BudgetRequestFilter) ([]BudgetRequestResponse, int64, error)
	Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (BudgetRequestResponse, error)
}

type budgetRequestService struct {
	tx           repository.TransactionManager
	requests     repository.BudgetRequestRepository
	ledger       repository.BalanceSheetRepository
	budgets      BudgetService
	balanceSheet BalanceSheetService
	audit        repository.AuditRepository
	departments  *DepartmentCatalog
	notifier     Notifier
	log          logrus.FieldLogger
}

func NewBudgetRequestService(
	tx repository.TransactionManager,
	requests repository.BudgetRequestRepository,
	ledger repository.BalanceSheetRepository,
	budgets BudgetService,
	balanceSheet BalanceSheetService,
	audit repository.AuditRepository,
	departments *DepartmentCatalog,
	notifier Notifier,
	log logrus.FieldLogger,
) BudgetRequestService {
	return &budgetRequestService{
		tx:           tx,
		requests:     requests,
		ledger:       ledger,
		budgets:      budgets,
		balanceSheet: balanceSheet,
		audit:        audit,
		departments:  departments,
		notifier:     notifier,
		log:          log,
	}
}

func (s *budgetRequestService) Submit(ctx context.Context, actor auth.Actor, in SubmitBudgetRequest) (BudgetRequestResponse, error) {
	if err := auth.RequireMember(actor); err != nil {
		return BudgetRequestResponse{}, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return BudgetRequestResponse{}, apperr.Validation("title is required")
	}
	if len(title) > 100 {
		return BudgetRequestResponse{}, apperr.Validation("title must be at most 100 characters")
	}
	amount, err := checkAmount(in.AmountRequired)
	if err != nil {
		return BudgetRequestResponse{}, err
	}

	req := model.BudgetRequest{
		OrganizationID:      actor.OrganizationID,
		MemberID:            actor.MembershipID,
		RequesterName:       actor.UserName,
		Title:               title,
		Purpose:             in.Purpose,
		BusinessImpact:      in.BusinessImpact,
		InvolvedDepartments: datatypes.JSONSlice[string](s.departments.Normalize(in.InvolvedDepartments)),
		AmountRequired:      amount,
		DetailedDescription: in.DetailedDescription,
		CreatedAt:           time.Now().UTC(),
	}

	var total decimal.Decimal
	posted := false
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		total, err = s.budgets.AffordableTotal(txCtx, actor.OrganizationID, req.InvolvedDepartments)
		if err != nil {
			return err
		}

		req.Approved = amount.LessThanOrEqual(total)
		if req.Approved {
			req.ApprovedAt = &req.CreatedAt
		}
		if err := s.requests.Create(txCtx, &req); err != nil {
			return storageErr(err, "failed to create budget request")
		}

		if err := writeAudit(txCtx, s.audit, auditEntry(&actor, actor.OrganizationID, model.ActionSubmitBudgetRequest, req.ID.String(), req.Title, map[string]interface{}{
			"amount":        amount.String(),
			"departments":   []string(req.InvolvedDepartments),
			"available":     total.String(),
			"auto_approved": req.Approved,
		})); err != nil {
			return err
		}

		if req.Approved {
			posted, err = s.balanceSheet.PostForRequest(txCtx, req)
			return err
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"org_id": actor.OrganizationID,
			"title":  title,
			"amount": amount.String(),
		}).Error("budget request submission rolled back")
		return BudgetRequestResponse{}, storageErr(err, "failed to submit budget request")
	}

	s.log.WithFields(logrus.Fields{
		"org_id":     actor.OrganizationID,
		"request_id": req.ID,
		"amount":     amount.String(),
		"available":  total.String(),
		"approved":   req.Approved,
	}).Info("budget request submitted")

	paths := []string{PathRequestBudget}
	if posted {
		paths = append(paths, PathBalanceSheet)
	}
	s.notifier.Revalidate(actor.OrganizationID, paths...)
	return toBudgetRequestResponse(req, posted), nil
}

// SetApproval flips the approval flag. Approving posts the request's
// liability unless it is already posted; revoking retracts it, so repeated
// toggles never leave more than one posting.
func (s *budgetRequestService) SetApproval(ctx context.Context, actor auth.Actor, id uuid.UUID, approved bool) (BudgetRequestResponse, error) {
	if err := auth.RequireOwner(actor); err != nil {
		return BudgetRequestResponse{}, err
	}

	var req *model.BudgetRequest
	changed := false
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		req, err = s.requests.FindByID(txCtx, actor.OrganizationID, id)
		if err != nil {
			return lookupErr(err, "budget request %s not found", id)
		}

		wasApproved := req.Approved
		var by *uuid.UUID
		var at *time.Time
		if approved {
			now := time.Now().UTC()
			by, at = &actor.UserID, &now
			if wasApproved {
				by, at = req.ApprovedBy, req.ApprovedAt
			}
		}
		if err := s.requests.SetApproval(txCtx, req.ID, approved, by, at); err != nil {
			return lookupErr(err, "budget request %s not found", id)
		}
		req.Approved, req.ApprovedBy, req.ApprovedAt = approved, by, at

		if wasApproved != approved {
			action := model.ActionRevokeBudgetRequest
			if approved {
				action = model.ActionApproveBudgetRequest
			}
			if err := writeAudit(txCtx, s.audit, auditEntry(&actor, actor.OrganizationID, action, req.ID.String(), req.Title, map[string]interface{}{
				"approved": approved,
			})); err != nil {
				return err
			}
		}

		if approved {
			changed, err = s.balanceSheet.PostForRequest(txCtx, *req)
			return err
		}

		changed, err = s.balanceSheet.Retract(txCtx, model.SourceBudgetRequest, req.ID)
		if err != nil || !changed {
			return err
		}
		return writeAudit(txCtx, s.audit, auditEntry(&actor, actor.OrganizationID, model.ActionRetractBalanceSheet, req.ID.String(), req.Title, map[string]interface{}{
			"amount": req.AmountRequired.String(),
		}))
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"org_id": actor.OrganizationID, "request_id": id}).Error("budget approval change rolled back")
		return BudgetRequestResponse{}, storageErr(err, "failed to update budget approval")
	}

	s.log.WithFields(logrus.Fields{
		"org_id":     actor.OrganizationID,
		"request_id": id,
		"approved":   approved,
		"ledger":     changed,
	}).Info("budget approval updated")

	paths := []string{PathRequestBudget}
	if changed {
		paths = append(paths, PathBalanceSheet)
	}
	s.notifier.Revalidate(actor.OrganizationID, paths...)
	return toBudgetRequestResponse(*req, approved), nil
}

func (s *budgetRequestService) List(ctx context.Context, actor auth.Actor, filter BudgetRequestFilter) ([]BudgetRequestResponse, int64, error) {
	if err := auth.RequireMember(actor); err != nil {
		return nil, 0, err
	}

	requests, total, err := s.requests.List(ctx, actor.OrganizationID, repository.BudgetRequestFilter{
		Approved: filter.Approved,
		Page:     filter.Page,
		Limit:    filter.Limit,
	})
	if err != nil {
		return nil, 0, storageErr(err, "failed to list budget requests")
	}

	res := make([]BudgetRequestResponse, 0, len(requests))
	for _, r := range requests {
		res = append(res, toBudgetRequestResponse(r, r.Approved))
	}
	return res, total, nil
}

func (s *budgetRequestService) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (BudgetRequestResponse, error) {
	if err := auth.RequireMember(actor); err != nil {
		return BudgetRequestResponse{}, err
	}

	req, err := s.requests.FindByID(ctx, actor.OrganizationID, id)
	if err != nil {
		return BudgetRequestResponse{}, lookupErr(err, "budget request %s not found", id)
	}

	posted := true
	if _, err := s.ledger.FindBySource(ctx, model.SourceBudgetRequest, req.ID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return BudgetRequestResponse{}, storageErr(err, "failed to load balance sheet posting")
		}
		posted = false
	}
	return toBudgetRequestResponse(*req, posted), nil
}

func toBudgetRequestResponse(r model.BudgetRequest, posted bool) BudgetRequestResponse {
	var approvedBy *string
	if r.ApprovedBy != nil {
		id := r.ApprovedBy.String()
		approvedBy = &id
	}
	departments := []string(r.InvolvedDepartments)
	if departments == nil {
		departments = []string{}
	}
	return BudgetRequestResponse{
		ID:                  r.ID.String(),
		Title:               r.Title,
		Purpose:             r.Purpose,
		BusinessImpact:      r.BusinessImpact,
		InvolvedDepartments: departments,
		AmountRequired:      r.AmountRequired,
		DetailedDescription: r.DetailedDescription,
		MemberID:            r.MemberID.String(),
		RequesterName:       r.RequesterName,
		Approved:            r.Approved,
		ApprovedBy:          approvedBy,
		ApprovedAt:          formatTime(r.ApprovedAt),
		Posted:              posted,
		CreatedAt:           r.CreatedAt.Format(timeLayout),
	}
}
