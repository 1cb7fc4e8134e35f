package repository

import (
	"context"
	"time"

	"paisawise/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BudgetRequestFilter narrows a request listing. Nil Approved means all.
type BudgetRequestFilter struct {
	Approved *bool
	Page     int
	Limit    int
}

type BudgetRequestRepository interface {
	Create(ctx context.Context, req *model.BudgetRequest) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.BudgetRequest, error)
	List(ctx context.Context, orgID uuid.UUID, filter BudgetRequestFilter) ([]model.BudgetRequest, int64, error)
	SetApproval(ctx context.Context, id uuid.UUID, approved bool, by *uuid.UUID, at *time.Time) error
	ListApprovedUnposted(ctx context.Context, orgID uuid.UUID) ([]model.BudgetRequest, error)
}

type budgetRequestRepository struct {
	db *gorm.DB
}

func NewBudgetRequestRepository(db *gorm.DB) BudgetRequestRepository {
	return &budgetRequestRepository{db: db}
}

func (r *budgetRequestRepository) Create(ctx context.Context, req *model.BudgetRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *budgetRequestRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.BudgetRequest, error) {
	var req model.BudgetRequest
	if err := GetDB(ctx, r.db).First(&req, "id = ? AND organization_id = ?", id, orgID).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *budgetRequestRepository) List(ctx context.Context, orgID uuid.UUID, filter BudgetRequestFilter) ([]model.BudgetRequest, int64, error) {
	var requests []model.BudgetRequest
	var total int64

	db := GetDB(ctx, r.db).Model(&model.BudgetRequest{}).Where("organization_id = ?", orgID)
	if filter.Approved != nil {
		db = db.Where("approved = ?", *filter.Approved)
	}
	db = db.Session(&gorm.Session{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(db, filter.Page, filter.Limit).Order("created_at desc").Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// SetApproval writes only the approval fields; the rest of a request is immutable.
func (r *budgetRequestRepository) SetApproval(ctx context.Context, id uuid.UUID, approved bool, by *uuid.UUID, at *time.Time) error {
	res := GetDB(ctx, r.db).Model(&model.BudgetRequest{}).Where("id = ?", id).Updates(map[string]interface{}{
		"approved":    approved,
		"approved_by": by,
		"approved_at": at,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListApprovedUnposted returns approved requests that have no balance sheet posting.
func (r *budgetRequestRepository) ListApprovedUnposted(ctx context.Context, orgID uuid.UUID) ([]model.BudgetRequest, error) {
	var requests []model.BudgetRequest
	err := GetDB(ctx, r.db).
		Joins("LEFT JOIN balance_sheet_entries b ON b.source_type = ? AND b.source_id = budget_requests.id", model.SourceBudgetRequest).
		Where("budget_requests.organization_id = ? AND budget_requests.approved = ? AND b.id IS NULL", orgID, true).
		Order("budget_requests.created_at").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
