package repository

import (
	"context"
	"time"

	"paisawise/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CashFlowRepository interface {
	Create(ctx context.Context, entry *model.CashFlowEntry) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.CashFlowEntry, error)
	List(ctx context.Context, orgID uuid.UUID) ([]model.CashFlowEntry, error)
	ListByDateRange(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]model.CashFlowEntry, error)
	ListUnmirrored(ctx context.Context, orgID uuid.UUID) ([]model.CashFlowEntry, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type cashFlowRepository struct {
	db *gorm.DB
}

func NewCashFlowRepository(db *gorm.DB) CashFlowRepository {
	return &cashFlowRepository{db: db}
}

func (r *cashFlowRepository) Create(ctx context.Context, entry *model.CashFlowEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *cashFlowRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.CashFlowEntry, error) {
	var entry model.CashFlowEntry
	if err := GetDB(ctx, r.db).First(&entry, "id = ? AND organization_id = ?", id, orgID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *cashFlowRepository) List(ctx context.Context, orgID uuid.UUID) ([]model.CashFlowEntry, error) {
	var entries []model.CashFlowEntry
	if err := GetDB(ctx, r.db).Where("organization_id = ?", orgID).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByDateRange returns entries with start <= created_at <= end, oldest first.
func (r *cashFlowRepository) ListByDateRange(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]model.CashFlowEntry, error) {
	var entries []model.CashFlowEntry
	err := GetDB(ctx, r.db).
		Where("organization_id = ? AND created_at BETWEEN ? AND ?", orgID, start, end).
		Order("created_at").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListUnmirrored returns cash-flow entries that have no balance sheet counterpart.
func (r *cashFlowRepository) ListUnmirrored(ctx context.Context, orgID uuid.UUID) ([]model.CashFlowEntry, error) {
	var entries []model.CashFlowEntry
	err := GetDB(ctx, r.db).
		Joins("LEFT JOIN balance_sheet_entries b ON b.source_type = ? AND b.source_id = cash_flow_entries.id", model.SourceCashFlow).
		Where("cash_flow_entries.organization_id = ? AND b.id IS NULL", orgID).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *cashFlowRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ? AND organization_id = ?", id, orgID).Delete(&model.CashFlowEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
