package repository

import (
	"context"
	"time"

	"paisawise/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BalanceSheetRepository interface {
	// Post inserts entry unless its source already posted. It reports
	// whether a row was written.
	Post(ctx context.Context, entry *model.BalanceSheetEntry) (bool, error)
	FindBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) (*model.BalanceSheetEntry, error)
	DeleteBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) (int64, error)
	List(ctx context.Context, orgID uuid.UUID) ([]model.BalanceSheetEntry, error)
	ListByDateRange(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]model.BalanceSheetEntry, error)
	ListOrphaned(ctx context.Context, orgID uuid.UUID) ([]model.BalanceSheetEntry, error)
	Aggregate(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]model.LedgerAggregate, error)
}

type balanceSheetRepository struct {
	db *gorm.DB
}

func NewBalanceSheetRepository(db *gorm.DB) BalanceSheetRepository {
	return &balanceSheetRepository{db: db}
}

func (r *balanceSheetRepository) Post(ctx context.Context, entry *model.BalanceSheetEntry) (bool, error) {
	res := GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_type"}, {Name: "source_id"}},
		DoNothing: true,
	}).Create(entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *balanceSheetRepository) FindBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) (*model.BalanceSheetEntry, error) {
	var entry model.BalanceSheetEntry
	err := GetDB(ctx, r.db).First(&entry, "source_type = ? AND source_id = ?", sourceType, sourceID).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *balanceSheetRepository) DeleteBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Delete(&model.BalanceSheetEntry{})
	return res.RowsAffected, res.Error
}

func (r *balanceSheetRepository) List(ctx context.Context, orgID uuid.UUID) ([]model.BalanceSheetEntry, error) {
	var entries []model.BalanceSheetEntry
	if err := GetDB(ctx, r.db).Where("organization_id = ?", orgID).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByDateRange returns entries with start <= created_at <= end, oldest first.
func (r *balanceSheetRepository) ListByDateRange(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]model.BalanceSheetEntry, error) {
	var entries []model.BalanceSheetEntry
	err := GetDB(ctx, r.db).
		Where("organization_id = ? AND created_at BETWEEN ? AND ?", orgID, start, end).
		Order("created_at").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListOrphaned returns postings whose source no longer justifies them:
// request postings for missing or unapproved requests, and cash-flow
// mirrors whose cash-flow entry is gone.
func (r *balanceSheetRepository) ListOrphaned(ctx context.Context, orgID uuid.UUID) ([]model.BalanceSheetEntry, error) {
	var entries []model.BalanceSheetEntry
	err := GetDB(ctx, r.db).
		Joins("LEFT JOIN budget_requests br ON balance_sheet_entries.source_type = ? AND br.id = balance_sheet_entries.source_id", model.SourceBudgetRequest).
		Joins("LEFT JOIN cash_flow_entries cf ON balance_sheet_entries.source_type = ? AND cf.id = balance_sheet_entries.source_id", model.SourceCashFlow).
		Where("balance_sheet_entries.organization_id = ?", orgID).
		Where(
			r.db.Where("balance_sheet_entries.source_type = ? AND (br.id IS NULL OR br.approved = ?)", model.SourceBudgetRequest, false).
				Or("balance_sheet_entries.source_type = ? AND cf.id IS NULL", model.SourceCashFlow),
		).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Aggregate sums amounts per (department, type, flow) within the window.
func (r *balanceSheetRepository) Aggregate(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]model.LedgerAggregate, error) {
	var rows []model.LedgerAggregate
	query := GetDB(ctx, r.db).Model(&model.BalanceSheetEntry{}).
		Select("department_name, type, flow, SUM(amount) AS total").
		Where("organization_id = ?", orgID)
	// zero bounds leave that side of the window open
	if !start.IsZero() {
		query = query.Where("created_at >= ?", start)
	}
	if !end.IsZero() {
		query = query.Where("created_at <= ?", end)
	}
	err := query.Group("department_name, type, flow").
		Order("department_name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
