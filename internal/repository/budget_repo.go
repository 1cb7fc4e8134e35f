package repository

import (
	"context"

	"paisawise/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BudgetRepository interface {
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]model.DepartmentBudget, error)
	FindByDepartment(ctx context.Context, orgID uuid.UUID, department string) (*model.DepartmentBudget, error)
	Upsert(ctx context.Context, budget *model.DepartmentBudget) error
}

type budgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) BudgetRepository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]model.DepartmentBudget, error) {
	var budgets []model.DepartmentBudget
	if err := GetDB(ctx, r.db).Where("organization_id = ?", orgID).Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *budgetRepository) FindByDepartment(ctx context.Context, orgID uuid.UUID, department string) (*model.DepartmentBudget, error) {
	var budget model.DepartmentBudget
	err := GetDB(ctx, r.db).
		First(&budget, "organization_id = ? AND department_name = ?", orgID, department).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// Upsert creates the department row on first write and updates the limit in place afterwards.
func (r *budgetRepository) Upsert(ctx context.Context, budget *model.DepartmentBudget) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "organization_id"}, {Name: "department_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"budget_amount", "updated_at"}),
	}).Create(budget).Error
}
