package repository

import (
	"context"

	"paisawise/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatementRepository interface {
	Find(ctx context.Context, orgID uuid.UUID, year, quarter string) (*model.QuarterlyStatement, error)
	Exists(ctx context.Context, orgID uuid.UUID, year, quarter string) (bool, error)
	Upsert(ctx context.Context, s *model.QuarterlyStatement) error
}

type statementRepository struct {
	db *gorm.DB
}

func NewStatementRepository(db *gorm.DB) StatementRepository {
	return &statementRepository{db: db}
}

func (r *statementRepository) Find(ctx context.Context, orgID uuid.UUID, year, quarter string) (*model.QuarterlyStatement, error) {
	var s model.QuarterlyStatement
	err := GetDB(ctx, r.db).
		First(&s, "organization_id = ? AND year = ? AND quarter = ?", orgID, year, quarter).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *statementRepository) Exists(ctx context.Context, orgID uuid.UUID, year, quarter string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.QuarterlyStatement{}).
		Where("organization_id = ? AND year = ? AND quarter = ?", orgID, year, quarter).
		Count(&count).Error
	return count > 0, err
}

func (r *statementRepository) Upsert(ctx context.Context, s *model.QuarterlyStatement) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "organization_id"}, {Name: "year"}, {Name: "quarter"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_assets",
			"non_current_assets",
			"current_liabilities",
			"non_current_liabilities",
			"shareholders_equity",
			"updated_at",
		}),
	}).Create(s).Error
}
