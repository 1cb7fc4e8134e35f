package repository

import (
	"context"

	"paisawise/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *model.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	Update(ctx context.Context, org *model.Organization) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(ctx context.Context, org *model.Organization) error {
	return GetDB(ctx, r.db).Create(org).Error
}

func (r *organizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	if err := GetDB(ctx, r.db).First(&org, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) Update(ctx context.Context, org *model.Organization) error {
	return GetDB(ctx, r.db).Model(org).Select("name", "preferences").Updates(org).Error
}

func (r *organizationRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := GetDB(ctx, r.db).Model(&model.Organization{}).Order("created_at").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// MembershipRepository is the backing store of the role gate.
type MembershipRepository interface {
	Create(ctx context.Context, m *model.Membership) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*model.Membership, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Membership, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Membership, error)
	UpdateRoles(ctx context.Context, id uuid.UUID, roles []string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Create(ctx context.Context, m *model.Membership) error {
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *membershipRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*model.Membership, error) {
	var m model.Membership
	err := GetDB(ctx, r.db).Preload("User").
		First(&m, "id = ? AND organization_id = ?", id, orgID).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Membership, error) {
	var m model.Membership
	if err := GetDB(ctx, r.db).First(&m, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Membership, error) {
	var members []model.Membership
	err := GetDB(ctx, r.db).Preload("User").
		Where("organization_id = ?", orgID).
		Order("created_at").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *membershipRepository) UpdateRoles(ctx context.Context, id uuid.UUID, roles []string) error {
	res := GetDB(ctx, r.db).Model(&model.Membership{}).Where("id = ?", id).
		Update("roles", datatypes.JSONSlice[string](roles))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *membershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Membership{}).Error
}
