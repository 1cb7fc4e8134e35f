package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"paisawise/internal/apperr"
	"paisawise/internal/auth"
	"paisawise/internal/cache"
	"paisawise/internal/model"
	"paisawise/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
}

type JoinOrganizationRequest struct {
	OrganizationID string `json:"organization_id" binding:"required"`
}

type UpdateProfileRequest struct {
	Name        *string                `json:"name"`
	Preferences map[string]interface{} `json:"preferences"`
}

type OrganizationResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Preferences map[string]interface{} `json:"preferences"`
	CreatedAt   string                 `json:"created_at"`
}

type MemberResponse struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"created_at"`
}

// OrganizationService manages tenants and the memberships behind the role gate.
type OrganizationService interface {
	CreateOrganization(ctx context.Context, actor auth.Actor, req CreateOrganizationRequest) (OrganizationResponse, error)
	RequestToJoin(ctx context.Context, actor auth.Actor, orgID uuid.UUID) (MemberResponse, error)
	ListPendingRequests(ctx context.Context, actor auth.Actor) ([]MemberResponse, error)
	ListMembers(ctx context.Context, actor auth.Actor) ([]MemberResponse, error)
	AcceptMember(ctx context.Context, actor auth.Actor, membershipID uuid.UUID) (MemberResponse, error)
	RejectMember(ctx context.Context, actor auth.Actor, membershipID uuid.UUID) error
	GetProfile(ctx context.Context, actor auth.Actor) (OrganizationResponse, error)
	UpdateProfile(ctx context.Context, actor auth.Actor, req UpdateProfileRequest) (OrganizationResponse, error)
}

type organizationService struct {
	tx          repository.TransactionManager
	orgs        repository.OrganizationRepository
	memberships repository.MembershipRepository
	audit       repository.AuditRepository
	cache       cache.MembershipCache
	notifier    Notifier
	log         logrus.FieldLogger
}

func NewOrganizationService(
	tx repository.TransactionManager,
	orgs repository.OrganizationRepository,
	memberships repository.MembershipRepository,
	audit repository.AuditRepository,
	membershipCache cache.MembershipCache,
	notifier Notifier,
	log logrus.FieldLogger,
) OrganizationService {
	return &organizationService{
		tx:          tx,
		orgs:        orgs,
		memberships: memberships,
		audit:       audit,
		cache:       membershipCache,
		notifier:    notifier,
		log:         log,
	}
}

// ensureNoMembership reads the store rather than the actor, which may be cached.
func (s *organizationService) ensureNoMembership(ctx context.Context, userID uuid.UUID) error {
	_, err := s.memberships.GetByUserID(ctx, userID)
	if err == nil {
		return apperr.Conflict("you already belong to an organization")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return storageErr(err, "failed to check membership")
	}
	return nil
}

func (s *organizationService) CreateOrganization(ctx context.Context, actor auth.Actor, req CreateOrganizationRequest) (OrganizationResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return OrganizationResponse{}, apperr.Validation("organization name is required")
	}

	org := model.Organization{Name: name, Preferences: datatypes.JSONMap{}}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ensureNoMembership(txCtx, actor.UserID); err != nil {
			return err
		}
		if err := s.orgs.Create(txCtx, &org); err != nil {
			return storageErr(err, "failed to create organization")
		}
		owner := model.Membership{
			OrganizationID: org.ID,
			UserID:         actor.UserID,
			Roles:          datatypes.JSONSlice[string]{model.RoleOwner},
		}
		if err := s.memberships.Create(txCtx, &owner); err != nil {
			return storageErr(err, "failed to create owner membership")
		}
		return writeAudit(txCtx, s.audit, auditEntry(&actor, org.ID, model.ActionCreateOrganization, org.ID.String(), org.Name, nil))
	})
	if err != nil {
		return OrganizationResponse{}, storageErr(err, "failed to create organization")
	}

	s.cache.Invalidate(ctx, actor.UserID)
	s.log.WithFields(logrus.Fields{"org_id": org.ID, "user_id": actor.UserID}).Info("organization created")
	return toOrganizationResponse(org), nil
}

func (s *organizationService) RequestToJoin(ctx context.Context, actor auth.Actor, orgID uuid.UUID) (MemberResponse, error) {
	var m model.Membership
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.orgs.GetByID(txCtx, orgID); err != nil {
			return lookupErr(err, "organization %s not found", orgID)
		}
		if err := s.ensureNoMembership(txCtx, actor.UserID); err != nil {
			return err
		}
		m = model.Membership{
			OrganizationID: orgID,
			UserID:         actor.UserID,
			Roles:          datatypes.JSONSlice[string]{model.RoleRequest},
		}
		if err := s.memberships.Create(txCtx, &m); err != nil {
			return storageErr(err, "failed to create join request")
		}
		return nil
	})
	if err != nil {
		return MemberResponse{}, storageErr(err, "failed to request membership")
	}

	s.cache.Invalidate(ctx, actor.UserID)
	s.notifier.Revalidate(orgID, PathEmployees)
	m.User = &model.User{ID: actor.UserID, Name: actor.UserName, Email: actor.Email}
	return toMemberResponse(m), nil
}

func (s *organizationService) listByRole(ctx context.Context, orgID uuid.UUID, keep func(model.Membership) bool) ([]MemberResponse, error) {
	members, err := s.memberships.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, storageErr(err, "failed to list memberships")
	}
	res := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		if keep(m) {
			res = append(res, toMemberResponse(m))
		}
	}
	return res, nil
}

func (s *organizationService) ListPendingRequests(ctx context.Context, actor auth.Actor) ([]MemberResponse, error) {
	if err := auth.RequireOwner(actor); err != nil {
		return nil, err
	}
	return s.listByRole(ctx, actor.OrganizationID, func(m model.Membership) bool {
		return m.HasAnyRole(model.RoleRequest)
	})
}

func (s *organizationService) ListMembers(ctx context.Context, actor auth.Actor) ([]MemberResponse, error) {
	if err := auth.RequireMember(actor); err != nil {
		return nil, err
	}
	return s.listByRole(ctx, actor.OrganizationID, func(m model.Membership) bool {
		return m.HasAnyRole(model.RoleOwner, model.RoleAdmin, model.RoleMember)
	})
}

// AcceptMember promotes a pending applicant to member.
func (s *organizationService) AcceptMember(ctx context.Context, actor auth.Actor, membershipID uuid.UUID) (MemberResponse, error) {
	if err := auth.RequireOwner(actor); err != nil {
		return MemberResponse{}, err
	}

	var m *model.Membership
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		m, err = s.memberships.GetByID(txCtx, actor.OrganizationID, membershipID)
		if err != nil {
			return lookupErr(err, "membership %s not found", membershipID)
		}
		if !m.HasAnyRole(model.RoleRequest) {
			return apperr.Conflict("membership %s is not a pending request", membershipID)
		}
		roles := []string{model.RoleMember}
		if err := s.memberships.UpdateRoles(txCtx, m.ID, roles); err != nil {
			return storageErr(err, "failed to update membership roles")
		}
		m.Roles = roles
		return writeAudit(txCtx, s.audit, auditEntry(&actor, actor.OrganizationID, model.ActionAcceptMember, m.ID.String(), memberName(*m), nil))
	})
	if err != nil {
		return MemberResponse{}, storageErr(err, "failed to accept member")
	}

	s.cache.Invalidate(ctx, m.UserID)
	s.notifier.Revalidate(actor.OrganizationID, PathEmployees)
	return toMemberResponse(*m), nil
}

// RejectMember deletes a membership. Owners cannot be removed this way.
func (s *organizationService) RejectMember(ctx context.Context, actor auth.Actor, membershipID uuid.UUID) error {
	if err := auth.RequireOwner(actor); err != nil {
		return err
	}

	var m *model.Membership
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		m, err = s.memberships.GetByID(txCtx, actor.OrganizationID, membershipID)
		if err != nil {
			return lookupErr(err, "membership %s not found", membershipID)
		}
		if m.HasAnyRole(model.RoleOwner) {
			return apperr.Conflict("owner memberships cannot be removed")
		}
		if err := s.memberships.Delete(txCtx, m.ID); err != nil {
			return storageErr(err, "failed to delete membership")
		}
		return writeAudit(txCtx, s.audit, auditEntry(&actor, actor.OrganizationID, model.ActionRejectMember, m.ID.String(), memberName(*m), map[string]interface{}{
			"roles": []string(m.Roles),
		}))
	})
	if err != nil {
		return storageErr(err, "failed to reject member")
	}

	s.cache.Invalidate(ctx, m.UserID)
	s.notifier.Revalidate(actor.OrganizationID, PathEmployees)
	return nil
}

// GetProfile is open to pending applicants too.
func (s *organizationService) GetProfile(ctx context.Context, actor auth.Actor) (OrganizationResponse, error) {
	if err := auth.Require(actor, model.RoleOwner, model.RoleAdmin, model.RoleMember, model.RoleRequest); err != nil {
		return OrganizationResponse{}, err
	}
	org, err := s.orgs.GetByID(ctx, actor.OrganizationID)
	if err != nil {
		return OrganizationResponse{}, lookupErr(err, "organization %s not found", actor.OrganizationID)
	}
	return toOrganizationResponse(*org), nil
}

func (s *organizationService) UpdateProfile(ctx context.Context, actor auth.Actor, req UpdateProfileRequest) (OrganizationResponse, error) {
	if err := auth.RequireOwner(actor); err != nil {
		return OrganizationResponse{}, err
	}

	var org *model.Organization
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		org, err = s.orgs.GetByID(txCtx, actor.OrganizationID)
		if err != nil {
			return lookupErr(err, "organization %s not found", actor.OrganizationID)
		}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperr.Validation("organization name is required")
			}
			org.Name = name
		}
		if req.Preferences != nil {
			org.Preferences = datatypes.JSONMap(req.Preferences)
		}
		if err := s.orgs.Update(txCtx, org); err != nil {
			return storageErr(err, "failed to update organization")
		}
		return writeAudit(txCtx, s.audit, auditEntry(&actor, org.ID, model.ActionUpdateOrganization, org.ID.String(), org.Name, nil))
	})
	if err != nil {
		return OrganizationResponse{}, storageErr(err, "failed to update organization")
	}
	return toOrganizationResponse(*org), nil
}

func memberName(m model.Membership) string {
	if m.User != nil {
		return m.User.Name
	}
	return m.UserID.String()
}

func toMemberResponse(m model.Membership) MemberResponse {
	res := MemberResponse{
		ID:        m.ID.String(),
		UserID:    m.UserID.String(),
		Roles:     slices.Clone([]string(m.Roles)),
		CreatedAt: m.CreatedAt.Format(timeLayout),
	}
	if m.User != nil {
		res.Name = m.User.Name
		res.Email = m.User.Email
	}
	return res
}

func toOrganizationResponse(o model.Organization) OrganizationResponse {
	prefs := map[string]interface{}(o.Preferences)
	if prefs == nil {
		prefs = map[string]interface{}{}
	}
	return OrganizationResponse{
		ID:          o.ID.String(),
		Name:        o.Name,
		Preferences: prefs,
		CreatedAt:   o.CreatedAt.Format(timeLayout),
	}
}
