package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"paisawise/internal/apperr"
	"paisawise/internal/auth"
	"paisawise/internal/cache"
	"paisawise/internal/model"
	"paisawise/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenTTL is the lifetime of an access token.
const TokenTTL = 24 * time.Hour

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateNameRequest struct {
	Name string `json:"name" binding:"required"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// UserResponse is a user without credentials, plus its membership if any.
type UserResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	OrganizationID *string  `json:"organization_id"`
	MembershipID   *string  `json:"membership_id"`
	Roles          []string `json:"roles"`
	CreatedAt      string   `json:"created_at"`
}

// UserService stands in for the identity provider: it owns credentials,
// issues session tokens and resolves a token subject into an actor.
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Me(ctx context.Context, actor auth.Actor) (UserResponse, error)
	UpdateName(ctx context.Context, actor auth.Actor, name string) (UserResponse, error)
	ResolveActor(ctx context.Context, userID uuid.UUID) (auth.Actor, error)
}

type userService struct {
	users       repository.UserRepository
	memberships repository.MembershipRepository
	cache       cache.MembershipCache
	secret      []byte
	now         func() time.Time
}

// NewUserService returns a new instance of UserService
func NewUserService(users repository.UserRepository, memberships repository.MembershipRepository, membershipCache cache.MembershipCache, secret []byte) UserService {
	return &userService{
		users:       users,
		memberships: memberships,
		cache:       membershipCache,
		secret:      secret,
		now:         time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" {
		return UserResponse{}, apperr.Validation("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return UserResponse{}, apperr.Validation("invalid email format")
	}
	if len(req.Password) < 8 {
		return UserResponse{}, apperr.Validation("password must be at least 8 characters")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return UserResponse{}, apperr.Conflict("email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserResponse{}, storageErr(err, "failed to check email")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, storageErr(err, "failed to hash password")
	}

	user := model.User{Name: name, Email: email, Password: string(hashed)}
	if err := s.users.Create(ctx, &user); err != nil {
		return UserResponse{}, storageErr(err, "failed to create user")
	}
	return toUserResponse(user, nil), nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenResponse{}, apperr.Unauthorized("invalid email or password")
		}
		return TokenResponse{}, storageErr(err, "failed to load user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return TokenResponse{}, apperr.Unauthorized("invalid email or password")
	}

	expires := s.now().Add(TokenTTL)
	signed, err := auth.IssueToken(s.secret, user.ID, user.Name, expires)
	if err != nil {
		return TokenResponse{}, storageErr(err, "failed to generate token")
	}
	return TokenResponse{Token: signed, ExpiresAt: expires.UTC().Format(timeLayout)}, nil
}

func (s *userService) Me(ctx context.Context, actor auth.Actor) (UserResponse, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return UserResponse{}, lookupErr(err, "user not found")
	}
	m, err := s.membership(ctx, user.ID)
	if err != nil {
		return UserResponse{}, err
	}
	return toUserResponse(*user, m), nil
}

func (s *userService) UpdateName(ctx context.Context, actor auth.Actor, name string) (UserResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return UserResponse{}, apperr.Validation("name is required")
	}
	if err := s.users.UpdateName(ctx, actor.UserID, name); err != nil {
		return UserResponse{}, lookupErr(err, "user not found")
	}
	s.cache.Invalidate(ctx, actor.UserID)

	actor.UserName = name
	return s.Me(ctx, actor)
}

// ResolveActor turns a verified token subject into the request actor,
// consulting the membership cache first.
func (s *userService) ResolveActor(ctx context.Context, userID uuid.UUID) (auth.Actor, error) {
	if actor, ok := s.cache.Get(ctx, userID); ok {
		return actor, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.Actor{}, apperr.Unauthorized("user from token not found")
		}
		return auth.Actor{}, storageErr(err, "failed to load user")
	}
	m, err := s.membership(ctx, userID)
	if err != nil {
		return auth.Actor{}, err
	}

	actor := auth.FromMembership(*user, m)
	s.cache.Set(ctx, actor)
	return actor, nil
}

func (s *userService) membership(ctx context.Context, userID uuid.UUID) (*model.Membership, error) {
	m, err := s.memberships.GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err, "failed to load membership")
	}
	return m, nil
}

func toUserResponse(u model.User, m *model.Membership) UserResponse {
	res := UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Roles:     []string{},
		CreatedAt: u.CreatedAt.Format(timeLayout),
	}
	if m != nil {
		orgID, memberID := m.OrganizationID.String(), m.ID.String()
		res.OrganizationID = &orgID
		res.MembershipID = &memberID
		res.Roles = append(res.Roles, m.Roles...)
	}
	return res
}
