package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common/security"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/repository"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

const minPasswordLength = 8

type AuthService struct {
	userRepo repository.UserRepository
	registry *tenant.Registry
}

func NewAuthService(userRepo repository.UserRepository, registry *tenant.Registry) *AuthService {
	return &AuthService{userRepo: userRepo, registry: registry}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	user, err := s.userRepo.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(security.Claims{UserID: user.ID, Role: user.Role, TenantID: user.TenantID})
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// CreateAdmin registers a panchayat admin, or a super admin when req.Role
// says so. Admins must belong to a registered tenant.
func (s *AuthService) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*model.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		return nil, fmt.Errorf("username is required: %w", common.ErrValidation)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, common.ErrValidation)
	}

	role := req.Role
	if role == "" {
		role = model.RoleAdmin
	}
	switch role {
	case model.RoleSuperAdmin:
		req.TenantID = ""
	case model.RoleAdmin:
		tc, err := tenant.NewContext(req.TenantID)
		if err != nil {
			return nil, err
		}
		if s.registry != nil {
			if _, ok := s.registry.Lookup(tc.ID); !ok {
				return nil, fmt.Errorf("tenant %q is not registered: %w", tc.ID, common.ErrNotFound)
			}
		}
	default:
		return nil, fmt.Errorf("unknown role %q: %w", role, common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       username,
		HashedPassword: hashedPassword,
		Role:           role,
		TenantID:       req.TenantID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo might return common.ErrConflict
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

// Me returns the user behind a token.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// ListAdmins returns the admins of one tenant.
func (s *AuthService) ListAdmins(ctx context.Context, tc tenant.Context) ([]model.User, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	users, err := s.userRepo.ListByTenant(ctx, tc.ID)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].HashedPassword = ""
	}
	return users, nil
}
