// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/carterperez-dev/eatme/internal/config"
	"github.com/carterperez-dev/eatme/internal/core"
	"github.com/carterperez-dev/eatme/internal/middleware"
)

type RoleGranter interface {
	Grant(ctx context.Context, userID int64, roleName string) error
}

type Notifier interface {
	SendWelcome(ctx context.Context, email string) error
}

type Service struct {
	repo     Repository
	roles    RoleGranter
	notifier Notifier
	logger   *slog.Logger
}

func NewService(
	repo Repository,
	roles RoleGranter,
	notifier Notifier,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		roles:    roles,
		notifier: notifier,
		logger:   logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: passwordHash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.ConflictError("user already exists")
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)

	if s.notifier != nil {
		if err := s.notifier.SendWelcome(ctx, user.Email); err != nil {
			s.logger.Warn("welcome mail failed", "user_id", user.ID, "error", err)
		}
	}

	return user, nil
}

// Lookup fetches a user without any authorization check. Missing users
// come back as core.ErrNotFound.
func (s *Service) Lookup(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetUser(
	ctx context.Context,
	caller *middleware.Identity,
	id int64,
) (*User, error) {
	if !caller.CanAccess(id, middleware.RoleEditor) {
		return nil, core.ForbiddenError("No access to query this user.")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("Wrong user id.")
		}
		return nil, err
	}

	return user, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	caller *middleware.Identity,
) ([]User, error) {
	if !caller.HasAnyRole(middleware.RoleAdmin, middleware.RoleEditor) {
		return nil, core.ForbiddenError("No access to query all users.")
	}

	return s.repo.List(ctx)
}

func (s *Service) GetTarget(
	ctx context.Context,
	caller *middleware.Identity,
	id int64,
) (*User, error) {
	return s.targetOwner(ctx, caller, id)
}

func (s *Service) SetTarget(
	ctx context.Context,
	caller *middleware.Identity,
	id int64,
	target int,
) error {
	if _, err := s.targetOwner(ctx, caller, id); err != nil {
		return err
	}

	if err := s.repo.UpdateTarget(ctx, id, target); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("No such user.")
		}
		return err
	}

	return nil
}

func (s *Service) targetOwner(
	ctx context.Context,
	caller *middleware.Identity,
	id int64,
) (*User, error) {
	if !caller.CanAccess(id, middleware.RoleEditor) {
		return nil, core.ForbiddenError("No access to the records of this user.")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("No such user.")
		}
		return nil, err
	}

	return user, nil
}

// EnsureAdmin provisions the bootstrap administrator on first start and
// makes sure it holds the admin role. An existing account keeps its
// password.
func (s *Service) EnsureAdmin(ctx context.Context, cfg config.BootstrapConfig) error {
	if cfg.AdminEmail == "" || cfg.AdminPasswordHash == "" {
		s.logger.Info("admin bootstrap skipped, no credentials configured")
		return nil
	}

	email := normalizeEmail(cfg.AdminEmail)

	admin, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, core.ErrNotFound):
		admin = &User{Email: email, PasswordHash: cfg.AdminPasswordHash}
		if err := s.repo.Create(ctx, admin); err != nil &&
			!errors.Is(err, core.ErrDuplicateKey) {
			return fmt.Errorf("create admin: %w", err)
		}
		if admin.ID == 0 {
			if admin, err = s.repo.GetByEmail(ctx, email); err != nil {
				return fmt.Errorf("reload admin: %w", err)
			}
		}
		s.logger.Info("admin account created", "user_id", admin.ID, "email", email)
	case err != nil:
		return fmt.Errorf("find admin: %w", err)
	}

	if admin.HasRole(middleware.RoleAdmin) {
		return nil
	}

	if err := s.roles.Grant(ctx, admin.ID, middleware.RoleAdmin); err != nil {
		return fmt.Errorf("grant admin role: %w", err)
	}

	s.logger.Info("admin role granted", "user_id", admin.ID)
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
