// AngelaMos | 2026
// service.go

package role

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/eatme/internal/core"
	"github.com/carterperez-dev/eatme/internal/middleware"
	"github.com/carterperez-dev/eatme/internal/user"
)

type UserFinder interface {
	Lookup(ctx context.Context, id int64) (*user.User, error)
}

type Service struct {
	repo   Repository
	users  UserFinder
	logger *slog.Logger
}

func NewService(repo Repository, users UserFinder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, users: users, logger: logger}
}

// Subject resolves the user whose roles an administrator wants to see or
// change.
func (s *Service) Subject(
	ctx context.Context,
	caller *middleware.Identity,
	userID int64,
) (*user.User, error) {
	if !caller.HasRole(middleware.RoleAdmin) {
		return nil, core.ForbiddenError("Only administrators have access to user roles.")
	}

	u, err := s.users.Lookup(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("No such user.")
		}
		return nil, err
	}

	return u, nil
}

func (s *Service) Roles(ctx context.Context, subject *user.User) ([]string, error) {
	return s.repo.ListForUser(ctx, subject.ID)
}

func (s *Service) Grant(
	ctx context.Context,
	caller *middleware.Identity,
	subject *user.User,
	name string,
) (err error) {
	ctx, span := core.StartSpan(ctx, "role.grant", spanAttrs(caller, subject, name)...)
	defer func() { core.EndSpan(span, err) }()

	if err := s.repo.Grant(ctx, subject.ID, name); err != nil {
		return roleError(err)
	}

	s.logger.Info("role granted",
		"user_id", subject.ID,
		"role", name,
		"granted_by", caller.UserID,
	)
	return nil
}

func (s *Service) Revoke(
	ctx context.Context,
	caller *middleware.Identity,
	subject *user.User,
	name string,
) (err error) {
	ctx, span := core.StartSpan(ctx, "role.revoke", spanAttrs(caller, subject, name)...)
	defer func() { core.EndSpan(span, err) }()

	if err := s.repo.Revoke(ctx, subject.ID, name); err != nil {
		return roleError(err)
	}

	s.logger.Info("role revoked",
		"user_id", subject.ID,
		"role", name,
		"revoked_by", caller.UserID,
	)
	return nil
}

func spanAttrs(caller *middleware.Identity, subject *user.User, name string) []attribute.KeyValue {
	return []attribute.KeyValue{
		core.AttrCallerID.Int64(caller.UserID),
		core.AttrUserID.Int64(subject.ID),
		core.AttrRole.String(name),
	}
}

func roleError(err error) error {
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError("No applicable role found")
	}
	return err
}
