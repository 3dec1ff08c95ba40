// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/eatme/internal/core"
	"github.com/carterperez-dev/eatme/internal/middleware"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserInfo is the slice of a user account authentication needs.
type UserInfo struct {
	ID           int64
	Email        string
	PasswordHash string
	Active       bool
	TokenVersion int
	Roles        []string
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id int64) (*UserInfo, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	RecordLogin(ctx context.Context, id int64, ipAddress string) error
	IncrementTokenVersion(ctx context.Context, id int64) error
}

type TokenManager interface {
	CreateAccessToken(userID int64, tokenVersion int) (*IssuedToken, error)
	VerifyAccessToken(ctx context.Context, token string) (*AccessTokenClaims, error)
}

type Service struct {
	repo         Repository
	tokens       TokenManager
	userProvider UserProvider
	sessionTTL   time.Duration
	logger       *slog.Logger
}

func NewService(
	repo Repository,
	tokens TokenManager,
	userProvider UserProvider,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:         repo,
		tokens:       tokens,
		userProvider: userProvider,
		sessionTTL:   sessionTTL,
		logger:       logger,
	}
}

type LoginResult struct {
	UserID         int64
	Token          *IssuedToken
	SessionID      string
	SessionExpires time.Time
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*LoginResult, error) {
	user, err := s.checkPassword(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.logger.Warn("login failed", "email", req.Email, "ip", ipAddress)
			core.AddSpanEvent(ctx, "login.failed")
		} else {
			core.SetSpanError(ctx, err)
		}
		return nil, err
	}

	token, err := s.tokens.CreateAccessToken(user.ID, user.TokenVersion)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("create access token: %w", err)
	}

	now := time.Now()
	session := &Session{
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	sessionID, err := s.repo.CreateSession(ctx, session)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := s.userProvider.RecordLogin(ctx, user.ID, ipAddress); err != nil {
		s.logger.Warn("record login failed", "user_id", user.ID, "error", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	core.AddSpanEvent(ctx, "login.succeeded", attribute.Int64("user.id", user.ID))

	return &LoginResult{
		UserID:         user.ID,
		Token:          token,
		SessionID:      sessionID,
		SessionExpires: session.ExpiresAt,
	}, nil
}

// Logout revokes the credential the caller authenticated with, plus the
// session cookie when one was sent alongside.
func (s *Service) Logout(
	ctx context.Context,
	identity *middleware.Identity,
	sessionID string,
) error {
	if identity.Method == middleware.MethodToken {
		claims, err := s.tokens.VerifyAccessToken(ctx, identity.Credential)
		if err == nil {
			if err := s.repo.RevokeToken(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
				return fmt.Errorf("revoke token: %w", err)
			}
		}
	}

	if identity.Method == middleware.MethodSession && sessionID == "" {
		sessionID = identity.Credential
	}

	if sessionID != "" {
		if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}

	return nil
}

// LogoutAll invalidates every token issued so far and drops every session
// of the user.
func (s *Service) LogoutAll(ctx context.Context, userID int64) error {
	if err := s.userProvider.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	if err := s.repo.DeleteUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}

	s.logger.Info("all sessions revoked", "user_id", userID)
	return nil
}

func (s *Service) ResolveToken(
	ctx context.Context,
	token string,
) (*middleware.Identity, error) {
	claims, err := s.tokens.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.repo.IsTokenRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("resolve token: %w", core.ErrTokenRevoked)
	}

	user, err := s.loadActiveUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if claims.TokenVersion < user.TokenVersion {
		return nil, fmt.Errorf("resolve token: %w", core.ErrTokenRevoked)
	}

	return toIdentity(user, middleware.MethodToken, token), nil
}

func (s *Service) ResolveBasic(
	ctx context.Context,
	email, password string,
) (*middleware.Identity, error) {
	user, err := s.checkPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, core.UnauthorizedError("")
		}
		return nil, err
	}

	return toIdentity(user, middleware.MethodBasic, ""), nil
}

func (s *Service) ResolveSession(
	ctx context.Context,
	sessionID string,
) (*middleware.Identity, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.UnauthorizedError("")
		}
		return nil, err
	}

	user, err := s.loadActiveUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	return toIdentity(user, middleware.MethodSession, sessionID), nil
}

// checkPassword spends the same hashing work for unknown accounts and
// upgrades outdated hashes on success.
func (s *Service) checkPassword(
	ctx context.Context,
	email, password string,
) (*UserInfo, error) {
	user, err := s.userProvider.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid || !user.Active {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.ID, newHash); err != nil {
			s.logger.Warn("password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	return user, nil
}

func (s *Service) loadActiveUser(ctx context.Context, id int64) (*UserInfo, error) {
	user, err := s.userProvider.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.UnauthorizedError("")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.Active {
		return nil, core.UnauthorizedError("")
	}

	return user, nil
}

func toIdentity(
	user *UserInfo,
	method middleware.AuthMethod,
	credential string,
) *middleware.Identity {
	return &middleware.Identity{
		UserID:     user.ID,
		Email:      user.Email,
		Roles:      user.Roles,
		Method:     method,
		Credential: credential,
	}
}
