// AngelaMos | 2026
// provider.go

package user

import (
	"context"

	"github.com/carterperez-dev/eatme/internal/auth"
)

// AuthProvider exposes accounts to the auth package.
type AuthProvider struct {
	repo Repository
}

func NewAuthProvider(repo Repository) *AuthProvider {
	return &AuthProvider{repo: repo}
}

func (p *AuthProvider) GetByEmail(ctx context.Context, email string) (*auth.UserInfo, error) {
	u, err := p.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (p *AuthProvider) GetByID(ctx context.Context, id int64) (*auth.UserInfo, error) {
	u, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (p *AuthProvider) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return p.repo.UpdatePassword(ctx, id, passwordHash)
}

func (p *AuthProvider) RecordLogin(ctx context.Context, id int64, ipAddress string) error {
	return p.repo.RecordLogin(ctx, id, ipAddress)
}

func (p *AuthProvider) IncrementTokenVersion(ctx context.Context, id int64) error {
	return p.repo.IncrementTokenVersion(ctx, id)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Active:       u.Active,
		TokenVersion: u.TokenVersion,
		Roles:        u.Roles(),
	}
}

var _ auth.UserProvider = (*AuthProvider)(nil)
