// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/carterperez-dev/eatme/internal/core"
	"github.com/carterperez-dev/eatme/internal/middleware"
)

type fakeUsers struct {
	byID    map[int64]*UserInfo
	logins  map[int64]int
	rehashed map[int64]string
}

func newFakeUsers(users ...*UserInfo) *fakeUsers {
	f := &fakeUsers{
		byID:    map[int64]*UserInfo{},
		logins:  map[int64]int{},
		rehashed: map[int64]string{},
	}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*UserInfo, error) {
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	f.byID[id].PasswordHash = hash
	f.rehashed[id] = hash
	return nil
}

func (f *fakeUsers) RecordLogin(_ context.Context, id int64, _ string) error {
	f.logins[id]++
	return nil
}

func (f *fakeUsers) IncrementTokenVersion(_ context.Context, id int64) error {
	f.byID[id].TokenVersion++
	return nil
}

type serviceFixture struct {
	svc   *Service
	users *fakeUsers
	repo  Repository
}

func newServiceFixture(t *testing.T, users ...*UserInfo) *serviceFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := NewRepository(rdb)
	fu := newFakeUsers(users...)
	svc := NewService(repo, newTestJWTManager(t, time.Hour), fu, time.Hour, nil)
	return &serviceFixture{svc: svc, users: fu, repo: repo}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := core.HashPassword(password)
	require.NoError(t, err)
	return h
}

func TestService_LoginAndResolve(t *testing.T) {
	user := &UserInfo{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: mustHash(t, "s3cret"),
		Active:       true,
		Roles:        []string{middleware.RoleEditor},
	}
	fx := newServiceFixture(t, user)
	ctx := context.Background()

	res, err := fx.svc.Login(ctx, LoginRequest{Email: user.Email, Password: "s3cret"}, "ua", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.UserID)
	assert.Equal(t, 1, fx.users.logins[1])

	identity, err := fx.svc.ResolveToken(ctx, res.Token.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), identity.UserID)
	assert.Equal(t, []string{middleware.RoleEditor}, identity.Roles)
	assert.Equal(t, middleware.MethodToken, identity.Method)

	identity, err = fx.svc.ResolveSession(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, middleware.MethodSession, identity.Method)

	identity, err = fx.svc.ResolveBasic(ctx, user.Email, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, middleware.MethodBasic, identity.Method)
}

func TestService_LoginFailures(t *testing.T) {
	fx := newServiceFixture(t,
		&UserInfo{ID: 1, Email: "a@example.com", PasswordHash: mustHash(t, "pw"), Active: true},
		&UserInfo{ID: 2, Email: "off@example.com", PasswordHash: mustHash(t, "pw"), Active: false},
	)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "a@example.com", password: "nope"},
		{name: "unknown email", email: "ghost@example.com", password: "pw"},
		{name: "inactive account", email: "off@example.com", password: "pw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.svc.Login(context.Background(), LoginRequest{Email: tt.email, Password: tt.password}, "", "")
			assert.ErrorIs(t, err, ErrInvalidCredentials)

			_, err = fx.svc.ResolveBasic(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, core.ErrUnauthorized)
		})
	}
}

func TestService_LegacyBcryptUpgradedOnLogin(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("allaccess"), bcrypt.MinCost)
	require.NoError(t, err)

	fx := newServiceFixture(t, &UserInfo{
		ID:           1,
		Email:        "root@localhost",
		PasswordHash: string(legacy),
		Active:       true,
		Roles:        []string{middleware.RoleAdmin},
	})

	_, err = fx.svc.Login(context.Background(), LoginRequest{Email: "root@localhost", Password: "allaccess"}, "", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fx.users.rehashed[1], "$argon2id$"))
}

func TestService_Logout(t *testing.T) {
	fx := newServiceFixture(t, &UserInfo{
		ID: 1, Email: "a@example.com", PasswordHash: mustHash(t, "pw"), Active: true,
	})
	ctx := context.Background()

	res, err := fx.svc.Login(ctx, LoginRequest{Email: "a@example.com", Password: "pw"}, "", "")
	require.NoError(t, err)

	identity, err := fx.svc.ResolveToken(ctx, res.Token.Token)
	require.NoError(t, err)

	require.NoError(t, fx.svc.Logout(ctx, identity, res.SessionID))

	_, err = fx.svc.ResolveToken(ctx, res.Token.Token)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	_, err = fx.svc.ResolveSession(ctx, res.SessionID)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestService_LogoutAll(t *testing.T) {
	fx := newServiceFixture(t, &UserInfo{
		ID: 1, Email: "a@example.com", PasswordHash: mustHash(t, "pw"), Active: true,
	})
	ctx := context.Background()

	first, err := fx.svc.Login(ctx, LoginRequest{Email: "a@example.com", Password: "pw"}, "", "")
	require.NoError(t, err)
	second, err := fx.svc.Login(ctx, LoginRequest{Email: "a@example.com", Password: "pw"}, "", "")
	require.NoError(t, err)

	require.NoError(t, fx.svc.LogoutAll(ctx, 1))

	for _, res := range []*LoginResult{first, second} {
		_, err := fx.svc.ResolveToken(ctx, res.Token.Token)
		assert.ErrorIs(t, err, core.ErrTokenRevoked)

		_, err = fx.svc.ResolveSession(ctx, res.SessionID)
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	}

	fresh, err := fx.svc.Login(ctx, LoginRequest{Email: "a@example.com", Password: "pw"}, "", "")
	require.NoError(t, err)
	_, err = fx.svc.ResolveToken(ctx, fresh.Token.Token)
	assert.NoError(t, err)
}

func TestService_ResolveTokenDeactivatedUser(t *testing.T) {
	user := &UserInfo{ID: 1, Email: "a@example.com", PasswordHash: mustHash(t, "pw"), Active: true}
	fx := newServiceFixture(t, user)
	ctx := context.Background()

	res, err := fx.svc.Login(ctx, LoginRequest{Email: "a@example.com", Password: "pw"}, "", "")
	require.NoError(t, err)

	fx.users.byID[1].Active = false

	_, err = fx.svc.ResolveToken(ctx, res.Token.Token)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}
