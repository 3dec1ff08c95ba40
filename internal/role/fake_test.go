// AngelaMos | 2026
// fake_test.go

package role

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/eatme/internal/core"
	"github.com/carterperez-dev/eatme/internal/middleware"
	"github.com/carterperez-dev/eatme/internal/user"
)

type memRoles struct {
	mu     sync.Mutex
	grants map[int64]map[string]bool
}

func newMemRoles() *memRoles {
	return &memRoles{grants: map[int64]map[string]bool{}}
}

func known(name string) bool {
	return name == middleware.RoleAdmin || name == middleware.RoleEditor
}

func (m *memRoles) ListForUser(_ context.Context, userID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := []string{}
	for name := range m.grants[userID] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *memRoles) Grant(_ context.Context, userID int64, name string) error {
	if !known(name) {
		return core.ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.grants[userID] == nil {
		m.grants[userID] = map[string]bool{}
	}
	m.grants[userID][name] = true
	return nil
}

func (m *memRoles) Revoke(_ context.Context, userID int64, name string) error {
	if !known(name) {
		return core.ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.grants[userID], name)
	return nil
}

type users map[int64]bool

func (u users) Lookup(_ context.Context, id int64) (*user.User, error) {
	if !u[id] {
		return nil, core.ErrNotFound
	}
	return &user.User{ID: id}, nil
}

var (
	admin  = &middleware.Identity{UserID: 1, Roles: []string{middleware.RoleAdmin}}
	editor = &middleware.Identity{UserID: 2, Roles: []string{middleware.RoleEditor}}
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.StatusCode
}
