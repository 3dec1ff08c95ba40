// AngelaMos | 2026
// fake_test.go

package user

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/carterperez-dev/eatme/internal/core"
)

type memRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*User
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, users: map[int64]*User{}}
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return core.ErrDuplicateKey
		}
	}
	now := time.Now()
	u.ID = m.nextID
	u.Active = true
	u.DateCreated = now
	u.DateModified = now
	m.nextID++
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) List(context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) mutate(id int64, fn func(u *User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	fn(u)
	u.DateModified = time.Now()
	return nil
}

func (m *memRepo) UpdateTarget(_ context.Context, id int64, target int) error {
	return m.mutate(id, func(u *User) { u.TargetDailyCalories = target })
}

func (m *memRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	return m.mutate(id, func(u *User) { u.PasswordHash = hash })
}

func (m *memRepo) IncrementTokenVersion(_ context.Context, id int64) error {
	return m.mutate(id, func(u *User) { u.TokenVersion++ })
}

func (m *memRepo) RecordLogin(_ context.Context, id int64, ip string) error {
	return m.mutate(id, func(u *User) {
		u.LoginCount++
		u.CurrentLoginIP = &ip
	})
}

func (m *memRepo) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

// Grant doubles as the RoleGranter so the bootstrap path can be observed.
func (m *memRepo) Grant(_ context.Context, userID int64, role string) error {
	return m.mutate(userID, func(u *User) {
		if u.HasRole(role) {
			return
		}
		roles := append(u.Roles(), role)
		sort.Strings(roles)
		u.RoleNames = strings.Join(roles, ",")
	})
}

type recordingNotifier struct {
	sent []string
	err  error
}

func (n *recordingNotifier) SendWelcome(_ context.Context, email string) error {
	n.sent = append(n.sent, email)
	return n.err
}
