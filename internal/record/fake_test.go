// AngelaMos | 2026
// fake_test.go

package record

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/carterperez-dev/eatme/internal/core"
	"github.com/carterperez-dev/eatme/internal/user"
)

type memRepo struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]*Record
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, records: map[int64]*Record{}}
}

func (m *memRepo) Create(_ context.Context, r *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	r.ID = m.nextID
	r.DateCreated = now
	r.DateModified = now
	m.nextID++
	cp := *r
	m.records[r.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id int64) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) GetForUpdate(ctx context.Context, id int64) (*Record, error) {
	return m.GetByID(ctx, id)
}

func (m *memRepo) List(_ context.Context, userID int64, f Filter) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Record{}
	for _, r := range m.records {
		switch {
		case r.UserID != userID,
			f.DateStart != "" && r.RecordDate < f.DateStart,
			f.DateEnd != "" && r.RecordDate > f.DateEnd,
			f.TimeStart != "" && r.RecordTime < f.TimeStart,
			f.TimeEnd != "" && r.RecordTime > f.TimeEnd:
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RecordDate != out[j].RecordDate {
			return out[i].RecordDate > out[j].RecordDate
		}
		return out[i].RecordTime > out[j].RecordTime
	})
	return out, nil
}

func (m *memRepo) Update(_ context.Context, r *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[r.ID]; !ok {
		return core.ErrNotFound
	}
	r.DateModified = time.Now()
	cp := *r
	m.records[r.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memRepo) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), nil
}

func (m *memRepo) InTx(_ context.Context, fn func(repo Repository) error) error {
	return fn(m)
}

type users map[int64]bool

func (u users) Lookup(_ context.Context, id int64) (*user.User, error) {
	if !u[id] {
		return nil, core.ErrNotFound
	}
	return &user.User{ID: id}, nil
}
