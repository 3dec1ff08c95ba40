// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/eatme/internal/core"
	"github.com/carterperez-dev/eatme/internal/middleware"
)

type fixedCount int

func (c fixedCount) Count(context.Context) (int, error) {
	return int(c), nil
}

type failingCount struct{}

func (failingCount) Count(context.Context) (int, error) {
	return 0, errors.New("db down")
}

func newAdminRouter(cfg HandlerConfig, caller *middleware.Identity) http.Handler {
	withCaller := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithIdentity(r.Context(), caller)))
		})
	}

	r := chi.NewRouter()
	NewHandler(cfg).RegisterRoutes(r, withCaller, middleware.RequireAdmin)
	return r
}

func TestGetSystemStats(t *testing.T) {
	cfg := HandlerConfig{
		Users:      fixedCount(3),
		Records:    fixedCount(12),
		DBStats:    func() sql.DBStats { return sql.DBStats{OpenConnections: 2, InUse: 1} },
		RedisStats: func() core.RedisStats { return core.RedisStats{Hits: 9} },
		DBPing:     func(context.Context) error { return nil },
		RedisPing:  func(context.Context) error { return errors.New("unreachable") },
	}
	admin := &middleware.Identity{UserID: 1, Roles: []string{middleware.RoleAdmin}}

	rec := httptest.NewRecorder()
	newAdminRouter(cfg, admin).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Response struct {
			Stats SystemStatsResponse `json:"stats"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	stats := body.Response.Stats
	assert.Equal(t, Counts{Users: 3, Records: 12}, stats.Counts)
	assert.True(t, stats.Database.Healthy)
	assert.Equal(t, 2, stats.Database.Stats.OpenConnections)
	assert.False(t, stats.Redis.Healthy)
	assert.Equal(t, uint32(9), stats.Redis.Stats.Hits)
	assert.NotEmpty(t, stats.Runtime.GoVersion)
}

func TestGetSystemStats_CountFailure(t *testing.T) {
	admin := &middleware.Identity{UserID: 1, Roles: []string{middleware.RoleAdmin}}

	rec := httptest.NewRecorder()
	newAdminRouter(HandlerConfig{Users: failingCount{}}, admin).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestStats_AdminOnly(t *testing.T) {
	editor := &middleware.Identity{UserID: 2, Roles: []string{middleware.RoleEditor}}
	h := newAdminRouter(HandlerConfig{}, editor)

	for _, path := range []string{"/admin/stats", "/admin/stats/db", "/admin/stats/redis", "/admin/stats/runtime"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}
