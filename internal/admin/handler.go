// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/eatme/internal/core"
)

// Counter reports the number of stored entities of one kind.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

type HandlerConfig struct {
	Users      Counter
	Records    Counter
	DBStats    func() sql.DBStats
	RedisStats func() core.RedisStats
	DBPing     func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
}

type Handler struct {
	cfg HandlerConfig
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{cfg: cfg}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := h.counts(ctx)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var (
		wg           sync.WaitGroup
		dbHealthy    bool
		redisHealthy bool
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		dbHealthy = healthy(ctx, h.cfg.DBPing)
	}()
	go func() {
		defer wg.Done()
		redisHealthy = healthy(ctx, h.cfg.RedisPing)
	}()
	wg.Wait()

	core.OK(w, map[string]SystemStatsResponse{"stats": {
		Counts: counts,
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.dbStats(),
		},
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.redisStats(),
		},
		Runtime: readRuntimeStats(),
	}})
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, map[string]*DBPoolStats{"database": h.dbStats()})
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, map[string]*core.RedisStats{"redis": h.redisStats()})
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, map[string]RuntimeStats{"runtime": readRuntimeStats()})
}

func (h *Handler) counts(ctx context.Context) (Counts, error) {
	var c Counts
	if h.cfg.Users != nil {
		n, err := h.cfg.Users.Count(ctx)
		if err != nil {
			return Counts{}, err
		}
		c.Users = n
	}
	if h.cfg.Records != nil {
		n, err := h.cfg.Records.Count(ctx)
		if err != nil {
			return Counts{}, err
		}
		c.Records = n
	}
	return c, nil
}

func healthy(ctx context.Context, ping func(ctx context.Context) error) bool {
	return ping != nil && ping(ctx) == nil
}

func (h *Handler) dbStats() *DBPoolStats {
	if h.cfg.DBStats == nil {
		return nil
	}

	stats := h.cfg.DBStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) redisStats() *core.RedisStats {
	if h.cfg.RedisStats == nil {
		return nil
	}
	stats := h.cfg.RedisStats()
	return &stats
}

func readRuntimeStats() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     mem.Alloc,
		MemSys:       mem.Sys,
		NumGC:        mem.NumGC,
	}
}
