package usage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/cache"
)

// Recorder bumps per-user usage counters. It runs only after a
// successful commit, so failed creations never count against quota.
type Recorder struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

func NewRecorder(db *pgxpool.Pool, c *cache.Cache) *Recorder {
	return &Recorder{db: db, cache: c}
}

// DocumentCreated records a new lineage for userID.
func (r *Recorder) DocumentCreated(ctx context.Context, userID uuid.UUID) {
	r.bump(ctx, userID, "documents_created")
}

// VersionCreated records a new version (any lineage) for userID.
func (r *Recorder) VersionCreated(ctx context.Context, userID uuid.UUID) {
	r.bump(ctx, userID, "versions_created")
}

// bump is best-effort: a counter miss must never fail the request that
// already committed.
func (r *Recorder) bump(ctx context.Context, userID uuid.UUID, counter string) {
	if r.cache != nil {
		key := fmt.Sprintf("usage:%s:%s", userID, counter)
		if _, err := r.cache.Increment(ctx, key); err != nil {
			slog.Warn("usage counter cache increment failed", "key", key, "error", err)
		}
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO usage_counters (user_id, counter, value)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (user_id, counter) DO UPDATE SET value = usage_counters.value + 1, updated_at = now()`,
		userID, counter,
	)
	if err != nil {
		slog.Warn("usage counter update failed", "user_id", userID, "counter", counter, "error", err)
	}
}
