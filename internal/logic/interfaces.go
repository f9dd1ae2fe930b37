package logic

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/tldps/stats-api/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RedisClient defines the interface for Redis client
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// AnalysisService computes reports from parsed events.
type AnalysisService interface {
	Analyze(ctx context.Context, events []models.DamageEvent, opts AnalyzeOptions) (*models.AnalysisReport, error)
}

// ShareService stores and retrieves shared log snapshots.
type ShareService interface {
	Create(ctx context.Context, req *models.ShareRequest) (*models.Share, error)
	Get(ctx context.Context, shareID string) (*models.Share, error)
}

// ShareStore is the persistence behind ShareService.
type ShareStore interface {
	Save(ctx context.Context, share *models.Share) error
	Load(ctx context.Context, shareID string) (*models.Share, error)
}

// ArchiveService answers aggregate queries over archived events.
type ArchiveService interface {
	Query(ctx context.Context, req ArchiveQueryRequest) ([]models.ArchiveRow, error)
	CasterTotals(ctx context.Context, caster string) (*models.CasterTotals, error)
}
