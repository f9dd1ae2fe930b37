package logic

import (
	"context"
	"strconv"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tldps/stats-api/internal/models"
)

var (
	ErrInvalidQuery       = errors.New("invalid archive query")
	ErrArchiveUnavailable = errors.New("archive backend not configured")
)

// CasterCounterKey is the Redis hash holding a caster's running totals.
func CasterCounterKey(caster string) string {
	return "caster:" + caster + ":totals"
}

// Hash fields under CasterCounterKey.
const (
	CounterDamage  = "damage"
	CounterHits    = "hits"
	CounterCrits   = "crits"
	CounterHeavies = "heavies"
)

type archiveService struct {
	ch     driver.Conn
	redis  RedisClient
	logger *zap.SugaredLogger
}

func NewArchiveService(ch driver.Conn, redis RedisClient, logger *zap.Logger) ArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &archiveService{ch: ch, redis: redis, logger: logger.Sugar()}
}

// Query runs an aggregate over archived events.
func (s *archiveService) Query(ctx context.Context, req ArchiveQueryRequest) ([]models.ArchiveRow, error) {
	query, args, err := BuildArchiveQuery(req)
	if err != nil {
		return nil, err
	}
	if s.ch == nil {
		return nil, ErrArchiveUnavailable
	}

	rows, err := s.ch.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "archive query")
	}
	defer rows.Close()

	out := make([]models.ArchiveRow, 0)
	for rows.Next() {
		var row models.ArchiveRow
		if err := rows.Scan(&row.Value, &row.Label); err != nil {
			s.logger.Warnw("Failed to scan archive row", "error", err)
			continue
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "archive rows")
	}
	return out, nil
}

// CasterTotals reads the running counters the ingest workers maintain.
func (s *archiveService) CasterTotals(ctx context.Context, caster string) (*models.CasterTotals, error) {
	if s.redis == nil {
		return nil, ErrArchiveUnavailable
	}
	fields, err := s.redis.HGetAll(ctx, CasterCounterKey(caster)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "caster totals %s", caster)
	}

	totals := &models.CasterTotals{Caster: caster}
	parse := func(name string) int64 {
		n, _ := strconv.ParseInt(fields[name], 10, 64)
		return n
	}
	totals.Damage = parse(CounterDamage)
	totals.Hits = parse(CounterHits)
	totals.Crits = parse(CounterCrits)
	totals.Heavies = parse(CounterHeavies)
	return totals, nil
}
