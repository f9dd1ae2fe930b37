package logic

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/tldps/stats-api/internal/models"
)

const pgUniqueViolation = "23505"

const pgShareSchema = `
CREATE TABLE IF NOT EXISTS shared_logs (
	id SERIAL PRIMARY KEY,
	share_id VARCHAR(8) UNIQUE NOT NULL,
	player_name VARCHAR(255) NOT NULL,
	total_damage BIGINT NOT NULL,
	damage_per_second DOUBLE PRECISION NOT NULL,
	duration DOUBLE PRECISION NOT NULL,
	log_timestamp BIGINT NOT NULL,
	log_data TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresShareStore persists snapshots in PostgreSQL through a pgx pool.
type PostgresShareStore struct {
	pg PgPool
}

func NewPostgresShareStore(pg PgPool) *PostgresShareStore {
	return &PostgresShareStore{pg: pg}
}

// EnsureSchema creates the shared_logs table if needed.
func (s *PostgresShareStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pg.Exec(ctx, pgShareSchema); err != nil {
		return errors.Wrap(err, "create shared_logs")
	}
	return nil
}

func (s *PostgresShareStore) Save(ctx context.Context, share *models.Share) error {
	logData, err := encodeLogData(share.LogData)
	if err != nil {
		return errors.Wrap(err, "encode log data")
	}

	_, err = s.pg.Exec(ctx, `
		INSERT INTO shared_logs (share_id, player_name, total_damage, damage_per_second, duration, log_timestamp, log_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		share.ShareID, share.PlayerName, share.TotalDamage, share.DamagePerSecond,
		share.Duration, share.Timestamp, logData, share.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrShareExists
		}
		return errors.Wrapf(err, "insert share %s", share.ShareID)
	}
	return nil
}

func (s *PostgresShareStore) Load(ctx context.Context, shareID string) (*models.Share, error) {
	share := &models.Share{ShareID: shareID}
	var logData string

	err := s.pg.QueryRow(ctx, `
		SELECT player_name, total_damage, damage_per_second, duration, log_timestamp, log_data, created_at
		FROM shared_logs WHERE share_id = $1`, shareID,
	).Scan(&share.PlayerName, &share.TotalDamage, &share.DamagePerSecond,
		&share.Duration, &share.Timestamp, &logData, &share.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load share %s", shareID)
	}

	if share.LogData, err = decodeLogData(logData); err != nil {
		return nil, err
	}
	return share, nil
}
