package logic

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/tldps/stats-api/internal/models"
)

// Drivers accepted by SQLShareStore.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

const mysqlDuplicateEntry = 1062

var sqlShareSchema = map[string]string{
	DriverMySQL: `
CREATE TABLE IF NOT EXISTS shared_logs (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	share_id VARCHAR(8) NOT NULL UNIQUE,
	player_name VARCHAR(255) NOT NULL,
	total_damage BIGINT NOT NULL,
	damage_per_second DOUBLE NOT NULL,
	duration DOUBLE NOT NULL,
	log_timestamp BIGINT NOT NULL,
	log_data LONGTEXT NOT NULL,
	created_at DATETIME(3) NOT NULL
)`,
	DriverPostgres: pgShareSchema,
}

// SQLShareStore persists snapshots through database/sql, for deployments
// that run MySQL or want lib/pq instead of a pgx pool.
type SQLShareStore struct {
	db     *sql.DB
	driver string
}

// OpenSQLShareStore opens a database/sql handle for driver.
func OpenSQLShareStore(driver, dsn string) (*SQLShareStore, error) {
	if _, ok := sqlShareSchema[driver]; !ok {
		return nil, fmt.Errorf("unsupported share store driver: %s", driver)
	}
	if driver == DriverMySQL {
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, errors.Wrap(err, "parse mysql dsn")
		}
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", driver)
	}
	return NewSQLShareStore(db, driver), nil
}

func NewSQLShareStore(db *sql.DB, driver string) *SQLShareStore {
	return &SQLShareStore{db: db, driver: driver}
}

func (s *SQLShareStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLShareStore) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the shared_logs table if needed.
func (s *SQLShareStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqlShareSchema[s.driver]); err != nil {
		return errors.Wrap(err, "create shared_logs")
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLShareStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&sb, "$%d", n)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (s *SQLShareStore) Save(ctx context.Context, share *models.Share) error {
	logData, err := encodeLogData(share.LogData)
	if err != nil {
		return errors.Wrap(err, "encode log data")
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO shared_logs (share_id, player_name, total_damage, damage_per_second, duration, log_timestamp, log_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		share.ShareID, share.PlayerName, share.TotalDamage, share.DamagePerSecond,
		share.Duration, share.Timestamp, logData, share.CreatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrShareExists
		}
		return errors.Wrapf(err, "insert share %s", share.ShareID)
	}
	return nil
}

func (s *SQLShareStore) Load(ctx context.Context, shareID string) (*models.Share, error) {
	share := &models.Share{ShareID: shareID}
	var logData string
	var createdAt time.Time

	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT player_name, total_damage, damage_per_second, duration, log_timestamp, log_data, created_at
		FROM shared_logs WHERE share_id = ?`), shareID,
	).Scan(&share.PlayerName, &share.TotalDamage, &share.DamagePerSecond,
		&share.Duration, &share.Timestamp, &logData, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load share %s", shareID)
	}

	share.CreatedAt = createdAt.UTC()
	if share.LogData, err = decodeLogData(logData); err != nil {
		return nil, err
	}
	return share, nil
}

func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	return false
}
