package logic

import (
	"context"
	"reflect"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// MockConn implements driver.Conn for testing
type MockConn struct {
	driver.Conn
	QueryFunc  func(ctx context.Context, query string, args ...interface{}) (driver.Rows, error)
	QueryCalls int
	LastQuery  string
	LastArgs   []interface{}
}

func (m *MockConn) Query(ctx context.Context, query string, args ...interface{}) (driver.Rows, error) {
	m.QueryCalls++
	m.LastQuery = query
	m.LastArgs = args
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, query, args...)
	}
	return &MockRows{}, nil
}

// MockRows implements driver.Rows for testing
type MockRows struct {
	driver.Rows
	Data  [][]interface{}
	Index int
}

func (m *MockRows) Next() bool {
	m.Index++
	return m.Index <= len(m.Data)
}

func (m *MockRows) Scan(dest ...interface{}) error {
	if m.Index > len(m.Data) {
		return nil
	}
	row := m.Data[m.Index-1]
	for i, val := range row {
		if i < len(dest) {
			setDest(dest[i], val)
		}
	}
	return nil
}

func (m *MockRows) Close() error { return nil }
func (m *MockRows) Err() error   { return nil }

func setDest(dest interface{}, val interface{}) {
	v := reflect.ValueOf(dest).Elem()
	valV := reflect.ValueOf(val)
	// Handle type conversion if needed (e.g. int to int64)
	if valV.Type().ConvertibleTo(v.Type()) {
		v.Set(valV.Convert(v.Type()))
	} else {
		v.Set(valV)
	}
}

// MockPgPool implements PgPool for testing
type MockPgPool struct {
	ExecFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	ExecCalls    int
}

func (m *MockPgPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *MockPgPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, sql, args...)
	}
	return &MockPgRow{Err: pgx.ErrNoRows}
}

func (m *MockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.ExecCalls++
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

// MockPgRow implements pgx.Row
type MockPgRow struct {
	Values []interface{}
	Err    error
}

func (r *MockPgRow) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	for i, val := range r.Values {
		if i < len(dest) {
			setDest(dest[i], val)
		}
	}
	return nil
}

// MockRedis implements RedisClient over in-memory maps
type MockRedis struct {
	Strings map[string]string
	Hashes  map[string]map[string]string
	TTLs    map[string]time.Duration
	GetErr  error
}

func NewMockRedis() *MockRedis {
	return &MockRedis{
		Strings: make(map[string]string),
		Hashes:  make(map[string]map[string]string),
		TTLs:    make(map[string]time.Duration),
	}
}

func (m *MockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	if m.GetErr != nil {
		cmd.SetErr(m.GetErr)
		return cmd
	}
	val, ok := m.Strings[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (m *MockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)
	switch v := value.(type) {
	case []byte:
		m.Strings[key] = string(v)
	case string:
		m.Strings[key] = v
	}
	m.TTLs[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (m *MockRedis) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	cmd := redis.NewMapStringStringCmd(ctx, "hgetall", key)
	fields := m.Hashes[key]
	if fields == nil {
		fields = map[string]string{}
	}
	cmd.SetVal(fields)
	return cmd
}
