package logic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/tldps/stats-api/internal/models"
)

func shareRequest() *models.ShareRequest {
	total := int64(150)
	dps := 150.0
	duration := 1.0
	return &models.ShareRequest{
		PlayerName:      "Alice",
		TotalDamage:     &total,
		DamagePerSecond: &dps,
		Duration:        &duration,
		Timestamp:       1735725600000,
		LogData:         ParseLog(scenarioLog),
	}
}

func TestNewShareID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewShareID()
		if len(id) != ShareIDLength {
			t.Fatalf("id %q has length %d", id, len(id))
		}
		seen[id] = true
	}
	if len(seen) < 95 {
		t.Errorf("ids should be random, got %d distinct of 100", len(seen))
	}
}

func TestShareService_CreateAndGet(t *testing.T) {
	store := NewMemoryShareStore()
	svc := NewShareService(ShareServiceConfig{Store: store, Logger: zap.NewNop()})
	ctx := context.Background()

	share, err := svc.Create(ctx, shareRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(share.ShareID) != ShareIDLength || share.TotalDamage != 150 || share.CreatedAt.IsZero() {
		t.Errorf("share = %+v", share)
	}

	got, err := svc.Get(ctx, share.ShareID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PlayerName != "Alice" || len(got.LogData) != 2 {
		t.Errorf("got = %+v", got)
	}

	if _, err := svc.Get(ctx, "missing1"); !errors.Is(err, ErrShareNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrShareNotFound", err)
	}
}

func TestShareService_RetriesOnCollision(t *testing.T) {
	store := NewMemoryShareStore()
	svc := NewShareService(ShareServiceConfig{Store: store}).(*shareService)

	ids := []string{"aaaaaaaa", "aaaaaaaa", "bbbbbbbb"}
	svc.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	ctx := context.Background()
	if _, err := svc.Create(ctx, shareRequest()); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	second, err := svc.Create(ctx, shareRequest())
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if second.ShareID != "bbbbbbbb" {
		t.Errorf("second id = %q, want retry to bbbbbbbb", second.ShareID)
	}
}

func TestShareService_GivesUpAfterRepeatedCollisions(t *testing.T) {
	store := NewMemoryShareStore()
	svc := NewShareService(ShareServiceConfig{Store: store}).(*shareService)
	svc.newID = func() string { return "samesame" }

	ctx := context.Background()
	if _, err := svc.Create(ctx, shareRequest()); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(ctx, shareRequest()); !errors.Is(err, ErrShareExists) {
		t.Errorf("err = %v, want ErrShareExists", err)
	}
}

func TestShareService_Cache(t *testing.T) {
	store := NewMemoryShareStore()
	cache := NewMockRedis()
	svc := NewShareService(ShareServiceConfig{Store: store, Cache: cache, CacheTTL: time.Minute})
	ctx := context.Background()

	share, err := svc.Create(ctx, shareRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	key := "share:" + share.ShareID
	if _, ok := cache.Strings[key]; !ok {
		t.Fatal("created share should be cached")
	}
	if cache.TTLs[key] != time.Minute {
		t.Errorf("ttl = %v, want 1m", cache.TTLs[key])
	}

	// Served from cache even when the store no longer has it.
	store.shares = map[string]*models.Share{}
	got, err := svc.Get(ctx, share.ShareID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PlayerName != "Alice" || len(got.LogData) != 2 {
		t.Errorf("cached share = %+v", got)
	}
}

func TestShareService_CacheErrorFallsBackToStore(t *testing.T) {
	store := NewMemoryShareStore()
	cache := NewMockRedis()
	cache.GetErr = errors.New("connection refused")
	svc := NewShareService(ShareServiceConfig{Store: store, Cache: cache})
	ctx := context.Background()

	share, err := svc.Create(ctx, shareRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Get(ctx, share.ShareID); err != nil {
		t.Errorf("Get should fall back to the store: %v", err)
	}
}

func TestPostgresShareStore_Save(t *testing.T) {
	var gotArgs []any
	pg := &MockPgPool{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			gotArgs = args
			return pgconn.CommandTag{}, nil
		},
	}
	store := NewPostgresShareStore(pg)
	share := models.NewShare("abcd1234", shareRequest(), time.Now())

	if err := store.Save(context.Background(), share); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(gotArgs) != 8 || gotArgs[0] != "abcd1234" {
		t.Fatalf("args = %v", gotArgs)
	}
	logData, ok := gotArgs[6].(string)
	if !ok || logData == "" || logData[0] != '[' {
		t.Errorf("log data should be stored as a JSON array string, got %v", gotArgs[6])
	}
}

func TestPostgresShareStore_SaveDuplicate(t *testing.T) {
	pg := &MockPgPool{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: pgUniqueViolation}
		},
	}
	err := NewPostgresShareStore(pg).Save(context.Background(), models.NewShare("abcd1234", shareRequest(), time.Now()))
	if !errors.Is(err, ErrShareExists) {
		t.Errorf("err = %v, want ErrShareExists", err)
	}
}

func TestPostgresShareStore_Load(t *testing.T) {
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	pg := &MockPgPool{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			if args[0] != "abcd1234" {
				return &MockPgRow{Err: pgx.ErrNoRows}
			}
			return &MockPgRow{Values: []interface{}{
				"Alice", int64(150), 150.0, 1.0, int64(1735725600000),
				`[{"timestamp":1735725600,"source":"Alice","action":"Fireball","target":"Dummy","damage":100}]`,
				created,
			}}
		},
	}
	store := NewPostgresShareStore(pg)

	share, err := store.Load(context.Background(), "abcd1234")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if share.PlayerName != "Alice" || share.TotalDamage != 150 || !share.CreatedAt.Equal(created) {
		t.Errorf("share = %+v", share)
	}
	if len(share.LogData) != 1 || share.LogData[0].Action != "Fireball" {
		t.Errorf("log data = %+v", share.LogData)
	}

	if _, err := store.Load(context.Background(), "nope0000"); !errors.Is(err, ErrShareNotFound) {
		t.Errorf("missing share err = %v, want ErrShareNotFound", err)
	}
}

func TestSQLShareStore_Rebind(t *testing.T) {
	pg := &SQLShareStore{driver: DriverPostgres}
	if got := pg.rebind("SELECT ? AND ?"); got != "SELECT $1 AND $2" {
		t.Errorf("postgres rebind = %q", got)
	}
	my := &SQLShareStore{driver: DriverMySQL}
	if got := my.rebind("SELECT ? AND ?"); got != "SELECT ? AND ?" {
		t.Errorf("mysql rebind = %q", got)
	}
}

func TestOpenSQLShareStore_UnknownDriver(t *testing.T) {
	if _, err := OpenSQLShareStore("sqlite", "file.db"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestDecodeLogData(t *testing.T) {
	events, err := decodeLogData("")
	if err != nil || events == nil || len(events) != 0 {
		t.Errorf("empty column should decode to empty slice, got %v, %v", events, err)
	}
	if _, err := decodeLogData("{bad"); err == nil {
		t.Error("expected error for corrupt log data")
	}
}
