package logic

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tldps/stats-api/internal/models"
)

// ShareIDLength is the number of UUID characters kept as a share id.
const ShareIDLength = 8

const (
	shareCachePrefix = "share:"
	maxIDAttempts    = 3
)

var (
	ErrShareNotFound = errors.New("share not found")
	ErrShareExists   = errors.New("share id already exists")
)

// NewShareID returns a short random id.
func NewShareID() string {
	return uuid.NewString()[:ShareIDLength]
}

// ShareServiceConfig wires a share service.
type ShareServiceConfig struct {
	Store    ShareStore
	Cache    RedisClient
	CacheTTL time.Duration
	Logger   *zap.Logger
}

type shareService struct {
	store    ShareStore
	cache    RedisClient
	cacheTTL time.Duration
	logger   *zap.SugaredLogger
	newID    func() string
	now      func() time.Time
}

func NewShareService(cfg ShareServiceConfig) ShareService {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	return &shareService{
		store:    cfg.Store,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		logger:   cfg.Logger.Sugar(),
		newID:    NewShareID,
		now:      time.Now,
	}
}

// Create stores a snapshot under a fresh id, retrying on id collisions.
func (s *shareService) Create(ctx context.Context, req *models.ShareRequest) (*models.Share, error) {
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		share := models.NewShare(s.newID(), req, s.now())
		err := s.store.Save(ctx, share)
		if errors.Is(err, ErrShareExists) {
			s.logger.Warnw("Share id collision, retrying", "shareId", share.ShareID, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "save share")
		}

		s.cachePut(ctx, share)
		s.logger.Infow("Share created", "shareId", share.ShareID, "player", share.PlayerName, "events", len(share.LogData))
		return share, nil
	}
	return nil, errors.Wrapf(ErrShareExists, "after %d attempts", maxIDAttempts)
}

// Get returns a snapshot, consulting the cache first when one is configured.
func (s *shareService) Get(ctx context.Context, shareID string) (*models.Share, error) {
	if share := s.cacheGet(ctx, shareID); share != nil {
		return share, nil
	}

	share, err := s.store.Load(ctx, shareID)
	if err != nil {
		return nil, err
	}
	s.cachePut(ctx, share)
	return share, nil
}

func (s *shareService) cacheGet(ctx context.Context, shareID string) *models.Share {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, shareCachePrefix+shareID).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warnw("Share cache read failed", "shareId", shareID, "error", err)
		}
		shareCacheHits.WithLabelValues("miss").Inc()
		return nil
	}

	var share models.Share
	if err := jsoniter.Unmarshal(raw, &share); err != nil {
		s.logger.Warnw("Share cache entry unreadable", "shareId", shareID, "error", err)
		shareCacheHits.WithLabelValues("miss").Inc()
		return nil
	}
	shareCacheHits.WithLabelValues("hit").Inc()
	return &share
}

func (s *shareService) cachePut(ctx context.Context, share *models.Share) {
	if s.cache == nil {
		return
	}
	raw, err := jsoniter.Marshal(share)
	if err != nil {
		s.logger.Warnw("Share cache encode failed", "shareId", share.ShareID, "error", err)
		return
	}
	if err := s.cache.Set(ctx, shareCachePrefix+share.ShareID, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warnw("Share cache write failed", "shareId", share.ShareID, "error", err)
	}
}

// MemoryShareStore keeps snapshots in process memory. Used in development and
// tests.
type MemoryShareStore struct {
	mu     sync.RWMutex
	shares map[string]*models.Share
}

func NewMemoryShareStore() *MemoryShareStore {
	return &MemoryShareStore{shares: make(map[string]*models.Share)}
}

func (m *MemoryShareStore) Save(ctx context.Context, share *models.Share) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shares[share.ShareID]; ok {
		return ErrShareExists
	}
	cp := *share
	m.shares[share.ShareID] = &cp
	return nil
}

func (m *MemoryShareStore) Load(ctx context.Context, shareID string) (*models.Share, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	share, ok := m.shares[shareID]
	if !ok {
		return nil, ErrShareNotFound
	}
	cp := *share
	return &cp, nil
}

// encodeLogData serializes events for a text column.
func encodeLogData(events []models.DamageEvent) (string, error) {
	if events == nil {
		events = []models.DamageEvent{}
	}
	return jsoniter.MarshalToString(events)
}

func decodeLogData(raw string) ([]models.DamageEvent, error) {
	events := []models.DamageEvent{}
	if raw == "" {
		return events, nil
	}
	if err := jsoniter.UnmarshalFromString(raw, &events); err != nil {
		return nil, errors.Wrap(err, "decode log data")
	}
	return events, nil
}
