package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tldps/stats-api/internal/logic"
	"github.com/tldps/stats-api/internal/models"
)

const testLog = `CombatLogVersion,4
20250101-10:00:00:000,DamageDone,Fireball,1,100,0,0,kHit,Alice,Dummy
20250101-10:00:01:000,DamageDone,Fireball,1,50,1,0,kHit,Alice,Dummy
20250101-10:00:01:000,DamageDone,Slash,2,0,0,0,kMiss,Alice,Dummy
`

// Mocks

type MockIngestQueue struct {
	mu          sync.Mutex
	EnqueueFunc func(event *models.DamageEvent, batchID uuid.UUID) bool
	Events      []models.DamageEvent
	BatchIDs    map[uuid.UUID]int
	Depth       int
}

func (m *MockIngestQueue) Enqueue(event *models.DamageEvent, batchID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EnqueueFunc != nil && !m.EnqueueFunc(event, batchID) {
		return false
	}
	if m.BatchIDs == nil {
		m.BatchIDs = make(map[uuid.UUID]int)
	}
	m.Events = append(m.Events, *event)
	m.BatchIDs[batchID]++
	return true
}

func (m *MockIngestQueue) QueueDepth() int { return m.Depth }

type MockShareService struct {
	CreateFunc func(ctx context.Context, req *models.ShareRequest) (*models.Share, error)
	GetFunc    func(ctx context.Context, shareID string) (*models.Share, error)
}

func (m *MockShareService) Create(ctx context.Context, req *models.ShareRequest) (*models.Share, error) {
	return m.CreateFunc(ctx, req)
}

func (m *MockShareService) Get(ctx context.Context, shareID string) (*models.Share, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, shareID)
	}
	return nil, logic.ErrShareNotFound
}

type MockArchiveService struct {
	QueryFunc        func(ctx context.Context, req logic.ArchiveQueryRequest) ([]models.ArchiveRow, error)
	CasterTotalsFunc func(ctx context.Context, caster string) (*models.CasterTotals, error)
	LastRequest      logic.ArchiveQueryRequest
}

func (m *MockArchiveService) Query(ctx context.Context, req logic.ArchiveQueryRequest) ([]models.ArchiveRow, error) {
	m.LastRequest = req
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, req)
	}
	return []models.ArchiveRow{}, nil
}

func (m *MockArchiveService) CasterTotals(ctx context.Context, caster string) (*models.CasterTotals, error) {
	if m.CasterTotalsFunc != nil {
		return m.CasterTotalsFunc(ctx, caster)
	}
	return &models.CasterTotals{Caster: caster}, nil
}

type MockCaptcha struct {
	OK       bool
	Err      error
	LastAddr string
}

func (m *MockCaptcha) Verify(remoteAddr, token string) (bool, error) {
	m.LastAddr = remoteAddr
	return m.OK, m.Err
}

// Helpers

func newTestHandler(cfg Config) *Handler {
	cfg.Logger = zap.NewNop()
	return New(cfg)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
