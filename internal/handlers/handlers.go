package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/tldps/stats-api/internal/logic"
	"github.com/tldps/stats-api/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultMaxUploadBytes caps uploaded combat logs and share snapshots.
const DefaultMaxUploadBytes = 50 << 20

// IngestQueue defines the interface for the event archiving worker pool
type IngestQueue interface {
	Enqueue(event *models.DamageEvent, batchID uuid.UUID) bool
	QueueDepth() int
}

// Check is a named backend probe used by Ready and InstallSchema.
type Check func(ctx context.Context) error

type Config struct {
	WorkerPool IngestQueue
	Logger     *zap.Logger
	// Services
	Parser   *logic.Parser
	Analysis logic.AnalysisService
	Share    logic.ShareService
	Archive  logic.ArchiveService
	Captcha  CaptchaVerifier

	// ReadyChecks are pinged by /ready, keyed by backend name.
	ReadyChecks map[string]Check
	// Schemas create backend tables, keyed by backend name.
	Schemas map[string]Check

	BaseURL        string
	IngestToken    string
	MaxUploadBytes int64
}

type Handler struct {
	pool            IngestQueue
	logger          *zap.SugaredLogger
	validator       *validator.Validate
	parser          *logic.Parser
	analysis        logic.AnalysisService
	share           logic.ShareService
	archive         logic.ArchiveService
	captcha         CaptchaVerifier
	readyChecks     map[string]Check
	schemas         map[string]Check
	baseURL         string
	ingestTokenHash string
	maxUpload       int64
}

func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Parser == nil {
		cfg.Parser = logic.NewParser(cfg.Logger)
	}
	if cfg.Analysis == nil {
		cfg.Analysis = logic.NewAnalysisService(nil, cfg.Logger)
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}

	h := &Handler{
		pool:        cfg.WorkerPool,
		logger:      cfg.Logger.Sugar(),
		validator:   validator.New(),
		parser:      cfg.Parser,
		analysis:    cfg.Analysis,
		share:       cfg.Share,
		archive:     cfg.Archive,
		captcha:     cfg.Captcha,
		readyChecks: cfg.ReadyChecks,
		schemas:     cfg.Schemas,
		baseURL:     cfg.BaseURL,
		maxUpload:   cfg.MaxUploadBytes,
	}
	if cfg.IngestToken != "" {
		h.ingestTokenHash = hashToken(cfg.IngestToken)
	}
	return h
}
