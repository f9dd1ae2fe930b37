// Package worker implements the buffered worker pool that archives ingested
// combat events. It decouples HTTP ingest from database writes, providing:
// - Backpressure handling via load shedding
// - Batch inserts for efficient ClickHouse writes
// - Per-caster running totals in Redis
// - Graceful shutdown with flush guarantees
package worker

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tldps/stats-api/internal/logic"
	"github.com/tldps/stats-api/internal/models"
)

// Prometheus metrics
var (
	eventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tldps_events_ingested_total",
		Help: "Total number of combat events accepted for archiving",
	})

	eventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tldps_events_processed_total",
		Help: "Total number of combat events archived by workers",
	})

	eventsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tldps_events_failed_total",
		Help: "Total number of combat events that failed archiving",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tldps_worker_queue_depth",
		Help: "Current depth of the worker queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tldps_batch_insert_duration_seconds",
		Help:    "Duration of batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})

	eventsLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tldps_events_load_shed_total",
		Help: "Total number of events dropped due to load shedding",
	})
)

// maxNameBytes bounds caster, target and skill names written to the archive.
const maxNameBytes = 255

const insertEventsSQL = `
	INSERT INTO ` + logic.ArchiveTable + ` (
		timestamp, batch_id, source, action, target,
		damage, hit_type, is_critical, is_heavy_hit
	)`

// ArchiveSchema creates the event archive table.
const ArchiveSchema = `
CREATE TABLE IF NOT EXISTS ` + logic.ArchiveTable + ` (
	timestamp    DateTime64(3, 'UTC'),
	batch_id     UUID,
	source       LowCardinality(String),
	action       LowCardinality(String),
	target       LowCardinality(String),
	damage       UInt64,
	hit_type     LowCardinality(String),
	is_critical  UInt8,
	is_heavy_hit UInt8
) ENGINE = MergeTree
PARTITION BY toYYYYMM(timestamp)
ORDER BY (source, timestamp)`

// EnsureSchema creates the archive table if it does not exist.
func EnsureSchema(ctx context.Context, conn driver.Conn) error {
	if err := conn.Exec(ctx, "CREATE DATABASE IF NOT EXISTS tldps"); err != nil {
		return errors.Wrap(err, "create database")
	}
	if err := conn.Exec(ctx, ArchiveSchema); err != nil {
		return errors.Wrap(err, "create archive table")
	}
	return nil
}

// Job represents a unit of work for the worker pool
type Job struct {
	Event     *models.DamageEvent
	BatchID   uuid.UUID
	Timestamp time.Time
}

// CounterClient is the subset of the Redis client used for caster totals.
type CounterClient interface {
	Pipeline() redis.Pipeliner
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	ClickHouse    driver.Conn
	Redis         CounterClient
	Logger        *zap.Logger
}

// Pool manages a pool of workers for async event archiving
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
	stopOnce sync.Once
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop gracefully shuts down the worker pool, flushing queued events.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("Stopping worker pool...")
		close(p.jobQueue)
		p.wg.Wait()
		if p.cancel != nil {
			p.cancel()
		}
		p.logger.Info("Worker pool stopped")
	})
}

// Enqueue adds an event to the queue. It never blocks: when the queue is full
// or the pool is stopped the event is shed and false is returned.
func (p *Pool) Enqueue(event *models.DamageEvent, batchID uuid.UUID) (ok bool) {
	job := Job{
		Event:     event,
		BatchID:   batchID,
		Timestamp: time.Now(),
	}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue event (pool stopped)", "error", r)
			eventsLoadShed.Inc()
			ok = false
		}
	}()

	if p.ctx != nil && p.ctx.Err() != nil {
		eventsLoadShed.Inc()
		return false
	}

	select {
	case p.jobQueue <- job:
		eventsIngested.Inc()
		return true
	default:
		eventsLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker archives jobs from the queue in batches
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.processBatch(batch); err != nil {
			p.logger.Errorw("Batch processing failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			eventsFailed.Add(float64(len(batch)))
		} else {
			p.logger.Debugw("Batch archived", "worker", id, "batchSize", len(batch), "duration", time.Since(start))
			eventsProcessed.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-p.ctx.Done():
			flush()
			return
		}
	}
}

// processBatch inserts a batch into ClickHouse, then updates caster totals.
func (p *Pool) processBatch(batch []Job) error {
	if len(batch) == 0 {
		return nil
	}

	ctx := context.Background()

	if p.config.ClickHouse != nil {
		chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, insertEventsSQL)
		if err != nil {
			return errors.Wrap(err, "prepare batch")
		}

		for _, job := range batch {
			row := toArchivedEvent(job)
			err := chBatch.Append(
				row.Timestamp,
				row.BatchID,
				row.Source,
				row.Action,
				row.Target,
				row.Damage,
				row.HitType,
				row.IsCritical,
				row.IsHeavyHit,
			)
			if err != nil {
				p.logger.Warnw("Failed to append event to batch", "error", err, "source", row.Source)
			}
		}

		if err := chBatch.Send(); err != nil {
			return errors.Wrap(err, "send batch")
		}
	}

	p.processBatchSideEffects(ctx, batch)
	return nil
}

// casterDelta is one caster's contribution to a batch.
type casterDelta struct {
	damage  int64
	hits    int64
	crits   int64
	heavies int64
}

// casterDeltas folds a batch into per-caster counter increments.
func casterDeltas(batch []Job) map[string]*casterDelta {
	deltas := make(map[string]*casterDelta)
	for _, job := range batch {
		name := sanitizeName(job.Event.Source)
		if name == "" {
			continue
		}
		d, ok := deltas[name]
		if !ok {
			d = &casterDelta{}
			deltas[name] = d
		}
		d.damage += job.Event.Damage
		d.hits++
		if job.Event.IsCritical {
			d.crits++
		}
		if job.Event.IsHeavyHit {
			d.heavies++
		}
	}
	return deltas
}

// processBatchSideEffects pipelines the per-caster counter increments.
func (p *Pool) processBatchSideEffects(ctx context.Context, batch []Job) {
	if p.config.Redis == nil || len(batch) == 0 {
		return
	}

	pipe := p.config.Redis.Pipeline()
	for caster, d := range casterDeltas(batch) {
		key := logic.CasterCounterKey(caster)
		pipe.HIncrBy(ctx, key, logic.CounterDamage, d.damage)
		pipe.HIncrBy(ctx, key, logic.CounterHits, d.hits)
		if d.crits > 0 {
			pipe.HIncrBy(ctx, key, logic.CounterCrits, d.crits)
		}
		if d.heavies > 0 {
			pipe.HIncrBy(ctx, key, logic.CounterHeavies, d.heavies)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		p.logger.Warnw("Failed to update caster totals", "error", err, "batchSize", len(batch))
	}
}

func toArchivedEvent(job Job) models.ArchivedEvent {
	row := models.NewArchivedEvent(job.Event, job.BatchID, job.Timestamp)
	row.Source = sanitizeName(row.Source)
	row.Target = sanitizeName(row.Target)
	row.Action = sanitizeName(row.Action)
	return row
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}

// sanitizeName strips control characters and surrounding whitespace and
// caps the result at maxNameBytes without splitting a rune.
func sanitizeName(s string) string {
	// Fast path: nothing to strip
	clean := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == 0x7f || c >= utf8.RuneSelf {
			clean = false
			break
		}
	}
	if clean && len(s) <= maxNameBytes && strings.TrimSpace(s) == s {
		return s
	}

	s = strings.Map(func(r rune) rune {
		if r == utf8.RuneError || unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)

	if len(s) > maxNameBytes {
		cut := maxNameBytes
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}
