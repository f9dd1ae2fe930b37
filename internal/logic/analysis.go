package logic

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tldps/stats-api/internal/models"
)

// AnalyzeOptions tunes one analysis run.
type AnalyzeOptions struct {
	Window  models.TimeWindow
	Catalog *SkillCatalog
}

type analysisService struct {
	catalog *SkillCatalog
	logger  *zap.SugaredLogger
}

// NewAnalysisService returns an AnalysisService. catalog may be nil; it is
// used when a call does not supply its own.
func NewAnalysisService(catalog *SkillCatalog, logger *zap.Logger) AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &analysisService{catalog: catalog, logger: logger.Sugar()}
}

func (s *analysisService) Analyze(ctx context.Context, events []models.DamageEvent, opts AnalyzeOptions) (*models.AnalysisReport, error) {
	if opts.Catalog == nil {
		opts.Catalog = s.catalog
	}
	start := time.Now()
	report, err := Analyze(ctx, events, opts)
	if err != nil {
		s.logger.Warnw("Analysis aborted", "events", len(events), "error", err)
		return nil, err
	}
	s.logger.Debugw("Analysis complete",
		"events", report.Summary.Events,
		"casters", report.Summary.Casters,
		"duration", time.Since(start),
	)
	return report, nil
}

// Analyze runs every aggregator over the events inside opts.Window. The
// aggregators share the filtered slice read-only and run concurrently. If
// ctx is cancelled the whole report is discarded.
func Analyze(ctx context.Context, events []models.DamageEvent, opts AnalyzeOptions) (*models.AnalysisReport, error) {
	timer := time.Now()
	defer func() { analysisDuration.Observe(time.Since(timer).Seconds()) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered := FilterWindow(events, opts.Window)
	report := &models.AnalysisReport{
		Window:  opts.Window,
		Summary: summarize(filtered),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		report.Players = AggregatePlayers(filtered)
		return ctx.Err()
	})

	g.Go(func() error {
		series := BuildDPSSeries(filtered)
		if err := ctx.Err(); err != nil {
			return err
		}
		report.DPSSeries = series
		report.Timeline = EngagementTimeline(series)
		return nil
	})

	g.Go(func() error {
		report.SkillDamage = AggregateSkillDamage(filtered)
		opts.Catalog.Annotate(report.SkillDamage)
		return ctx.Err()
	})

	g.Go(func() error {
		report.SkillBreakdown = AggregateSkillBreakdown(filtered)
		return ctx.Err()
	})

	g.Go(func() error {
		report.SkillHitRates = AggregateSkillHitRates(filtered)
		return ctx.Err()
	})

	g.Go(func() error {
		report.DamageByTarget = AggregateDamageByTarget(filtered)
		return ctx.Err()
	})

	g.Go(func() error {
		report.HitDistribution = AggregateHitDistribution(filtered)
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	return report, nil
}

func summarize(events []models.DamageEvent) models.AnalysisSummary {
	s := models.AnalysisSummary{Events: len(events)}
	if len(events) == 0 {
		return s
	}

	casters := make(map[string]struct{})
	targets := make(map[string]struct{})
	skills := make(map[string]struct{})
	s.StartTime, s.EndTime = events[0].Timestamp, events[0].Timestamp
	for _, e := range events {
		s.TotalDamage += e.Damage
		casters[e.Source] = struct{}{}
		targets[e.Target] = struct{}{}
		skills[e.Action] = struct{}{}
		s.StartTime = min(s.StartTime, e.Timestamp)
		s.EndTime = max(s.EndTime, e.Timestamp)
	}
	s.Casters = len(casters)
	s.Targets = len(targets)
	s.Skills = len(skills)
	s.Duration = activeDuration(s.StartTime, s.EndTime)
	return s
}
