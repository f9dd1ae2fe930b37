package logic

import (
	"cmp"
	"math"
	"slices"

	"github.com/tldps/stats-api/internal/models"
)

const (
	// MinDuration is the floor applied to every active window, in seconds.
	MinDuration = 1.0

	// SampleInterval is the DPS series bucket width, in seconds.
	SampleInterval = 1.0

	// EngagementMergeGap is the largest pause, in seconds, between two hits
	// on the same target that still counts as one engagement.
	EngagementMergeGap = 60.0
)

// activeDuration is end-start floored at MinDuration.
func activeDuration(start, end float64) float64 {
	d := end - start
	if d < MinDuration {
		return MinDuration
	}
	return d
}

// compareEvents is a total order over events so that any permutation of the
// input produces the same aggregates.
func compareEvents(a, b models.DamageEvent) int {
	if c := cmp.Compare(a.Timestamp, b.Timestamp); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Source, b.Source); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Target, b.Target); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Action, b.Action); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Damage, b.Damage); c != 0 {
		return c
	}
	if c := cmp.Compare(boolRank(a.IsCritical), boolRank(b.IsCritical)); c != 0 {
		return c
	}
	return cmp.Compare(boolRank(a.IsHeavyHit), boolRank(b.IsHeavyHit))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// sortedCopy returns events ordered by compareEvents without touching the input.
func sortedCopy(events []models.DamageEvent) []models.DamageEvent {
	out := slices.Clone(events)
	slices.SortFunc(out, compareEvents)
	return out
}

// groupBySource splits time-ordered events per caster, preserving order.
func groupBySource(sorted []models.DamageEvent) map[string][]models.DamageEvent {
	groups := make(map[string][]models.DamageEvent)
	for _, e := range sorted {
		groups[e.Source] = append(groups[e.Source], e)
	}
	return groups
}

// toMillis converts absolute seconds to integer milliseconds.
func toMillis(ts float64) int64 {
	return int64(math.Round(ts * 1000))
}

// FilterWindow keeps the events inside w. An open window returns events as is.
func FilterWindow(events []models.DamageEvent, w models.TimeWindow) []models.DamageEvent {
	if w.IsOpen() {
		return events
	}
	out := make([]models.DamageEvent, 0, len(events))
	for _, e := range events {
		if w.Contains(e.Timestamp) {
			out = append(out, e)
		}
	}
	return out
}
