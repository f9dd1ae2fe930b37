package logic

import (
	"cmp"
	"slices"

	"github.com/tldps/stats-api/internal/models"
)

// BuildDPSSeries builds one cumulative DPS curve per caster.
//
// Sampling is sparse: an event at ts falls into bucket k = ceil(ts-start),
// the one-second window (start+k-1, start+k], and one point is emitted per
// non-empty bucket. The last point is pinned to the caster's final event so
// its DPS equals the caster's PlayerStats DPS.
func BuildDPSSeries(events []models.DamageEvent) []models.PlayerDPSData {
	groups := groupBySource(sortedCopy(events))

	series := make([]models.PlayerDPSData, 0, len(groups))
	for name, casterEvents := range groups {
		series = append(series, buildCasterSeries(name, casterEvents))
	}

	slices.SortFunc(series, func(a, b models.PlayerDPSData) int {
		if c := cmp.Compare(float64(b.TotalDamage)/b.Duration, float64(a.TotalDamage)/a.Duration); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerName, b.PlayerName)
	})
	return series
}

// buildCasterSeries expects a non-empty, time-ordered slice for one caster.
func buildCasterSeries(name string, events []models.DamageEvent) models.PlayerDPSData {
	start := events[0].Timestamp
	end := events[len(events)-1].Timestamp
	startMs := toMillis(start)
	intervalMs := int64(SampleInterval * 1000)

	points := make([]models.DPSDataPoint, 0, len(events))
	var cumulative, bucketDamage int64
	bucket := int64(-1)

	emit := func(last bool) {
		rel := float64(bucket) * SampleInterval
		actual := start + rel
		if last {
			rel, actual = end-start, end
		}
		points = append(points, models.DPSDataPoint{
			Time:       rel,
			ActualTime: actual,
			DPS:        float64(cumulative) / max(rel, MinDuration),
			InstantDPS: float64(bucketDamage) / SampleInterval,
		})
	}

	for _, e := range events {
		offset := toMillis(e.Timestamp) - startMs
		k := (offset + intervalMs - 1) / intervalMs
		if k != bucket && bucket >= 0 {
			emit(false)
			bucketDamage = 0
		}
		bucket = k
		cumulative += e.Damage
		bucketDamage += e.Damage
	}
	emit(true)

	return models.PlayerDPSData{
		PlayerName:     name,
		DataPoints:     points,
		TotalDamage:    cumulative,
		Duration:       activeDuration(start, end),
		TargetSegments: segmentTargets(events),
	}
}

// segmentTargets splits a caster's time-ordered events into engagement
// windows. A new segment starts when the target changes or when the gap since
// the previous hit on the same target exceeds EngagementMergeGap.
func segmentTargets(events []models.DamageEvent) []models.TargetSegment {
	segments := make([]models.TargetSegment, 0, 4)
	for _, e := range events {
		if n := len(segments); n > 0 {
			cur := &segments[n-1]
			if cur.Target == e.Target && e.Timestamp-cur.EndTime <= EngagementMergeGap {
				cur.EndTime = e.Timestamp
				cur.Damage += e.Damage
				cur.Hits++
				continue
			}
		}
		segments = append(segments, models.TargetSegment{
			StartTime: e.Timestamp,
			EndTime:   e.Timestamp,
			Target:    e.Target,
			Damage:    e.Damage,
			Hits:      1,
		})
	}
	return segments
}

// EngagementTimeline merges every caster's segments into one chronological
// view of which target the group was fighting. Segments on the same target
// that overlap or sit within EngagementMergeGap of each other are combined.
func EngagementTimeline(series []models.PlayerDPSData) []models.TargetSegment {
	var all []models.TargetSegment
	for _, s := range series {
		all = append(all, s.TargetSegments...)
	}

	slices.SortFunc(all, func(a, b models.TargetSegment) int {
		if c := cmp.Compare(a.Target, b.Target); c != 0 {
			return c
		}
		if c := cmp.Compare(a.StartTime, b.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.EndTime, b.EndTime)
	})

	merged := make([]models.TargetSegment, 0, len(all))
	for _, seg := range all {
		if n := len(merged); n > 0 {
			cur := &merged[n-1]
			if cur.Target == seg.Target && seg.StartTime-cur.EndTime <= EngagementMergeGap {
				cur.EndTime = max(cur.EndTime, seg.EndTime)
				cur.Damage += seg.Damage
				cur.Hits += seg.Hits
				continue
			}
		}
		merged = append(merged, seg)
	}

	slices.SortFunc(merged, func(a, b models.TargetSegment) int {
		if c := cmp.Compare(a.StartTime, b.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.Target, b.Target)
	})
	return merged
}
