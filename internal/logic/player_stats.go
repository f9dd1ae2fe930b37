package logic

import (
	"cmp"
	"slices"

	"github.com/influxdata/tdigest"

	"github.com/tldps/stats-api/internal/models"
)

// digestCompression trades t-digest size for quantile accuracy.
const digestCompression = 100

// AggregatePlayers computes one PlayerStats per caster, ordered by DPS
// descending and then by name.
func AggregatePlayers(events []models.DamageEvent) []models.PlayerStats {
	type acc struct {
		total   int64
		hits    int
		maxHit  int64
		start   float64
		end     float64
		started bool
	}

	accs := make(map[string]*acc)
	for _, e := range events {
		a, ok := accs[e.Source]
		if !ok {
			a = &acc{}
			accs[e.Source] = a
		}
		a.total += e.Damage
		a.hits++
		if e.Damage > a.maxHit {
			a.maxHit = e.Damage
		}
		if !a.started || e.Timestamp < a.start {
			a.start = e.Timestamp
		}
		if !a.started || e.Timestamp > a.end {
			a.end = e.Timestamp
		}
		a.started = true
	}

	stats := make([]models.PlayerStats, 0, len(accs))
	for name, a := range accs {
		duration := activeDuration(a.start, a.end)
		ps := models.PlayerStats{
			Name:            name,
			TotalDamage:     a.total,
			DamagePerSecond: float64(a.total) / duration,
			HitCount:        a.hits,
			MaxHit:          a.maxHit,
			StartTime:       a.start,
			EndTime:         a.end,
			Duration:        duration,
		}
		if a.hits > 0 {
			ps.AverageDamage = float64(a.total) / float64(a.hits)
		}
		stats = append(stats, ps)
	}

	slices.SortFunc(stats, func(a, b models.PlayerStats) int {
		if c := cmp.Compare(b.DamagePerSecond, a.DamagePerSecond); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return stats
}

// AggregateHitDistribution estimates per-caster hit damage quantiles.
// Damages are fed to the digest in ascending order so the estimate does not
// depend on input order.
func AggregateHitDistribution(events []models.DamageEvent) []models.HitDistribution {
	damages := make(map[string][]int64)
	for _, e := range events {
		damages[e.Source] = append(damages[e.Source], e.Damage)
	}

	out := make([]models.HitDistribution, 0, len(damages))
	for caster, values := range damages {
		slices.Sort(values)

		td := tdigest.NewWithCompression(digestCompression)
		for _, v := range values {
			td.Add(float64(v), 1)
		}

		out = append(out, models.HitDistribution{
			Caster: caster,
			Hits:   len(values),
			Min:    values[0],
			P50:    td.Quantile(0.5),
			P90:    td.Quantile(0.9),
			P99:    td.Quantile(0.99),
			Max:    values[len(values)-1],
		})
	}

	slices.SortFunc(out, func(a, b models.HitDistribution) int {
		return cmp.Compare(a.Caster, b.Caster)
	})
	return out
}
