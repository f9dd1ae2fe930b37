package models

// PlayerStats summarizes one caster's damage over their own active window.
type PlayerStats struct {
	Name            string  `json:"name"`
	TotalDamage     int64   `json:"totalDamage"`
	DamagePerSecond float64 `json:"damagePerSecond"`
	HitCount        int     `json:"hitCount"`
	AverageDamage   float64 `json:"averageDamage"`
	MaxHit          int64   `json:"maxHit"`
	StartTime       float64 `json:"startTime"`
	EndTime         float64 `json:"endTime"`
	Duration        float64 `json:"duration"`
}

// HitDistribution holds approximate per-hit damage quantiles for a caster.
type HitDistribution struct {
	Caster string  `json:"caster"`
	Hits   int     `json:"hits"`
	Min    int64   `json:"min"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
	Max    int64   `json:"max"`
}
