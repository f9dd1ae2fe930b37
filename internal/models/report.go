package models

// TimeWindow restricts analysis to events with From <= timestamp <= To.
// A zero bound is open.
type TimeWindow struct {
	From float64 `json:"from,omitempty"`
	To   float64 `json:"to,omitempty"`
}

// Contains reports whether ts falls inside the window.
func (w TimeWindow) Contains(ts float64) bool {
	if w.From > 0 && ts < w.From {
		return false
	}
	if w.To > 0 && ts > w.To {
		return false
	}
	return true
}

// IsOpen reports whether the window has no bounds.
func (w TimeWindow) IsOpen() bool {
	return w.From <= 0 && w.To <= 0
}

// AnalysisSummary holds encounter-wide totals.
type AnalysisSummary struct {
	Events      int     `json:"events"`
	Casters     int     `json:"casters"`
	Targets     int     `json:"targets"`
	Skills      int     `json:"skills"`
	TotalDamage int64   `json:"totalDamage"`
	StartTime   float64 `json:"startTime"`
	EndTime     float64 `json:"endTime"`
	Duration    float64 `json:"duration"`
}

// AnalysisReport bundles every aggregate computed for one event set.
type AnalysisReport struct {
	Summary         AnalysisSummary   `json:"summary"`
	Window          TimeWindow        `json:"window"`
	Players         []PlayerStats     `json:"players"`
	DPSSeries       []PlayerDPSData   `json:"dpsSeries"`
	Timeline        []TargetSegment   `json:"timeline"`
	SkillDamage     []SkillDamage     `json:"skillDamage"`
	SkillBreakdown  []SkillBreakdown  `json:"skillBreakdown"`
	SkillHitRates   []SkillHitRate    `json:"skillHitRates"`
	DamageByTarget  []TargetDamage    `json:"damageByTarget"`
	HitDistribution []HitDistribution `json:"hitDistribution"`
}

// ParseSummary reports what a parse accepted and dropped.
type ParseSummary struct {
	Lines   int `json:"lines"`
	Events  int `json:"events"`
	Skipped int `json:"skipped"`
	Misses  int `json:"misses"`
}
