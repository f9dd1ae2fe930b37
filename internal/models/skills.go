package models

// HitCounts partitions hits and damage into the four hit categories.
// Every event lands in exactly one bucket.
type HitCounts struct {
	TotalHits         int   `json:"totalHits"`
	NormalHits        int   `json:"normalHits"`
	CriticalHits      int   `json:"criticalHits"`
	HeavyHits         int   `json:"heavyHits"`
	HeavyCriticalHits int   `json:"heavyCriticalHits"`
	TotalDamage       int64 `json:"totalDamage"`
	NormalDamage      int64 `json:"normalDamage"`
	CriticalDamage    int64 `json:"criticalDamage"`
	HeavyDamage       int64 `json:"heavyDamage"`
	HeavyCritDamage   int64 `json:"heavyCriticalDamage"`
}

// Add records one event in the matching category.
func (c *HitCounts) Add(e DamageEvent) {
	c.TotalHits++
	c.TotalDamage += e.Damage
	switch e.Category() {
	case HitHeavyCritical:
		c.HeavyCriticalHits++
		c.HeavyCritDamage += e.Damage
	case HitCritical:
		c.CriticalHits++
		c.CriticalDamage += e.Damage
	case HitHeavy:
		c.HeavyHits++
		c.HeavyDamage += e.Damage
	default:
		c.NormalHits++
		c.NormalDamage += e.Damage
	}
}

// Rates returns the percentage of hits in each category. All four are 0
// when there are no hits.
func (c HitCounts) Rates() HitRates {
	if c.TotalHits == 0 {
		return HitRates{}
	}
	total := float64(c.TotalHits)
	return HitRates{
		NormalHitRate:        float64(c.NormalHits) / total * 100,
		CriticalHitRate:      float64(c.CriticalHits) / total * 100,
		HeavyHitRate:         float64(c.HeavyHits) / total * 100,
		HeavyCriticalHitRate: float64(c.HeavyCriticalHits) / total * 100,
	}
}

// HitRates are category shares in percent.
type HitRates struct {
	NormalHitRate        float64 `json:"normalHitRate"`
	CriticalHitRate      float64 `json:"criticalHitRate"`
	HeavyHitRate         float64 `json:"heavyHitRate"`
	HeavyCriticalHitRate float64 `json:"heavyCriticalHitRate"`
}

// SkillDamage is total damage dealt by one skill across all casters.
type SkillDamage struct {
	Skill    string `json:"skill"`
	Damage   int64  `json:"damage"`
	Hits     int    `json:"hits"`
	Category string `json:"category,omitempty"`
}

// SkillBreakdown is the hit-type split for one skill.
type SkillBreakdown struct {
	Skill string `json:"skill"`
	HitCounts
	HitRates
}

// SkillHitRate is the hit-type split for one skill of one caster.
type SkillHitRate struct {
	Caster string `json:"caster"`
	Skill  string `json:"skill"`
	HitCounts
	HitRates
}

// TargetDamage groups damage received by one target.
type TargetDamage struct {
	Target  string         `json:"target"`
	Damage  int64          `json:"damage"`
	Hits    int            `json:"hits"`
	Casters []CasterDamage `json:"casters"`
}

// CasterDamage is one caster's contribution against a target. Duration is
// the pair's own active window, floored at one second.
type CasterDamage struct {
	Caster    string        `json:"caster"`
	Damage    int64         `json:"damage"`
	Hits      int           `json:"hits"`
	StartTime float64       `json:"startTime"`
	EndTime   float64       `json:"endTime"`
	Duration  float64       `json:"duration"`
	DPS       float64       `json:"dps"`
	Skills    []TargetSkill `json:"skills"`
}

// TargetSkill is the hit-type split for one skill of one caster against one
// target.
type TargetSkill struct {
	Skill string `json:"skill"`
	HitCounts
	HitRates
}
