package logic

import (
	"cmp"
	"slices"

	"github.com/tldps/stats-api/internal/models"
)

// AggregateSkillDamage totals damage per skill across all casters, ordered
// by damage descending.
func AggregateSkillDamage(events []models.DamageEvent) []models.SkillDamage {
	return foldSkills(events)
}

func foldSkills(events []models.DamageEvent) []models.SkillDamage {
	idx := make(map[string]int)
	out := make([]models.SkillDamage, 0)
	for _, e := range events {
		i, ok := idx[e.Action]
		if !ok {
			i = len(out)
			idx[e.Action] = i
			out = append(out, models.SkillDamage{Skill: e.Action})
		}
		out[i].Damage += e.Damage
		out[i].Hits++
	}
	sortSkillDamage(out)
	return out
}

func sortSkillDamage(s []models.SkillDamage) {
	slices.SortFunc(s, func(a, b models.SkillDamage) int {
		if c := cmp.Compare(b.Damage, a.Damage); c != 0 {
			return c
		}
		return cmp.Compare(a.Skill, b.Skill)
	})
}

// AggregateSkillBreakdown splits each skill's hits into the four hit
// categories. Ordered by damage descending.
func AggregateSkillBreakdown(events []models.DamageEvent) []models.SkillBreakdown {
	counts := make(map[string]*models.HitCounts)
	for _, e := range events {
		c, ok := counts[e.Action]
		if !ok {
			c = &models.HitCounts{}
			counts[e.Action] = c
		}
		c.Add(e)
	}

	out := make([]models.SkillBreakdown, 0, len(counts))
	for skill, c := range counts {
		out = append(out, models.SkillBreakdown{
			Skill:     skill,
			HitCounts: *c,
			HitRates:  c.Rates(),
		})
	}

	slices.SortFunc(out, func(a, b models.SkillBreakdown) int {
		if c := cmp.Compare(b.TotalDamage, a.TotalDamage); c != 0 {
			return c
		}
		return cmp.Compare(a.Skill, b.Skill)
	})
	return out
}

type casterSkill struct {
	caster string
	skill  string
}

// AggregateSkillHitRates is AggregateSkillBreakdown scoped per caster.
// Ordered by caster, then damage descending, then skill.
func AggregateSkillHitRates(events []models.DamageEvent) []models.SkillHitRate {
	counts := make(map[casterSkill]*models.HitCounts)
	for _, e := range events {
		key := casterSkill{caster: e.Source, skill: e.Action}
		c, ok := counts[key]
		if !ok {
			c = &models.HitCounts{}
			counts[key] = c
		}
		c.Add(e)
	}

	out := make([]models.SkillHitRate, 0, len(counts))
	for key, c := range counts {
		out = append(out, models.SkillHitRate{
			Caster:    key.caster,
			Skill:     key.skill,
			HitCounts: *c,
			HitRates:  c.Rates(),
		})
	}

	slices.SortFunc(out, func(a, b models.SkillHitRate) int {
		if c := cmp.Compare(a.Caster, b.Caster); c != 0 {
			return c
		}
		if c := cmp.Compare(b.TotalDamage, a.TotalDamage); c != 0 {
			return c
		}
		return cmp.Compare(a.Skill, b.Skill)
	})
	return out
}
