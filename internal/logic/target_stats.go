package logic

import (
	"cmp"
	"slices"

	"github.com/tldps/stats-api/internal/models"
)

// AggregateDamageByTarget groups damage by target, then caster, then skill,
// with the same hit-type split as AggregateSkillHitRates at the skill level.
// Each level is ordered by damage descending with ties broken by name. A
// caster's DPS against a target uses that pair's own active window.
func AggregateDamageByTarget(events []models.DamageEvent) []models.TargetDamage {
	type casterAcc struct {
		damage  int64
		hits    int
		start   float64
		end     float64
		skills  map[string]*models.HitCounts
		started bool
	}
	type targetAcc struct {
		damage  int64
		hits    int
		casters map[string]*casterAcc
	}

	targets := make(map[string]*targetAcc)
	for _, e := range events {
		t, ok := targets[e.Target]
		if !ok {
			t = &targetAcc{casters: make(map[string]*casterAcc)}
			targets[e.Target] = t
		}
		t.damage += e.Damage
		t.hits++

		c, ok := t.casters[e.Source]
		if !ok {
			c = &casterAcc{skills: make(map[string]*models.HitCounts)}
			t.casters[e.Source] = c
		}
		c.damage += e.Damage
		c.hits++
		if !c.started || e.Timestamp < c.start {
			c.start = e.Timestamp
		}
		if !c.started || e.Timestamp > c.end {
			c.end = e.Timestamp
		}
		c.started = true

		s, ok := c.skills[e.Action]
		if !ok {
			s = &models.HitCounts{}
			c.skills[e.Action] = s
		}
		s.Add(e)
	}

	out := make([]models.TargetDamage, 0, len(targets))
	for name, t := range targets {
		td := models.TargetDamage{
			Target:  name,
			Damage:  t.damage,
			Hits:    t.hits,
			Casters: make([]models.CasterDamage, 0, len(t.casters)),
		}
		for caster, c := range t.casters {
			duration := activeDuration(c.start, c.end)
			cd := models.CasterDamage{
				Caster:    caster,
				Damage:    c.damage,
				Hits:      c.hits,
				StartTime: c.start,
				EndTime:   c.end,
				Duration:  duration,
				DPS:       float64(c.damage) / duration,
				Skills:    make([]models.TargetSkill, 0, len(c.skills)),
			}
			for skill, s := range c.skills {
				cd.Skills = append(cd.Skills, models.TargetSkill{
					Skill:     skill,
					HitCounts: *s,
					HitRates:  s.Rates(),
				})
			}
			slices.SortFunc(cd.Skills, func(a, b models.TargetSkill) int {
				if c := cmp.Compare(b.TotalDamage, a.TotalDamage); c != 0 {
					return c
				}
				return cmp.Compare(a.Skill, b.Skill)
			})
			td.Casters = append(td.Casters, cd)
		}
		slices.SortFunc(td.Casters, func(a, b models.CasterDamage) int {
			if c := cmp.Compare(b.Damage, a.Damage); c != 0 {
				return c
			}
			return cmp.Compare(a.Caster, b.Caster)
		})
		out = append(out, td)
	}

	slices.SortFunc(out, func(a, b models.TargetDamage) int {
		if c := cmp.Compare(b.Damage, a.Damage); c != 0 {
			return c
		}
		return cmp.Compare(a.Target, b.Target)
	})
	return out
}
