package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDamageEventCategory(t *testing.T) {
	tests := []struct {
		crit, heavy bool
		want        HitCategory
	}{
		{false, false, HitNormal},
		{true, false, HitCritical},
		{false, true, HitHeavy},
		{true, true, HitHeavyCritical},
	}
	for _, tt := range tests {
		e := DamageEvent{IsCritical: tt.crit, IsHeavyHit: tt.heavy}
		if got := e.Category(); got != tt.want {
			t.Errorf("Category(crit=%v, heavy=%v) = %s, want %s", tt.crit, tt.heavy, got, tt.want)
		}
	}
}

func TestHitCountsPartition(t *testing.T) {
	var c HitCounts
	for _, e := range []DamageEvent{
		{Damage: 10},
		{Damage: 20, IsCritical: true},
		{Damage: 30, IsHeavyHit: true},
		{Damage: 40, IsCritical: true, IsHeavyHit: true},
		{Damage: 0},
	} {
		c.Add(e)
	}

	if c.TotalHits != c.NormalHits+c.CriticalHits+c.HeavyHits+c.HeavyCriticalHits {
		t.Errorf("categories do not sum to total: %+v", c)
	}
	if c.TotalDamage != c.NormalDamage+c.CriticalDamage+c.HeavyDamage+c.HeavyCritDamage {
		t.Errorf("category damage does not sum to total: %+v", c)
	}

	r := c.Rates()
	sum := r.NormalHitRate + r.CriticalHitRate + r.HeavyHitRate + r.HeavyCriticalHitRate
	if sum < 99.9999 || sum > 100.0001 {
		t.Errorf("rates sum = %f, want 100", sum)
	}
	if r.NormalHitRate != 40 {
		t.Errorf("NormalHitRate = %f, want 40", r.NormalHitRate)
	}
}

func TestHitCountsRatesEmpty(t *testing.T) {
	if r := (HitCounts{}).Rates(); r != (HitRates{}) {
		t.Errorf("empty rates = %+v, want zeros", r)
	}
}

func TestNewArchivedEvent(t *testing.T) {
	batch := uuid.New()
	received := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	e := &DamageEvent{Timestamp: 1718463600.25, Source: "A", Action: "S", Target: "T", Damage: 99, IsCritical: true}
	got := NewArchivedEvent(e, batch, received)
	if got.Timestamp.UnixMilli() != 1718463600250 {
		t.Errorf("Timestamp = %v, want ms 1718463600250", got.Timestamp)
	}
	if got.IsCritical != 1 || got.IsHeavyHit != 0 {
		t.Errorf("flags = %d/%d, want 1/0", got.IsCritical, got.IsHeavyHit)
	}
	if got.BatchID != batch || got.Damage != 99 {
		t.Errorf("unexpected row: %+v", got)
	}

	zero := NewArchivedEvent(&DamageEvent{}, batch, received)
	if !zero.Timestamp.Equal(received) {
		t.Errorf("unreadable timestamp should fall back to receive time, got %v", zero.Timestamp)
	}
}

func TestTimeWindowContains(t *testing.T) {
	w := TimeWindow{From: 10, To: 20}
	for ts, want := range map[float64]bool{9.99: false, 10: true, 15: true, 20: true, 20.01: false} {
		if got := w.Contains(ts); got != want {
			t.Errorf("Contains(%v) = %v, want %v", ts, got, want)
		}
	}
	if !(TimeWindow{}).IsOpen() || !(TimeWindow{}).Contains(0) {
		t.Error("zero window should be open")
	}
}
