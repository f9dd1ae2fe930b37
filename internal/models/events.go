package models

import (
	"time"

	"github.com/google/uuid"
)

// Markers used by the game client's combat log.
const (
	EventDamageDone   = "DamageDone"
	HeaderMarker      = "CombatLogVersion"
	HitTypeMiss       = "kMiss"
	HitTypeNormal     = "kNormalHit"
	DamageTypeCrit    = "Critical"
	DamageTypeNormal  = "Normal"
	CombatLogMinField = 10
)

// HitCategory is the four-way classification derived from the crit/heavy flags.
type HitCategory string

const (
	HitNormal        HitCategory = "normal"
	HitCritical      HitCategory = "critical"
	HitHeavy         HitCategory = "heavy"
	HitHeavyCritical HitCategory = "heavy_critical"
)

// DamageEvent is one accepted damage line from a combat log.
// Timestamp is absolute seconds since the Unix epoch (UTC), 0 when the
// log timestamp could not be read.
type DamageEvent struct {
	Timestamp  float64 `json:"timestamp"`
	Source     string  `json:"source"`
	Action     string  `json:"action"`
	Target     string  `json:"target"`
	Damage     int64   `json:"damage"`
	DamageType string  `json:"damageType"`
	HitType    string  `json:"hitType"`
	IsCritical bool    `json:"isCritical"`
	IsHeavyHit bool    `json:"isHeavyHit"`
}

// Category returns the hit category for the event's flags.
func (e DamageEvent) Category() HitCategory {
	switch {
	case e.IsCritical && e.IsHeavyHit:
		return HitHeavyCritical
	case e.IsCritical:
		return HitCritical
	case e.IsHeavyHit:
		return HitHeavy
	default:
		return HitNormal
	}
}

// DamageTypeLabel returns the display label stored in DamageType.
func DamageTypeLabel(isCritical bool) string {
	if isCritical {
		return DamageTypeCrit
	}
	return DamageTypeNormal
}

// ArchivedEvent is the normalized event for ClickHouse storage
type ArchivedEvent struct {
	Timestamp  time.Time
	BatchID    uuid.UUID
	Source     string
	Action     string
	Target     string
	Damage     uint64
	HitType    string
	IsCritical uint8
	IsHeavyHit uint8
}

// NewArchivedEvent converts a parsed event for archiving. Events without a
// readable log timestamp fall back to receivedAt.
func NewArchivedEvent(e *DamageEvent, batchID uuid.UUID, receivedAt time.Time) ArchivedEvent {
	ts := receivedAt
	if e.Timestamp > 0 {
		sec := int64(e.Timestamp)
		msec := int64((e.Timestamp-float64(sec))*1000 + 0.5)
		ts = time.Unix(sec, msec*int64(time.Millisecond)).UTC()
	}

	out := ArchivedEvent{
		Timestamp: ts,
		BatchID:   batchID,
		Source:    e.Source,
		Action:    e.Action,
		Target:    e.Target,
		Damage:    uint64(e.Damage),
		HitType:   e.HitType,
	}
	if e.IsCritical {
		out.IsCritical = 1
	}
	if e.IsHeavyHit {
		out.IsHeavyHit = 1
	}
	return out
}
