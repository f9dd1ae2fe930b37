package models

import "time"

// ShareRequest is the body of POST /api/share. LogData is accepted either as
// an array of events or as a string holding that array, see UnmarshalJSON.
type ShareRequest struct {
	PlayerName      string        `json:"playerName" validate:"required,max=255"`
	TotalDamage     *int64        `json:"totalDamage" validate:"required,gte=0"`
	DamagePerSecond *float64      `json:"damagePerSecond" validate:"required,gte=0"`
	Duration        *float64      `json:"duration" validate:"required,gte=0"`
	Timestamp       int64         `json:"timestamp"`
	LogData         []DamageEvent `json:"logData" validate:"required"`
	RecaptchaToken  string        `json:"recaptchaToken,omitempty"`
}

// Share is a persisted snapshot of an analyzed log.
type Share struct {
	ShareID         string        `json:"shareId"`
	PlayerName      string        `json:"playerName"`
	TotalDamage     int64         `json:"totalDamage"`
	DamagePerSecond float64       `json:"damagePerSecond"`
	Duration        float64       `json:"duration"`
	Timestamp       int64         `json:"timestamp"`
	LogData         []DamageEvent `json:"logData"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// NewShare builds a snapshot from a validated request.
func NewShare(id string, req *ShareRequest, now time.Time) *Share {
	s := &Share{
		ShareID:    id,
		PlayerName: req.PlayerName,
		Timestamp:  req.Timestamp,
		LogData:    req.LogData,
		CreatedAt:  now.UTC(),
	}
	if req.TotalDamage != nil {
		s.TotalDamage = *req.TotalDamage
	}
	if req.DamagePerSecond != nil {
		s.DamagePerSecond = *req.DamagePerSecond
	}
	if req.Duration != nil {
		s.Duration = *req.Duration
	}
	if s.LogData == nil {
		s.LogData = []DamageEvent{}
	}
	return s
}

// ShareCreatedResponse is returned after a snapshot is stored.
type ShareCreatedResponse struct {
	Success  bool   `json:"success"`
	ShareID  string `json:"shareId"`
	ShareURL string `json:"shareUrl"`
}

// ShareResponse wraps a stored snapshot.
type ShareResponse struct {
	Success bool   `json:"success"`
	Data    *Share `json:"data"`
}
