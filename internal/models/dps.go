package models

// DPSDataPoint is one sample of a caster's DPS curve.
// Time is relative to the caster's first event; ActualTime is absolute.
type DPSDataPoint struct {
	Time       float64 `json:"time"`
	ActualTime float64 `json:"actualTime"`
	DPS        float64 `json:"dps"`
	InstantDPS float64 `json:"instantDps"`
}

// TargetSegment is a contiguous window in which a caster engaged one target.
type TargetSegment struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Target    string  `json:"target"`
	Damage    int64   `json:"damage"`
	Hits      int     `json:"hits"`
}

// PlayerDPSData is the DPS time series for one caster.
type PlayerDPSData struct {
	PlayerName     string          `json:"playerName"`
	DataPoints     []DPSDataPoint  `json:"dataPoints"`
	TotalDamage    int64           `json:"totalDamage"`
	Duration       float64         `json:"duration"`
	TargetSegments []TargetSegment `json:"targetSegments"`
}
