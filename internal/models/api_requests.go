package models

// AnalyzeResponse is returned by the analyze endpoint.
type AnalyzeResponse struct {
	Parse  ParseSummary    `json:"parse"`
	Files  int             `json:"files"`
	Report *AnalysisReport `json:"report"`
}

// IngestResponse is returned after archived events are queued.
type IngestResponse struct {
	Status    string       `json:"status"`
	BatchID   string       `json:"batchId"`
	Processed int          `json:"processed"`
	Parse     ParseSummary `json:"parse"`
}

// ArchiveRow is one labelled value from an archive query.
type ArchiveRow struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CasterTotals are the running counters kept per caster across every
// archived log.
type CasterTotals struct {
	Caster  string `json:"caster"`
	Damage  int64  `json:"damage"`
	Hits    int64  `json:"hits"`
	Crits   int64  `json:"crits"`
	Heavies int64  `json:"heavies"`
}
