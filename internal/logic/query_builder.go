package logic

import (
	"fmt"
	"time"
)

// ArchiveTable is the ClickHouse table holding archived damage events.
const ArchiveTable = "tldps.combat_events"

// ArchiveQueryRequest holds parameters for constructing an archive query
type ArchiveQueryRequest struct {
	Dimension    string    `json:"dimension"` // Group by: skill, target, caster, hit_type, batch, day
	Metric       string    `json:"metric"`    // Select: damage, hits, crits, heavies, crit_rate, avg_hit, max_hit, dps
	FilterCaster string    `json:"filter_caster"`
	FilterTarget string    `json:"filter_target"`
	FilterSkill  string    `json:"filter_skill"`
	FilterBatch  string    `json:"filter_batch"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Limit        int       `json:"limit"`
}

// allowedDimensions maps safe API values to SQL columns
var allowedDimensions = map[string]string{
	"skill":    "action",
	"target":   "target",
	"caster":   "source",
	"hit_type": "hit_type",
	"batch":    "toString(batch_id)",
	"day":      "toString(toDate(timestamp))",
}

var allowedMetrics = map[string]string{
	"damage":    "toFloat64(sum(damage))",
	"hits":      "toFloat64(count())",
	"crits":     "toFloat64(countIf(is_critical = 1))",
	"heavies":   "toFloat64(countIf(is_heavy_hit = 1))",
	"crit_rate": "countIf(is_critical = 1) / greatest(1, count()) * 100",
	"avg_hit":   "toFloat64(avg(damage))",
	"max_hit":   "toFloat64(max(damage))",
	"dps":       "sum(damage) / greatest(1, toUnixTimestamp(max(timestamp)) - toUnixTimestamp(min(timestamp)))",
}

// Dimensions lists the accepted dimension names.
func Dimensions() []string {
	return []string{"skill", "target", "caster", "hit_type", "batch", "day"}
}

// BuildArchiveQuery constructs a safe ClickHouse SQL query
func BuildArchiveQuery(req ArchiveQueryRequest) (string, []interface{}, error) {
	groupByCol, ok := allowedDimensions[req.Dimension]
	if !ok && req.Dimension != "" {
		return "", nil, fmt.Errorf("%w: dimension %q", ErrInvalidQuery, req.Dimension)
	}

	metric := req.Metric
	if metric == "" {
		metric = "damage"
	}
	selectClause, ok := allowedMetrics[metric]
	if !ok {
		return "", nil, fmt.Errorf("%w: metric %q", ErrInvalidQuery, req.Metric)
	}

	if !req.StartDate.IsZero() && !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate) {
		return "", nil, fmt.Errorf("%w: end_date before start_date", ErrInvalidQuery)
	}

	query := fmt.Sprintf("SELECT %s AS value", selectClause)
	var args []interface{}

	if groupByCol != "" {
		query += fmt.Sprintf(", %s AS label", groupByCol)
	} else {
		query += ", 'all' AS label"
	}

	query += " FROM " + ArchiveTable + " WHERE 1=1"

	if req.FilterCaster != "" {
		query += " AND source = ?"
		args = append(args, req.FilterCaster)
	}
	if req.FilterTarget != "" {
		query += " AND target = ?"
		args = append(args, req.FilterTarget)
	}
	if req.FilterSkill != "" {
		query += " AND action = ?"
		args = append(args, req.FilterSkill)
	}
	if req.FilterBatch != "" {
		query += " AND toString(batch_id) = ?"
		args = append(args, req.FilterBatch)
	}
	if !req.StartDate.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, req.StartDate)
	}
	if !req.EndDate.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, req.EndDate)
	}

	if groupByCol != "" {
		query += fmt.Sprintf(" GROUP BY %s", groupByCol)
	}

	query += " ORDER BY value DESC"
	if groupByCol != "" {
		query += ", label ASC"
	}

	limit := req.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	return query, args, nil
}
