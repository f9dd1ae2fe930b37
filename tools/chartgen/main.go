// Command chartgen renders SVG bar charts from the ClickHouse event archive.
package main

import (
	"context"
	"flag"
	"fmt"
	"html"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/tldps/stats-api/internal/logic"
	"github.com/tldps/stats-api/internal/models"
)

type chart struct {
	file  string
	title string
	color string
	req   logic.ArchiveQueryRequest
}

var charts = []chart{
	{"skill_damage.svg", "Top Skills (Damage)", "#4a90e2", logic.ArchiveQueryRequest{Dimension: "skill", Metric: "damage", Limit: 10}},
	{"caster_dps.svg", "Top Casters (DPS)", "#e74c3c", logic.ArchiveQueryRequest{Dimension: "caster", Metric: "dps", Limit: 10}},
	{"caster_crit_rate.svg", "Crit Rate by Caster (%)", "#f5a623", logic.ArchiveQueryRequest{Dimension: "caster", Metric: "crit_rate", Limit: 10}},
	{"daily_damage.svg", "Damage per Day", "#7ed321", logic.ArchiveQueryRequest{Dimension: "day", Metric: "damage", Limit: 14}},
}

func main() {
	dsn := flag.String("dsn", envOr("DPS_CLICKHOUSE_URL", "clickhouse://default:@localhost:9000/tldps"), "ClickHouse DSN")
	outDir := flag.String("out", "web/static/img", "output directory")
	days := flag.Int("days", 0, "only include the last N days")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	opts, err := clickhouse.ParseDSN(*dsn)
	if err != nil {
		log.Fatalf("Invalid DSN: %v", err)
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := conn.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping ClickHouse: %v", err)
	}

	archive := logic.NewArchiveService(conn, nil, zap.NewNop())
	for _, c := range charts {
		if *days > 0 {
			c.req.StartDate = time.Now().UTC().AddDate(0, 0, -*days)
		}
		fmt.Printf("Querying %s...\n", strings.ToLower(c.title))
		rows, err := archive.Query(ctx, c.req)
		if err != nil {
			log.Printf("Failed to query %s: %v", c.file, err)
			continue
		}
		if len(rows) == 0 {
			fmt.Printf("No data found for %s.\n", c.file)
			continue
		}
		saveChart(*outDir, c.file, generateBarChartSVG(c.title, rows, c.color))
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func saveChart(dir, filename, svg string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatal(err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Chart generated: %s\n", path)
}

func generateBarChartSVG(title string, rows []models.ArchiveRow, color string) string {
	width := 600
	height := 400
	padding := 50
	maxBarHeight := height - 2*padding

	if len(rows) == 0 {
		return fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg"></svg>`, width, height)
	}
	barWidth := (width - 2*padding) / len(rows)

	maxVal := 0.0
	for _, r := range rows {
		if r.Value > maxVal {
			maxVal = r.Value
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, width, height, width, height)

	// Background
	sb.WriteString(`<rect width="100%" height="100%" fill="#1a1a1a" />`)

	fmt.Fprintf(&sb, `<text x="%d" y="30" fill="white" font-family="Arial" font-size="20" text-anchor="middle">%s</text>`, width/2, html.EscapeString(title))

	for i, r := range rows {
		barHeight := 0
		if maxVal > 0 && r.Value > 0 {
			barHeight = int(r.Value / maxVal * float64(maxBarHeight))
		}
		x := padding + i*barWidth
		y := height - padding - barHeight
		cx := x + barWidth/2
		ly := height - padding + 20

		fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" rx="4" />`, x+5, y, barWidth-10, barHeight, color)
		fmt.Fprintf(&sb, `<text x="%d" y="%d" fill="white" font-family="Arial" font-size="12" text-anchor="end" transform="rotate(-45 %d %d)">%s</text>`, cx, ly, cx, ly, html.EscapeString(r.Label))
		fmt.Fprintf(&sb, `<text x="%d" y="%d" fill="white" font-family="Arial" font-size="10" text-anchor="middle">%s</text>`, cx, y-5, formatValue(r.Value))
	}

	// X-axis
	fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="white" stroke-width="2" />`, padding, height-padding, width-padding, height-padding)

	sb.WriteString(`</svg>`)
	return sb.String()
}

func formatValue(v float64) string {
	if v >= 10000 {
		return humanize.SIWithDigits(v, 1, "")
	}
	return humanize.CommafWithDigits(v, 1)
}
