// Command dpsmeter analyzes combat log files locally and prints the damage
// tables without a server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/tldps/stats-api/internal/logic"
	"github.com/tldps/stats-api/internal/models"
)

func main() {
	from := flag.Float64("from", 0, "window start, epoch seconds")
	to := flag.Float64("to", 0, "window end, epoch seconds")
	catalogPath := flag.String("catalog", "", "skill catalog YAML")
	top := flag.Int("top", 10, "skills to list")
	verbose := flag.Bool("v", false, "log parse details")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: dpsmeter [flags] combat.log [more.log ...]")
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	var catalog *logic.SkillCatalog
	if *catalogPath != "" {
		c, err := logic.LoadSkillCatalogFile(*catalogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load catalog: %v\n", err)
			os.Exit(1)
		}
		catalog = c
	}

	ctx := context.Background()
	events, err := parseFiles(ctx, logic.NewParser(logger), flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	report, err := logic.NewAnalysisService(catalog, logger).Analyze(ctx, events, logic.AnalyzeOptions{
		Window: models.TimeWindow{From: *from, To: *to},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
	printReport(os.Stdout, report, *top)
}

func parseFiles(ctx context.Context, p *logic.Parser, paths []string) ([]models.DamageEvent, error) {
	logs := make([][]models.DamageEvent, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		res, err := p.ParseReader(ctx, f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		logs = append(logs, res.Events)
	}
	return logic.MergeEvents(logs...), nil
}

func printReport(out io.Writer, r *models.AnalysisReport, top int) {
	s := r.Summary
	fmt.Fprintf(out, "%s events, %s damage over %ss from %d casters\n\n",
		humanize.Comma(int64(s.Events)), humanize.Comma(s.TotalDamage),
		humanize.CommafWithDigits(s.Duration, 1), s.Casters)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Player\tDamage\tDPS\tHits\tAvg\tMax\t")
	for _, p := range r.Players {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			p.Name,
			humanize.Comma(p.TotalDamage),
			humanize.CommafWithDigits(p.DamagePerSecond, 1),
			humanize.Comma(int64(p.HitCount)),
			humanize.CommafWithDigits(p.AverageDamage, 1),
			humanize.Comma(p.MaxHit))
	}
	_ = tw.Flush()

	if len(r.SkillDamage) == 0 {
		return
	}
	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Skill\tDamage\tHits\tShare\t")
	for i, sk := range r.SkillDamage {
		if top > 0 && i >= top {
			break
		}
		share := 0.0
		if s.TotalDamage > 0 {
			share = float64(sk.Damage) / float64(s.TotalDamage) * 100
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s%%\t\n",
			sk.Skill, humanize.Comma(sk.Damage), humanize.Comma(int64(sk.Hits)),
			humanize.CommafWithDigits(share, 1))
	}
	_ = tw.Flush()
}
