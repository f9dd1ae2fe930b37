package logic

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tldps/stats-api/internal/models"
)

const (
	// ParseChunkLines is how many lines ParseReader reads between
	// cancellation checks.
	ParseChunkLines = 10000

	maxLineBytes    = 1024 * 1024
	readBufferBytes = 64 * 1024
)

// Field positions in a combat log line.
const (
	fieldTimestamp = iota
	fieldEventType
	fieldAbility
	fieldAbilityID
	fieldDamage
	fieldIsCrit
	fieldIsHeavy
	fieldHitType
	fieldSource
	fieldTarget
)

type lineOutcome int

const (
	lineAccepted lineOutcome = iota
	lineIgnored
	lineMiss
	lineMalformed
)

// ParseResult is the output of ParseReader.
type ParseResult struct {
	Events  []models.DamageEvent
	Summary models.ParseSummary
}

// Parser turns combat log text into damage events. It never fails on
// content: lines it cannot read are dropped and counted.
type Parser struct {
	logger *zap.SugaredLogger
}

func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger.Sugar()}
}

var defaultParser = NewParser(nil)

// ParseLog parses a whole combat log held in memory.
func ParseLog(text string) []models.DamageEvent {
	return defaultParser.Parse(text)
}

// Parse parses a whole combat log held in memory. Events keep input order.
func (p *Parser) Parse(text string) []models.DamageEvent {
	text = strings.TrimPrefix(text, "\ufeff")

	events := make([]models.DamageEvent, 0, strings.Count(text, "\n")+1)
	var summary models.ParseSummary
	for _, line := range strings.Split(text, "\n") {
		events = p.consume(line, events, &summary)
	}

	p.record(summary)
	return events
}

// ParseReader streams a combat log from r. A line longer than maxLineBytes
// is discarded and counted as skipped. It returns an error only when reading
// fails or ctx is cancelled, in which case no events are returned.
func (p *Parser) ParseReader(ctx context.Context, r io.Reader) (*ParseResult, error) {
	br := bufio.NewReaderSize(utfbom.SkipOnly(r), readBufferBytes)

	res := &ParseResult{Events: make([]models.DamageEvent, 0, 1024)}
	var line []byte
	overlong := false
	n := 0
	for {
		chunk, err := br.ReadSlice('\n')
		switch {
		case overlong:
		case len(line)+len(chunk) > maxLineBytes:
			overlong = true
			line = line[:0]
		default:
			line = append(line, chunk...)
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "read combat log")
		}

		if overlong {
			res.Summary.Lines++
			res.Summary.Skipped++
		} else if len(line) > 0 {
			res.Events = p.consume(string(line), res.Events, &res.Summary)
		}
		line = line[:0]
		overlong = false

		n++
		if n%ParseChunkLines == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err == io.EOF {
			break
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.record(res.Summary)
	return res, nil
}

func (p *Parser) consume(line string, events []models.DamageEvent, summary *models.ParseSummary) []models.DamageEvent {
	line = strings.TrimSpace(line)
	if line == "" {
		return events
	}
	summary.Lines++

	event, outcome := parseLine(line)
	switch outcome {
	case lineAccepted:
		summary.Events++
		return append(events, event)
	case lineMiss:
		summary.Misses++
	case lineMalformed:
		summary.Skipped++
	}
	return events
}

func (p *Parser) record(s models.ParseSummary) {
	linesParsed.Add(float64(s.Lines))
	linesSkipped.Add(float64(s.Skipped))
	missesDropped.Add(float64(s.Misses))
	eventsParsed.Add(float64(s.Events))

	p.logger.Debugw("Parsed combat log",
		"lines", s.Lines,
		"events", s.Events,
		"skipped", s.Skipped,
		"misses", s.Misses,
	)
}

// parseLine reads one trimmed, non-blank line.
func parseLine(line string) (models.DamageEvent, lineOutcome) {
	if strings.Contains(line, models.HeaderMarker) {
		return models.DamageEvent{}, lineIgnored
	}

	fields := strings.Split(line, ",")
	if len(fields) < models.CombatLogMinField {
		return models.DamageEvent{}, lineMalformed
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if fields[fieldEventType] != models.EventDamageDone {
		return models.DamageEvent{}, lineMalformed
	}

	damage, err := strconv.ParseInt(fields[fieldDamage], 10, 64)
	if err != nil || damage < 0 {
		return models.DamageEvent{}, lineMalformed
	}
	crit, err := strconv.Atoi(fields[fieldIsCrit])
	if err != nil {
		return models.DamageEvent{}, lineMalformed
	}
	heavy, err := strconv.Atoi(fields[fieldIsHeavy])
	if err != nil {
		return models.DamageEvent{}, lineMalformed
	}

	hitType := fields[fieldHitType]
	if damage == 0 && hitType == models.HitTypeMiss {
		return models.DamageEvent{}, lineMiss
	}

	isCritical := crit == 1
	return models.DamageEvent{
		Timestamp:  NormalizeTimestamp(fields[fieldTimestamp]),
		Source:     fields[fieldSource],
		Action:     fields[fieldAbility],
		Target:     fields[fieldTarget],
		Damage:     damage,
		DamageType: models.DamageTypeLabel(isCritical),
		HitType:    hitType,
		IsCritical: isCritical,
		IsHeavyHit: heavy == 1,
	}, lineAccepted
}

// MergeEvents concatenates events from several logs in argument order.
func MergeEvents(logs ...[]models.DamageEvent) []models.DamageEvent {
	total := 0
	for _, l := range logs {
		total += len(l)
	}
	out := make([]models.DamageEvent, 0, total)
	for _, l := range logs {
		out = append(out, l...)
	}
	return out
}
