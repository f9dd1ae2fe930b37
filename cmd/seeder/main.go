// Command seeder posts a synthetic combat log to a running API for archiving.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/tldps/stats-api/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const timestampLayout = "20060102-15:04:05"

var (
	casters = []string{"Aelric", "Brynn", "Corvo", "Dalia"}
	skills  = []string{"Fireball", "Frost Nova", "Piercing Shot", "Sword Strike", "Chain Lightning", "Backstab"}
	targets = []string{"Training Dummy", "Kowazan", "Excavator Golem"}
)

func main() {
	apiURL := flag.String("url", "http://localhost:8080/api/v1/ingest/logs", "ingest endpoint")
	token := flag.String("token", "seed-secret-123", "ingest token")
	lines := flag.Int("lines", 2000, "number of damage lines")
	seconds := flag.Int("duration", 120, "encounter length in seconds")
	flag.Parse()

	body := generateLog(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now().UTC(), *lines, *seconds)

	req, err := http.NewRequest(http.MethodPost, *apiURL, strings.NewReader(body))
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Ingest-Token", *token)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusAccepted {
		log.Fatalf("Ingest failed: %s %s", resp.Status, raw)
	}

	var out models.IngestResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Fatalf("Failed to decode response: %v", err)
	}
	fmt.Printf("Batch %s: queued %d of %d events (%d lines, %d skipped, %d misses)\n",
		out.BatchID, out.Processed, out.Parse.Events, out.Parse.Lines, out.Parse.Skipped, out.Parse.Misses)
}

// generateLog writes a combat log with one header line followed by n damage
// lines spread evenly across the encounter. About one line in twenty is a miss.
func generateLog(rng *rand.Rand, start time.Time, n, seconds int) string {
	var buf bytes.Buffer
	buf.WriteString("CombatLogVersion,4\n")
	if n <= 0 {
		return buf.String()
	}
	step := time.Duration(seconds) * time.Second / time.Duration(n)

	for i := 0; i < n; i++ {
		at := start.Add(time.Duration(i) * step)
		skill := rng.Intn(len(skills))
		crit, heavy := 0, 0
		if rng.Intn(4) == 0 {
			crit = 1
		}
		if rng.Intn(10) == 0 {
			heavy = 1
		}
		damage := 200 + rng.Intn(1800)
		if crit == 1 {
			damage = damage * 3 / 2
		}
		if heavy == 1 {
			damage *= 2
		}
		hitType := "kNormalHit"
		if rng.Intn(20) == 0 {
			damage, crit, heavy, hitType = 0, 0, 0, "kMiss"
		}

		fmt.Fprintf(&buf, "%s:%03d,DamageDone,%s,%d,%d,%d,%d,%s,%s,%s\n",
			at.Format(timestampLayout), at.Nanosecond()/int(time.Millisecond),
			skills[skill], 1000+skill, damage, crit, heavy, hitType,
			casters[rng.Intn(len(casters))], targets[rng.Intn(len(targets))])
	}
	return buf.String()
}
