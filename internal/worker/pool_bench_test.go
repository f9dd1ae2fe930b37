package worker

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func BenchmarkToArchivedEvent(b *testing.B) {
	job := Job{
		Event:     damageEvent("Some Caster Name", 12345, true, false),
		BatchID:   uuid.New(),
		Timestamp: time.Now(),
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = toArchivedEvent(job)
	}
}

func BenchmarkCasterDeltas(b *testing.B) {
	batch := make([]Job, 500)
	for i := range batch {
		batch[i] = Job{Event: damageEvent("Caster", int64(i), i%2 == 0, i%3 == 0)}
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = casterDeltas(batch)
	}
}
