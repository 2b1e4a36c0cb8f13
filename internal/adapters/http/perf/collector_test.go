package perf

import (
	"sync"
	"testing"
	"time"
)

// TestCollector_SnapshotAggregatesByKind verifies requests, queries and
// renders are aggregated into separate top-N lists.
func TestCollector_SnapshotAggregatesByKind(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Label: "GET /api/profiles", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Label: "GET /api/profiles", StatusCode: 200, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Label: "QueryContext", DurationMs: 2, Timestamp: now})
	c.Record(Entry{Kind: KindRender, Label: "large/png", DurationMs: 120, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRecorded != 4 {
		t.Errorf("TotalRecorded = %d, want 4", snap.TotalRecorded)
	}
	if len(snap.SlowestPaths) != 1 {
		t.Fatalf("SlowestPaths len = %d, want 1", len(snap.SlowestPaths))
	}
	if snap.SlowestPaths[0].AvgMs != 20 {
		t.Errorf("request AvgMs = %v, want 20", snap.SlowestPaths[0].AvgMs)
	}
	if snap.SlowestPaths[0].MaxMs != 30 {
		t.Errorf("request MaxMs = %v, want 30", snap.SlowestPaths[0].MaxMs)
	}
	if len(snap.SlowestQueries) != 1 || snap.SlowestQueries[0].Label != "QueryContext" {
		t.Errorf("SlowestQueries = %+v, want one QueryContext entry", snap.SlowestQueries)
	}
	if len(snap.SlowestRenders) != 1 || snap.SlowestRenders[0].Label != "large/png" {
		t.Errorf("SlowestRenders = %+v, want one large/png entry", snap.SlowestRenders)
	}
}

// TestCollector_RingOverwritesOldest verifies that writing past capacity
// drops the oldest entries instead of blocking or growing.
func TestCollector_RingOverwritesOldest(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()

	for i := 0; i < 5; i++ {
		c.Record(Entry{Kind: KindRequest, Label: "GET /api/audit", DurationMs: float64(i), Timestamp: now})
	}

	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded = %d, want 5", c.TotalRecorded())
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 {
		t.Fatalf("SlowestPaths len = %d, want 1", len(snap.SlowestPaths))
	}
	if snap.SlowestPaths[0].Count != 3 {
		t.Errorf("Count = %d, want 3 (ring kept last 3)", snap.SlowestPaths[0].Count)
	}
}

// TestCollector_Percentiles checks the interpolated request percentiles
// over a known distribution.
func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()

	// Durations 1..100 ms, one entry each.
	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Label: "GET /api/session", DurationMs: float64(i), Timestamp: now})
	}

	snap := c.Snapshot(now.Add(-time.Minute), 5)
	if snap.RequestP50Ms < 50 || snap.RequestP50Ms > 51 {
		t.Errorf("P50 = %v, want ~50.5", snap.RequestP50Ms)
	}
	if snap.RequestP95Ms < 95 || snap.RequestP95Ms > 96 {
		t.Errorf("P95 = %v, want ~95", snap.RequestP95Ms)
	}
	if snap.RequestP99Ms < 99 || snap.RequestP99Ms > 100 {
		t.Errorf("P99 = %v, want ~99", snap.RequestP99Ms)
	}
}

// TestCollector_SinceFiltersOldEntries verifies entries before the cutoff
// are excluded from aggregation but still counted in TotalRecorded.
func TestCollector_SinceFiltersOldEntries(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	old := now.Add(-2 * time.Hour)

	c.Record(Entry{Kind: KindRender, Label: "wallet/pdf", DurationMs: 310, Timestamp: old})
	c.Record(Entry{Kind: KindRender, Label: "large/png", DurationMs: 95, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Hour), 10)
	if len(snap.SlowestRenders) != 1 {
		t.Fatalf("SlowestRenders len = %d, want 1 (old entry filtered)", len(snap.SlowestRenders))
	}
	if snap.SlowestRenders[0].Label != "large/png" {
		t.Errorf("Label = %q, want large/png", snap.SlowestRenders[0].Label)
	}
	if snap.TotalRecorded != 2 {
		t.Errorf("TotalRecorded = %d, want 2", snap.TotalRecorded)
	}
}

// TestCollector_TopNTruncates verifies the top-N cutoff and descending
// average ordering.
func TestCollector_TopNTruncates(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Label: "GET /api/profiles", DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Label: "POST /api/profiles", DurationMs: 40, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Label: "GET /api/audit", DurationMs: 25, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 2)
	if len(snap.SlowestPaths) != 2 {
		t.Fatalf("SlowestPaths len = %d, want 2", len(snap.SlowestPaths))
	}
	if snap.SlowestPaths[0].Label != "POST /api/profiles" {
		t.Errorf("slowest = %q, want POST /api/profiles", snap.SlowestPaths[0].Label)
	}
	if snap.SlowestPaths[1].Label != "GET /api/audit" {
		t.Errorf("second = %q, want GET /api/audit", snap.SlowestPaths[1].Label)
	}
}

// TestCollector_ConcurrentRecord verifies Record is safe under concurrent
// writers while Snapshot runs.
func TestCollector_ConcurrentRecord(t *testing.T) {
	c := NewCollector(500)
	now := time.Now()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				c.Record(Entry{Kind: KindRequest, Label: "GET /api/profiles", DurationMs: float64(n), Timestamp: now})
			}
		}()
	}
	for i := 0; i < 10; i++ {
		c.Snapshot(now.Add(-time.Minute), 5)
	}
	wg.Wait()

	if c.TotalRecorded() != 800 {
		t.Errorf("TotalRecorded = %d, want 800", c.TotalRecorded())
	}
}

// BenchmarkCollector_Record measures the hot-path write cost.
func BenchmarkCollector_Record(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	e := Entry{Kind: KindRequest, Label: "GET /api/profiles", StatusCode: 200, DurationMs: 1.5, Timestamp: time.Now()}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Record(e)
	}
}

// BenchmarkCollector_Snapshot measures aggregation cost over a full ring.
func BenchmarkCollector_Snapshot(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	now := time.Now()
	for i := 0; i < DefaultRingSize; i++ {
		c.Record(Entry{Kind: KindRequest, Label: "GET /api/profiles", StatusCode: 200, DurationMs: float64(i % 100), Timestamp: now})
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Snapshot(now.Add(-time.Minute), 5)
	}
}
