package observ

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	i := tm.Begin("parse")
	tm.End(i, "3 instructions")
	_ = tm.Time("write", func() error { return errors.New("disk full") })
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Stages) != 2 {
		t.Fatalf("stages = %d, want 2", len(r.Stages))
	}
	if r.Stages[0].Note != "3 instructions" || r.Stages[1].Note != "failed" {
		t.Fatalf("notes = %+v", r.Stages)
	}
	if r.TotalMS < r.Stages[0].DurationMS {
		t.Fatalf("total %v < stage %v", r.TotalMS, r.Stages[0].DurationMS)
	}
}

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	tm.End(tm.Begin("build:vault"), "")
	out := tm.Summary()
	if !strings.HasPrefix(out, "timings:\n  build:vault ") || !strings.Contains(out, "\n  total ") {
		t.Fatalf("Summary =\n%s", out)
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tm.Time("validate", func() error { return nil })
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Stages); n != 16 {
		t.Fatalf("stages = %d, want 16", n)
	}
}

func TestEmptyReport(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Stages != nil {
		t.Fatalf("empty report = %+v", r)
	}
}

func TestTotalIsWallClock(t *testing.T) {
	tm := NewTimer()
	outer := tm.Begin("build:a")
	inner := tm.Begin("build:b")
	tm.End(inner, "")
	tm.End(outer, "")

	r := tm.Report()
	if r.TotalMS != r.Stages[0].DurationMS {
		t.Fatalf("total = %v, want enclosing stage %v", r.TotalMS, r.Stages[0].DurationMS)
	}
}
