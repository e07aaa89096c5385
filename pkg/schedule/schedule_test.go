package schedule

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestNextRunInterval(t *testing.T) {
	from := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	next, err := NextRun("6h", from)
	if err != nil {
		t.Fatal(err)
	}
	want := from.Add(6 * time.Hour)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}

func TestNextRunHourly(t *testing.T) {
	from := time.Date(2024, 3, 15, 9, 30, 17, 0, time.UTC)
	next, err := NextRun("@hourly", from)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}

func TestNextRunDaily(t *testing.T) {
	from := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	next, err := NextRun("@daily", from)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}

func TestNextRunWeekly(t *testing.T) {
	// 2024-03-15 is a Friday; the next Sunday is 2024-03-17.
	from := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	next, err := NextRun("@weekly", from)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}

	// From a Sunday, the next run is a full week out.
	sunday := time.Date(2024, 3, 17, 6, 0, 0, 0, time.UTC)
	next, err = NextRun("@weekly", sunday)
	if err != nil {
		t.Fatal(err)
	}
	want = time.Date(2024, 3, 24, 0, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("next from Sunday = %v, want %v", next, want)
	}
}

func TestNextRunInvalid(t *testing.T) {
	from := time.Now()
	for _, expr := range []string{"", "not-a-duration", "-5m", "0s", "@monthly"} {
		if _, err := NextRun(expr, from); err == nil {
			t.Errorf("expected error for %q", expr)
		}
	}
}

func TestRunnerRejectsInvalidExpression(t *testing.T) {
	if _, err := NewRunner("bogus", func() {}); err == nil {
		t.Fatal("expected error for invalid expression")
	}
}

func TestRunnerFires(t *testing.T) {
	var calls atomic.Int32
	r, err := NewRunner("20ms", func() { calls.Add(1) })
	if err != nil {
		t.Fatal(err)
	}
	r.Start()
	time.Sleep(70 * time.Millisecond)
	r.Stop()

	if got := calls.Load(); got < 2 {
		t.Errorf("runner fired %d times, want at least 2", got)
	}
}
