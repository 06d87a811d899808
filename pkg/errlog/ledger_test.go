package errlog

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLedger_Record(t *testing.T) {
	l := New(10)

	rec := l.Record(SeverityHigh, CategoryExternalAPI, "fetch failed", map[string]any{"key": "RU000A105EX7"})

	if rec.Severity != SeverityHigh {
		t.Errorf("Severity = %v, want %v", rec.Severity, SeverityHigh)
	}
	if rec.Category != CategoryExternalAPI {
		t.Errorf("Category = %v, want %v", rec.Category, CategoryExternalAPI)
	}
	if rec.Message != "fetch failed" {
		t.Errorf("Message = %q, want %q", rec.Message, "fetch failed")
	}
	if rec.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
	if l.Total() != 1 {
		t.Errorf("Total() = %d, want 1", l.Total())
	}
}

func TestLedger_Record_EmptyCategory(t *testing.T) {
	l := New(10)

	rec := l.Record(SeverityLow, "", "something", nil)
	if rec.Category != CategoryUnknown {
		t.Errorf("Category = %v, want %v for empty input", rec.Category, CategoryUnknown)
	}
}

func TestLedger_Record_ClampsSeverity(t *testing.T) {
	l := New(10)

	rec := l.Record(Severity(99), CategoryCache, "odd severity", nil)
	if rec.Severity != SeverityCritical {
		t.Errorf("Severity = %v, want clamped to %v", rec.Severity, SeverityCritical)
	}

	rec = l.Record(Severity(-3), CategoryCache, "odd severity", nil)
	if rec.Severity != SeverityLow {
		t.Errorf("Severity = %v, want clamped to %v", rec.Severity, SeverityLow)
	}
}

func TestLedger_FIFOBound(t *testing.T) {
	l := New(3)

	for i := 0; i < 5; i++ {
		l.Record(SeverityMedium, CategoryDatabase, fmt.Sprintf("error %d", i), nil)
	}

	if l.Total() != 3 {
		t.Errorf("Total() = %d, want 3 (FIFO bound)", l.Total())
	}

	// Oldest records dropped first: 0 and 1 gone, 2..4 retained.
	recent := l.Recent(3)
	if recent[0].Message != "error 4" {
		t.Errorf("Most recent = %q, want %q", recent[0].Message, "error 4")
	}
	if recent[2].Message != "error 2" {
		t.Errorf("Oldest retained = %q, want %q", recent[2].Message, "error 2")
	}
}

func TestLedger_CriticalCount(t *testing.T) {
	l := New(100)

	l.Record(SeverityLow, CategoryCache, "low", nil)
	l.Record(SeverityMedium, CategoryCache, "medium", nil)
	l.Record(SeverityHigh, CategoryExternalAPI, "high", nil)
	l.Record(SeverityCritical, CategoryDatabase, "critical", nil)
	l.Record(SeverityCritical, CategoryDatabase, "critical 2", nil)

	// HIGH and CRITICAL count by policy.
	if count := l.CriticalCount(0); count != 3 {
		t.Errorf("CriticalCount(0) = %d, want 3", count)
	}
}

func TestLedger_CriticalCount_Window(t *testing.T) {
	l := New(100)

	l.Record(SeverityCritical, CategoryDatabase, "recent", nil)

	// A generous window includes the record; a window in the future
	// relative to the record excludes nothing yet.
	if count := l.CriticalCount(time.Minute); count != 1 {
		t.Errorf("CriticalCount(1m) = %d, want 1", count)
	}

	time.Sleep(15 * time.Millisecond)
	if count := l.CriticalCount(10 * time.Millisecond); count != 0 {
		t.Errorf("CriticalCount(10ms) = %d, want 0 for aged record", count)
	}
}

func TestLedger_CategoryBreakdown(t *testing.T) {
	l := New(100)

	l.Record(SeverityLow, CategoryCache, "a", nil)
	l.Record(SeverityLow, CategoryCache, "b", nil)
	l.Record(SeverityHigh, CategoryExternalAPI, "c", nil)

	breakdown := l.CategoryBreakdown()
	if breakdown[CategoryCache] != 2 {
		t.Errorf("breakdown[cache] = %d, want 2", breakdown[CategoryCache])
	}
	if breakdown[CategoryExternalAPI] != 1 {
		t.Errorf("breakdown[external_api] = %d, want 1", breakdown[CategoryExternalAPI])
	}
}

func TestLedger_SeverityBreakdown(t *testing.T) {
	l := New(100)

	l.Record(SeverityLow, CategoryCache, "a", nil)
	l.Record(SeverityCritical, CategoryDatabase, "b", nil)
	l.Record(SeverityCritical, CategoryDatabase, "c", nil)

	breakdown := l.SeverityBreakdown()
	if breakdown[SeverityLow] != 1 {
		t.Errorf("breakdown[low] = %d, want 1", breakdown[SeverityLow])
	}
	if breakdown[SeverityCritical] != 2 {
		t.Errorf("breakdown[critical] = %d, want 2", breakdown[SeverityCritical])
	}
}

func TestLedger_Reset(t *testing.T) {
	l := New(100)

	l.Record(SeverityCritical, CategoryDatabase, "boom", nil)
	l.Record(SeverityHigh, CategoryExternalAPI, "bang", nil)

	l.Reset()

	if l.Total() != 0 {
		t.Errorf("Total() = %d after Reset, want 0", l.Total())
	}
	if count := l.CriticalCount(0); count != 0 {
		t.Errorf("CriticalCount(0) = %d after Reset, want 0", count)
	}
	if breakdown := l.CategoryBreakdown(); len(breakdown) != 0 {
		t.Errorf("CategoryBreakdown() = %v after Reset, want empty", breakdown)
	}
}

func TestLedger_Recent_Order(t *testing.T) {
	l := New(100)

	l.Record(SeverityLow, CategoryCache, "first", nil)
	l.Record(SeverityLow, CategoryCache, "second", nil)
	l.Record(SeverityLow, CategoryCache, "third", nil)

	recent := l.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("Recent(2) returned %d records, want 2", len(recent))
	}
	if recent[0].Message != "third" || recent[1].Message != "second" {
		t.Errorf("Recent(2) = [%q, %q], want newest first", recent[0].Message, recent[1].Message)
	}

	all := l.Recent(0)
	if len(all) != 3 {
		t.Errorf("Recent(0) returned %d records, want all 3", len(all))
	}
}

func TestLedger_ConcurrentRecord(t *testing.T) {
	l := New(50)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Record(SeverityMedium, CategoryNetwork, "concurrent", nil)
			}
		}()
	}
	wg.Wait()

	if l.Total() != 50 {
		t.Errorf("Total() = %d, want 50 (bound held under concurrency)", l.Total())
	}
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		expected string
	}{
		{SeverityLow, "low"},
		{SeverityMedium, "medium"},
		{SeverityHigh, "high"},
		{SeverityCritical, "critical"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSeverity_Ordering(t *testing.T) {
	if !(SeverityLow < SeverityMedium && SeverityMedium < SeverityHigh && SeverityHigh < SeverityCritical) {
		t.Error("Severities must be ordered LOW < MEDIUM < HIGH < CRITICAL")
	}
}
