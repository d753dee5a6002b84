// Package profile provides named step timing counters for bracketing
// expensive operations. A Timer is intended to be owned by a single
// goroutine; collect one per worker and combine them with Merge.
package profile

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// stepStats accumulates the measurements for one named step
type stepStats struct {
	started time.Time
	total   time.Duration
	count   uint64
	extra   uint64
}

// Timer accumulates per-step durations and hit counts. Not safe for
// concurrent use; callers that share one across goroutines must provide
// their own synchronization.
type Timer struct {
	steps map[string]*stepStats
}

// NewTimer creates an empty Timer.
func NewTimer() *Timer {
	return &Timer{steps: make(map[string]*stepStats)}
}

func (t *Timer) step(name string) *stepStats {
	s, ok := t.steps[name]
	if !ok {
		s = &stepStats{}
		t.steps[name] = s
	}
	return s
}

// Start marks the beginning of a step. Each Record must be preceded by a
// Start for the same step.
func (t *Timer) Start(name string) {
	t.step(name).started = time.Now()
}

// Record closes the bracket opened by Start, adding the elapsed time to the
// step's total and incrementing its hit count.
func (t *Timer) Record(name string) {
	t.RecordN(name, 0)
}

// RecordN is Record with an additional application-defined count (bytes
// moved, entries compacted, ...) accumulated alongside the timing.
func (t *Timer) RecordN(name string, extra uint64) {
	s := t.step(name)
	if s.started.IsZero() {
		// Record without a matching Start; count the hit, skip the timing.
		s.count++
		s.extra += extra
		return
	}
	s.total += time.Since(s.started)
	s.count++
	s.extra += extra
	s.started = time.Time{}
}

// Merge folds other's accumulated measurements into t. Steps present in
// both are summed; other is left unchanged.
func (t *Timer) Merge(other *Timer) {
	if other == nil {
		return
	}
	for name, os := range other.steps {
		if os.count == 0 {
			continue
		}
		s := t.step(name)
		s.total += os.total
		s.count += os.count
		s.extra += os.extra
	}
}

// Reset discards all accumulated measurements.
func (t *Timer) Reset() {
	t.steps = make(map[string]*stepStats)
}

// Steps returns the recorded step names in sorted order.
func (t *Timer) Steps() []string {
	names := make([]string, 0, len(t.steps))
	for name, s := range t.steps {
		if s.count > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Total returns the accumulated duration for a step.
func (t *Timer) Total(name string) time.Duration {
	if s, ok := t.steps[name]; ok {
		return s.total
	}
	return 0
}

// Count returns the number of recorded hits for a step.
func (t *Timer) Count(name string) uint64 {
	if s, ok := t.steps[name]; ok {
		return s.count
	}
	return 0
}

// Extra returns the accumulated additional count for a step.
func (t *Timer) Extra(name string) uint64 {
	if s, ok := t.steps[name]; ok {
		return s.extra
	}
	return 0
}

// Report renders the accumulated measurements as text, one line per step in
// sorted order. Steps that were never recorded are omitted.
func (t *Timer) Report() string {
	var b strings.Builder
	for _, name := range t.Steps() {
		s := t.steps[name]
		fmt.Fprintf(&b, "%s: total: %s count: %d extra: %d\n",
			name, s.total, s.count, s.extra)
	}
	return b.String()
}
