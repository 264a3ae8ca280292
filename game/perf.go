package game

import (
	"cmp"
	"slices"
	"time"
)

// PerfStats accumulates per-phase frame costs (step, draw) between round ends.
type PerfStats struct {
	sums   map[string]time.Duration
	counts map[string]int
}

// NewPerfStats creates an empty tracker.
func NewPerfStats() *PerfStats {
	return &PerfStats{
		sums:   make(map[string]time.Duration),
		counts: make(map[string]int),
	}
}

// Record adds a duration sample for the named phase.
func (p *PerfStats) Record(name string, d time.Duration) {
	p.sums[name] += d
	p.counts[name]++
}

// Avg returns the average duration for the named phase.
func (p *PerfStats) Avg(name string) time.Duration {
	n := p.counts[name]
	if n == 0 {
		return 0
	}
	return p.sums[name] / time.Duration(n)
}

// Total returns the sum of all phase averages: the mean cost of one frame.
func (p *PerfStats) Total() time.Duration {
	var total time.Duration
	for name := range p.sums {
		total += p.Avg(name)
	}
	return total
}

// SortedNames returns phase names, most expensive first.
func (p *PerfStats) SortedNames() []string {
	names := make([]string, 0, len(p.sums))
	for name := range p.sums {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		return cmp.Compare(p.Avg(b), p.Avg(a))
	})
	return names
}

// Reset clears all samples.
func (p *PerfStats) Reset() {
	clear(p.sums)
	clear(p.counts)
}
