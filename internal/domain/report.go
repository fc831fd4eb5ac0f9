package domain

import (
	"sort"
	"sync"
)

// Process exit statuses derived from a run.
const (
	ExitPassed      = 0
	ExitFailure     = 1
	ExitFatal       = 2
	ExitInterrupted = 130
)

// Report is the run-wide, append-only collection of events. Add is safe for
// concurrent use; readers are expected to run after all writers finished.
type Report struct {
	mu     sync.Mutex
	events []Event
}

func NewReport() *Report {
	return &Report{}
}

// Add appends events as one batch; batches from concurrent writers never interleave.
func (r *Report) Add(events ...Event) {
	if len(events) == 0 {
		return
	}
	r.mu.Lock()
	r.events = append(r.events, events...)
	r.mu.Unlock()
}

// Events returns a copy of all events in append order.
func (r *Report) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Sources returns the distinct source names, sorted.
func (r *Report) Sources() []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range r.Events() {
		if !seen[e.Source] {
			seen[e.Source] = true
			names = append(names, e.Source)
		}
	}
	sort.Strings(names)
	return names
}

// SourceGroup is the slice of a report that one validator produced.
type SourceGroup struct {
	Source string
	Events []Event
}

// Grouped returns events grouped by source, sources sorted by name and
// events kept in append order. Each validator writes only its own events,
// so the result is independent of how validators were scheduled.
func (r *Report) Grouped() []SourceGroup {
	bySource := make(map[string][]Event)
	for _, e := range r.Events() {
		bySource[e.Source] = append(bySource[e.Source], e)
	}
	groups := make([]SourceGroup, 0, len(bySource))
	for _, name := range r.Sources() {
		groups = append(groups, SourceGroup{Source: name, Events: bySource[name]})
	}
	return groups
}

// Summary counts events by state.
type Summary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Failures int `json:"failures"`
	Fatal    int `json:"fatal"`
}

func (r *Report) Summary() Summary {
	var s Summary
	for _, e := range r.Events() {
		s.Total++
		switch e.State {
		case StatePassed:
			s.Passed++
		case StateFatal:
			s.Fatal++
		default:
			s.Failures++
		}
	}
	return s
}

// ExitCode is 0 when every event passed, ExitFatal when any infrastructure
// failure was recorded and ExitFailure otherwise.
func (r *Report) ExitCode() int {
	s := r.Summary()
	switch {
	case s.Fatal > 0:
		return ExitFatal
	case s.Failures > 0:
		return ExitFailure
	default:
		return ExitPassed
	}
}
