package epic

import (
	"sync"
	"time"
)

// Measure is an Option recording wall-clock durations per act name.
type Measure struct {
	mu        sync.Mutex
	durations map[string]time.Duration
	counts    map[string]int64
}

// NewMeasure creates an empty measure.
func NewMeasure() *Measure {
	return &Measure{
		durations: make(map[string]time.Duration),
		counts:    make(map[string]int64),
	}
}

// New implements Option.
func (m *Measure) New() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.durations == nil {
		m.durations = make(map[string]time.Duration)
	}
	if m.counts == nil {
		m.counts = make(map[string]int64)
	}

	return nil
}

// PrepareAct implements Option.
func (m *Measure) PrepareAct(_, _ Info) error {
	return nil
}

// OnActDone implements Option.
func (m *Measure) OnActDone(act Info, elapsed time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations[act.Name] += elapsed
	m.counts[act.Name]++

	return nil
}

// Finish implements Option.
func (m *Measure) Finish() error {
	return nil
}

// Count returns how many times an act with the given name ran.
func (m *Measure) Count(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.counts[name]
}

// AvgDuration returns the average duration of the act with the given name.
func (m *Measure) AvgDuration(name string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts[name] == 0 {
		return 0
	}

	return round(time.Duration(float64(m.durations[name]) / float64(m.counts[name])))
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Hour)
	case d > time.Minute:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}
