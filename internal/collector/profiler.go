package collector

import (
	"context"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/rollout/internal/event"
)

// Entry is one profiled lifecycle event. Elapsed is the time since the
// previous entry, or since the profiler started for the first one. With the
// profiler subscribed after the tasks, that is the time spent handling the
// event the entry is named after.
type Entry struct {
	Name    string
	At      time.Time
	Elapsed time.Duration
}

// Profiler timestamps lifecycle events as they are dispatched.
type Profiler struct {
	mu      sync.Mutex
	now     func() time.Time
	start   time.Time
	entries []Entry
}

// NewProfiler returns a profiler whose clock starts now.
func NewProfiler() *Profiler {
	return newProfiler(time.Now)
}

func newProfiler(now func() time.Time) *Profiler {
	return &Profiler{now: now, start: now()}
}

// Register subscribes the profiler to every lifecycle event. Call it after
// the subscribers doing the work.
func (p *Profiler) Register(bus *event.Bus) {
	for _, name := range event.Lifecycle() {
		name := name
		bus.Subscribe(name, func(ctx context.Context, ev event.Event) error {
			p.record(name)
			return nil
		})
	}
}

func (p *Profiler) record(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	at := p.now()
	prev := p.start
	if n := len(p.entries); n > 0 {
		prev = p.entries[n-1].At
	}
	p.entries = append(p.entries, Entry{Name: name, At: at, Elapsed: at.Sub(prev)})
}

// Entries returns a copy of the recorded entries.
func (p *Profiler) Entries() []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Entry(nil), p.entries...)
}

// Total is the time between the profiler start and the last entry.
func (p *Profiler) Total() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.entries) == 0 {
		return 0
	}
	return p.entries[len(p.entries)-1].At.Sub(p.start)
}

// ByName sums elapsed time per event name.
func (p *Profiler) ByName() map[string]time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]time.Duration)
	for _, entry := range p.entries {
		out[entry.Name] += entry.Elapsed
	}
	return out
}
