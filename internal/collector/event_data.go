// Package collector holds passive bus subscribers that accumulate run
// statistics for reporting. They never influence control flow.
package collector

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/rollout/internal/event"
)

// Failure is one recorded pipeline failure.
type Failure struct {
	Name  string
	Host  string
	Error string
}

// EventData counts dispatched lifecycle events, failures and log severities.
type EventData struct {
	mu       sync.Mutex
	counts   map[string]int
	levels   map[event.Level]int
	failures []Failure
}

// NewEventData returns an empty collector.
func NewEventData() *EventData {
	return &EventData{
		counts: make(map[string]int),
		levels: make(map[event.Level]int),
	}
}

// Register subscribes the collector to every lifecycle event and to Log.
func (c *EventData) Register(bus *event.Bus) {
	for _, name := range event.Lifecycle() {
		name := name
		bus.Subscribe(name, func(ctx context.Context, ev event.Event) error {
			c.record(name, ev)
			return nil
		})
	}
	bus.Subscribe(event.Log, func(ctx context.Context, ev event.Event) error {
		if entry, ok := ev.(*event.LogEntry); ok {
			c.mu.Lock()
			c.levels[entry.Level]++
			c.mu.Unlock()
		}
		return nil
	})
}

func (c *EventData) record(name string, ev event.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[name]++
	if !event.IsFailure(name) {
		return
	}
	failure := Failure{Name: name}
	if failed, ok := ev.(*event.Failed); ok {
		failure.Host = failed.Host.Name
		if failed.Err != nil {
			failure.Error = failed.Err.Error()
		}
	}
	c.failures = append(c.failures, failure)
}

// Count returns how many times name was dispatched.
func (c *EventData) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[name]
}

// FailedCount returns the number of failure events seen.
func (c *EventData) FailedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.failures)
}

// Failures returns a copy of the recorded failures in dispatch order.
func (c *EventData) Failures() []Failure {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Failure(nil), c.failures...)
}

// LogCount returns how many log events of level were seen.
func (c *EventData) LogCount(level event.Level) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.levels[level]
}

// DegradingLogCount sums the warning-or-worse log events.
func (c *EventData) DegradingLogCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for level, n := range c.levels {
		if level.Degrading() {
			total += n
		}
	}
	return total
}
