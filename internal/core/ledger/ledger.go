// Package ledger accounts for the monetary cost of API usage over a session.
//
// A Ledger is an append-only sequence of call records. Costs are derived from
// a rate lookup when not supplied and are summed without intermediate
// rounding. A Ledger is not safe for concurrent mutation: callers sharing one
// instance must serialize Record calls themselves.
package ledger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/penwyp/go-agent-meter/internal/util"
)

// RateLookup resolves the rate for a service/model pair. Misses must return
// the zero Rate.
type RateLookup interface {
	Lookup(service, modelName string) model.Rate
}

// Observer is notified of every appended record
type Observer interface {
	OnRecord(record model.CallRecord)
}

// Option configures a Ledger
type Option func(*Ledger)

// WithWriter sets the sink Display writes to
func WithWriter(w io.Writer) Option {
	return func(l *Ledger) {
		l.out = w
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithObserver registers an observer
func WithObserver(o Observer) Option {
	return func(l *Ledger) {
		l.observers = append(l.observers, o)
	}
}

// Ledger tracks billable calls for one session
type Ledger struct {
	rates     RateLookup
	out       io.Writer
	now       func() time.Time
	observers []Observer

	sessionID string
	startedAt time.Time
	records   []model.CallRecord
	total     float64
}

// New creates a ledger. The session starts now.
func New(rates RateLookup, opts ...Option) *Ledger {
	l := &Ledger{
		rates:     rates,
		out:       os.Stdout,
		now:       time.Now,
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.startedAt = l.now()
	return l
}

// Record appends a call whose cost is derived from the rate table, then
// displays the running summary.
func (l *Ledger) Record(service, modelName string, inputUnits, outputUnits int64) model.CallRecord {
	var rate model.Rate
	if l.rates != nil {
		rate = l.rates.Lookup(service, modelName)
	}
	return l.append(service, modelName, inputUnits, outputUnits, rate.Cost(inputUnits, outputUnits))
}

// RecordWithCost appends a call with a precomputed cost, then displays the
// running summary.
func (l *Ledger) RecordWithCost(service, modelName string, inputUnits, outputUnits int64, cost float64) model.CallRecord {
	return l.append(service, modelName, inputUnits, outputUnits, cost)
}

func (l *Ledger) append(service, modelName string, inputUnits, outputUnits int64, cost float64) model.CallRecord {
	record := model.CallRecord{
		Service:     service,
		Model:       modelName,
		InputUnits:  inputUnits,
		OutputUnits: outputUnits,
		Cost:        cost,
		RecordedAt:  l.now(),
	}
	l.records = append(l.records, record)
	l.total += cost

	util.LogDebug("Recorded call",
		util.F("session", l.sessionID),
		util.F("key", record.Key()),
		util.F("input", inputUnits),
		util.F("output", outputUnits),
		util.F("cost", cost))

	for _, o := range l.observers {
		o.OnRecord(record)
	}

	l.Display()
	return record
}

// TotalCost returns the unrounded sum of every record's cost
func (l *Ledger) TotalCost() float64 {
	return l.total
}

// Stats returns the total cost, call count and time since session start
func (l *Ledger) Stats() model.LedgerStats {
	return model.LedgerStats{
		TotalCost:      l.total,
		CallCount:      len(l.records),
		ElapsedSeconds: l.now().Sub(l.startedAt).Seconds(),
	}
}

// Display writes a one-line summary to the ledger's sink
func (l *Ledger) Display() {
	if l.out == nil {
		return
	}
	if _, err := fmt.Fprintln(l.out, l.Summary()); err != nil {
		util.LogDebugf("Failed to write ledger summary: %v", err)
	}
}

// Summary is the line Display writes
func (l *Ledger) Summary() string {
	stats := l.Stats()
	return fmt.Sprintf("%s Cost: %s | Calls: %d | Time: %s",
		util.GlyphCost,
		util.FormatCost(stats.TotalCost, 4),
		stats.CallCount,
		util.FormatElapsed(stats.Elapsed()))
}

// Indicator returns a compact status for embedding in other output
func (l *Ledger) Indicator() string {
	return fmt.Sprintf("%s · %d calls", util.FormatCost(l.total, 3), len(l.records))
}

// Records returns a copy of the records in insertion order
func (l *Ledger) Records() []model.CallRecord {
	out := make([]model.CallRecord, len(l.records))
	copy(out, l.records)
	return out
}

// SessionID identifies this ledger's session
func (l *Ledger) SessionID() string {
	return l.sessionID
}
