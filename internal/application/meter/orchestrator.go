package meter

import (
	"context"

	"github.com/penwyp/go-agent-meter/internal/core/ledger"
	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/penwyp/go-agent-meter/internal/core/progress"
	"github.com/penwyp/go-agent-meter/internal/presentation/formatter"
	"github.com/penwyp/go-agent-meter/internal/util"
)

// Orchestrator feeds agent events into one ledger and one tracker. It is
// single-threaded: Apply and Run must not be called concurrently.
type Orchestrator struct {
	ledger  *ledger.Ledger
	tracker *progress.Tracker

	applied int
	ignored int
}

// NewOrchestrator wires an existing ledger and tracker together
func NewOrchestrator(l *ledger.Ledger, t *progress.Tracker) *Orchestrator {
	return &Orchestrator{ledger: l, tracker: t}
}

// Apply dispatches one event. Unknown event types are counted and ignored.
func (o *Orchestrator) Apply(event model.Event) {
	switch event.Type {
	case model.EventRecord:
		if event.Cost != nil {
			o.ledger.RecordWithCost(event.Service, event.Model, event.Input, event.Output, *event.Cost)
		} else {
			o.ledger.Record(event.Service, event.Model, event.Input, event.Output)
		}
	case model.EventStart:
		o.tracker.Start(event.Task, event.Total)
	case model.EventStep:
		o.tracker.Step(event.Label)
	case model.EventCurrent:
		o.tracker.SetCurrent(event.Label)
	case model.EventComplete:
		o.tracker.Complete()
	default:
		util.LogWarnf("Ignoring event of unknown type %q", event.Type)
		o.ignored++
		return
	}
	o.applied++
}

// Run applies events until the channel closes or ctx is done
func (o *Orchestrator) Run(ctx context.Context, events <-chan model.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			o.Apply(event)
		}
	}
}

// Report summarizes the ledger
func (o *Orchestrator) Report() formatter.Report {
	return formatter.BuildReport(o.ledger.SessionID(), o.ledger.Records(), o.ledger.Stats())
}

// Counts returns how many events were applied and ignored
func (o *Orchestrator) Counts() (applied, ignored int) {
	return o.applied, o.ignored
}

func (o *Orchestrator) Ledger() *ledger.Ledger {
	return o.ledger
}

func (o *Orchestrator) Tracker() *progress.Tracker {
	return o.tracker
}
