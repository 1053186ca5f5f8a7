package driver

import (
	"context"
	"time"

	"contractc/internal/observ"
	"contractc/internal/trace"
)

// phases ties together the three views of a pipeline phase: the timer
// behind --timings, the trace span and the optional observer.
type phases struct {
	ctx      context.Context
	timer    *observ.Timer
	observer PhaseObserver
}

type phase struct {
	p       *phases
	name    string
	idx     int
	span    *trace.Span
	started time.Time
}

func (p *phases) begin(name string) *phase {
	tr := trace.FromContext(p.ctx)
	ph := &phase{
		p:       p,
		name:    name,
		idx:     p.timer.Begin(name),
		span:    trace.Begin(tr, trace.ScopePass, name, trace.ParentSpan(p.ctx)),
		started: time.Now(),
	}
	if p.observer != nil {
		p.observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	return ph
}

// context returns a context whose spans nest under this phase.
func (ph *phase) context() context.Context {
	return trace.WithParent(ph.p.ctx, ph.span)
}

func (ph *phase) end(note string) {
	ph.p.timer.End(ph.idx, note)
	ph.span.End(note)
	if ph.p.observer != nil {
		ph.p.observer(PhaseEvent{Name: ph.name, Status: PhaseEnd, Elapsed: time.Since(ph.started), Note: note})
	}
}
