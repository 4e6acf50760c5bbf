package slicer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/mesh"
)

// ErrSuperseded reports that a newer Submit replaced a job before it
// finished.
var ErrSuperseded = errors.New("slicer: run superseded by a newer submission")

// State is a job's position in its lifecycle. A job moves from Slicing
// to exactly one of Complete or Failed and never back.
type State int32

const (
	StateIdle State = iota
	StateSlicing
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSlicing:
		return "slicing"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// EventKind discriminates engine messages.
type EventKind int

const (
	EventProgress EventKind = iota
	EventComplete
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventComplete:
		return "complete"
	case EventFailed:
		return "failed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one message from the engine to the host. Fraction is set on
// Progress events and increases monotonically from 0 to 1; Result is
// set on Complete; Err on Failed.
type Event struct {
	Kind     EventKind
	Fraction float64
	Result   *Result
	Err      error
}

// Job is one submitted slicing run. The host owns the receiving end of
// Events and must drain it until it closes.
type Job struct {
	events chan Event
	cancel context.CancelFunc
	state  atomic.Int32
}

// Events delivers zero or more Progress messages followed by exactly
// one Complete or Failed, then closes. Progress sends never block: when
// the host lags, intermediate fractions are dropped. The terminal
// message is always delivered.
func (j *Job) Events() <-chan Event {
	return j.events
}

// State reports the job's current lifecycle position.
func (j *Job) State() State {
	return State(j.state.Load())
}

// Cancel aborts the job. The job still terminates through Events with a
// Failed message.
func (j *Job) Cancel() {
	j.cancel()
}

// Engine runs at most one slicing job at a time. Submitting while a job
// is in flight cancels it, and a generation counter discards the result
// of any superseded job that was already past its last cancellation
// check. The mesh handed to Submit is transferred: the host must not
// mutate it while the job runs.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewEngine creates an Engine with no job in flight.
func NewEngine() *Engine {
	return &Engine{}
}

// Submit starts slicing m under cfg and returns the job handle. Any job
// already in flight on this engine fails with ErrSuperseded.
func (e *Engine) Submit(ctx context.Context, m *mesh.Mesh, cfg Config) *Job {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.generation++
	gen := e.generation
	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.mu.Unlock()

	j := &Job{events: make(chan Event, 8), cancel: cancel}
	j.state.Store(int32(StateSlicing))

	go func() {
		defer close(j.events)
		defer cancel()

		res, err := Run(runCtx, m, cfg, func(done, total int) {
			ev := Event{Kind: EventProgress, Fraction: float64(done) / float64(total)}
			select {
			case j.events <- ev:
			default:
			}
		})

		e.mu.Lock()
		stale := gen != e.generation
		e.mu.Unlock()

		switch {
		case stale:
			j.state.Store(int32(StateFailed))
			j.events <- Event{Kind: EventFailed, Err: ErrSuperseded}
		case err != nil:
			j.state.Store(int32(StateFailed))
			j.events <- Event{Kind: EventFailed, Err: err}
		default:
			j.state.Store(int32(StateComplete))
			j.events <- Event{Kind: EventComplete, Result: res}
		}
	}()
	return j
}
