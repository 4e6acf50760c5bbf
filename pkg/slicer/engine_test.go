package slicer

import (
	"context"
	"errors"
	"math"
	"testing"
)

// drain consumes a job's event stream until it closes, returning the
// progress fractions and the single terminal event.
func drain(t *testing.T, j *Job) ([]float64, Event) {
	t.Helper()
	var fractions []float64
	var term Event
	sawTerminal := false
	for ev := range j.Events() {
		switch ev.Kind {
		case EventProgress:
			if sawTerminal {
				t.Fatal("progress after terminal event")
			}
			fractions = append(fractions, ev.Fraction)
		default:
			if sawTerminal {
				t.Fatalf("second terminal event %v", ev.Kind)
			}
			sawTerminal = true
			term = ev
		}
	}
	if !sawTerminal {
		t.Fatal("event stream closed without a terminal event")
	}
	return fractions, term
}

// slowConfig makes a run long enough that a follow-up Submit or Cancel
// lands while it is still slicing.
func slowConfig() Config {
	cfg := testConfig()
	cfg.Thickness = 0.005 // ~2000 planes on a 10 mm cube
	return cfg
}

func TestEngineCompleteDeliversResult(t *testing.T) {
	e := NewEngine()
	j := e.Submit(context.Background(), cuboid(10, 10, 10), testConfig())

	fractions, term := drain(t, j)
	if term.Kind != EventComplete {
		t.Fatalf("terminal = %v (err %v), want complete", term.Kind, term.Err)
	}
	if term.Result == nil || len(term.Result.Panels) != 2 {
		t.Fatalf("result = %+v, want 2 panels", term.Result)
	}
	if j.State() != StateComplete {
		t.Errorf("state = %v, want %v", j.State(), StateComplete)
	}

	// Three planes fit well inside the event buffer, so every fraction
	// arrives.
	want := []float64{1.0 / 3, 2.0 / 3, 1}
	if len(fractions) != len(want) {
		t.Fatalf("fractions = %v, want %v", fractions, want)
	}
	for i := range want {
		if math.Abs(fractions[i]-want[i]) > 1e-12 {
			t.Fatalf("fractions = %v, want %v", fractions, want)
		}
	}
}

func TestEngineSubmitSupersedesInFlightJob(t *testing.T) {
	e := NewEngine()
	m := cuboid(10, 10, 10)
	j1 := e.Submit(context.Background(), m, slowConfig())
	j2 := e.Submit(context.Background(), m, testConfig())

	_, term1 := drain(t, j1)
	if term1.Kind != EventFailed || !errors.Is(term1.Err, ErrSuperseded) {
		t.Fatalf("job1 terminal = %v (err %v), want failed with ErrSuperseded",
			term1.Kind, term1.Err)
	}
	if j1.State() != StateFailed {
		t.Errorf("job1 state = %v, want %v", j1.State(), StateFailed)
	}

	_, term2 := drain(t, j2)
	if term2.Kind != EventComplete {
		t.Fatalf("job2 terminal = %v (err %v), want complete", term2.Kind, term2.Err)
	}
	if len(term2.Result.Panels) != 2 {
		t.Errorf("job2 got %d panels, want 2", len(term2.Result.Panels))
	}
	if j2.State() != StateComplete {
		t.Errorf("job2 state = %v, want %v", j2.State(), StateComplete)
	}
}

func TestEngineJobCancel(t *testing.T) {
	e := NewEngine()
	j := e.Submit(context.Background(), cuboid(10, 10, 10), slowConfig())
	if s := j.State(); s != StateSlicing {
		t.Fatalf("state right after submit = %v, want %v", s, StateSlicing)
	}
	j.Cancel()

	_, term := drain(t, j)
	if term.Kind != EventFailed || !errors.Is(term.Err, context.Canceled) {
		t.Fatalf("terminal = %v (err %v), want failed with context.Canceled",
			term.Kind, term.Err)
	}
	if j.State() != StateFailed {
		t.Errorf("state = %v, want %v", j.State(), StateFailed)
	}
}

func TestEngineInvalidInputFails(t *testing.T) {
	e := NewEngine()
	cfg := testConfig()
	cfg.Thickness = -1
	j := e.Submit(context.Background(), cuboid(10, 10, 10), cfg)

	fractions, term := drain(t, j)
	if len(fractions) != 0 {
		t.Errorf("got progress %v before validation failure", fractions)
	}
	if term.Kind != EventFailed || !errors.Is(term.Err, ErrInvalidInput) {
		t.Fatalf("terminal = %v (err %v), want failed with ErrInvalidInput",
			term.Kind, term.Err)
	}
}

// An engine is reusable: a finished job does not block the next one.
func TestEngineSequentialSubmits(t *testing.T) {
	e := NewEngine()
	m := cuboid(10, 10, 10)
	for i := 0; i < 3; i++ {
		j := e.Submit(context.Background(), m, testConfig())
		_, term := drain(t, j)
		if term.Kind != EventComplete {
			t.Fatalf("submit %d: terminal = %v (err %v)", i, term.Kind, term.Err)
		}
	}
}

func TestLifecycleStrings(t *testing.T) {
	states := map[State]string{
		StateIdle:     "idle",
		StateSlicing:  "slicing",
		StateComplete: "complete",
		StateFailed:   "failed",
		State(42):     "State(42)",
	}
	for s, want := range states {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int32(s), got, want)
		}
	}

	kinds := map[EventKind]string{
		EventProgress: "progress",
		EventComplete: "complete",
		EventFailed:   "failed",
		EventKind(9):  "EventKind(9)",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("EventKind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
