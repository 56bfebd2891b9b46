package tools

import "fmt"

// ResultKind tells what a published value measures
type ResultKind int

const (
	ResultDistance ResultKind = iota
	ResultAngle
	ResultCleared
)

// Result is one published measurement
type Result struct {
	Kind  ResultKind
	Value float64
}

func (r Result) String() string {
	switch r.Kind {
	case ResultDistance:
		return fmt.Sprintf("%.3f m", r.Value)
	case ResultAngle:
		return fmt.Sprintf("%.2f°", r.Value)
	default:
		return ""
	}
}

// Sink receives measurement results
type Sink interface {
	Publish(Result)
}

// LatestSink is a single-value channel: publishing replaces any value the
// consumer has not read yet
type LatestSink struct {
	ch chan Result
}

// NewLatestSink creates an empty sink
func NewLatestSink() *LatestSink {
	return &LatestSink{ch: make(chan Result, 1)}
}

// Publish stores r, dropping an unread previous value
func (s *LatestSink) Publish(r Result) {
	for {
		select {
		case s.ch <- r:
			return
		default:
			select {
			case <-s.ch:
			default:
			}
		}
	}
}

// C returns the receive side of the sink
func (s *LatestSink) C() <-chan Result {
	return s.ch
}

// Take returns the pending value without blocking
func (s *LatestSink) Take() (Result, bool) {
	select {
	case r := <-s.ch:
		return r, true
	default:
		return Result{}, false
	}
}

// Discard drops every published result
type Discard struct{}

// Publish implements Sink
func (Discard) Publish(Result) {}
