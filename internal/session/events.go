package session

import (
	"fmt"

	"trivia-quiz/internal/quiz"
)

// Event is anything the update loop consumes: user input, countdown ticks
// and fetch results.
type Event interface {
	eventName() string
}

type StartEvent struct {
	Category string
}

type RetryEvent struct{}

type SelectEvent struct {
	Index int
}

type NextEvent struct{}

type PrevEvent struct{}

type SubmitEvent struct{}

type RestartEvent struct{}

type TickEvent struct {
	Generation uint64
}

type LoadedEvent struct {
	Seq       uint64
	Questions []quiz.Question
}

type FetchFailedEvent struct {
	Seq uint64
	Err error
}

func (StartEvent) eventName() string       { return "start" }
func (RetryEvent) eventName() string       { return "retry" }
func (SelectEvent) eventName() string      { return "select" }
func (NextEvent) eventName() string        { return "next" }
func (PrevEvent) eventName() string        { return "prev" }
func (SubmitEvent) eventName() string      { return "submit" }
func (RestartEvent) eventName() string     { return "restart" }
func (TickEvent) eventName() string        { return "tick" }
func (LoadedEvent) eventName() string      { return "loaded" }
func (FetchFailedEvent) eventName() string { return "fetch_failed" }

// Command is a side effect requested by the state for the controller to run.
type Command interface {
	commandName() string
}

type FetchQuestions struct {
	Seq      uint64
	Category string
}

// StartTicker replaces any running ticker.
type StartTicker struct {
	Generation uint64
}

type StopTicker struct{}

type CancelFetch struct{}

func (FetchQuestions) commandName() string { return "fetch_questions" }
func (StartTicker) commandName() string    { return "start_ticker" }
func (StopTicker) commandName() string     { return "stop_ticker" }
func (CancelFetch) commandName() string    { return "cancel_fetch" }

// Update applies one event to s and returns the side effects to perform.
func Update(s *State, event Event) ([]Command, error) {
	s.TimedOut = false
	switch ev := event.(type) {
	case StartEvent:
		return s.Start(ev.Category)
	case RetryEvent:
		return s.Retry()
	case SelectEvent:
		return nil, s.SelectOption(ev.Index)
	case NextEvent:
		if s.Phase != PhaseActive {
			return nil, ErrNotInProgress
		}
		return s.GoNext(), nil
	case PrevEvent:
		if s.Phase != PhaseActive {
			return nil, ErrNotInProgress
		}
		return s.GoPrev(), nil
	case SubmitEvent:
		if s.Phase != PhaseActive {
			return nil, ErrNotInProgress
		}
		return s.Submit(), nil
	case RestartEvent:
		return s.Restart(), nil
	case TickEvent:
		return s.Tick(ev.Generation), nil
	case LoadedEvent:
		return s.Loaded(ev.Seq, ev.Questions), nil
	case FetchFailedEvent:
		return s.Failed(ev.Seq, ev.Err), nil
	default:
		return nil, fmt.Errorf("unknown event %T", event)
	}
}
