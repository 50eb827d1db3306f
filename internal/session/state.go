package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"trivia-quiz/internal/quiz"
)

var (
	ErrInvalidOption = errors.New("invalid option")
	ErrNotInProgress = errors.New("no quiz in progress")
	ErrBusy          = errors.New("quiz already in progress")
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseLoading   Phase = "loading"
	PhaseError     Phase = "error"
	PhaseActive    Phase = "active"
	PhaseCompleted Phase = "completed"
)

// State is owned by a single goroutine; every method runs to completion
// before the next event is applied.
type State struct {
	ID           string
	Phase        Phase
	Category     string
	Questions    []quiz.Question
	CurrentIndex int
	Answers      map[int]int
	Score        int
	Completed    bool
	Review       []ReviewItem
	ErrorMessage string
	Timer        Countdown
	// TimedOut is set when the last event was a countdown expiry.
	TimedOut bool

	fetchSeq uint64
}

func NewState(questionSeconds int) *State {
	return &State{
		Phase:   PhaseIdle,
		Answers: make(map[int]int),
		Timer:   NewCountdown(questionSeconds),
	}
}

func (s *State) TimeRemaining() int {
	return s.Timer.Remaining
}

func (s *State) CurrentQuestion() (quiz.Question, bool) {
	if s.Phase != PhaseActive || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return quiz.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

func (s *State) isLast() bool {
	return s.CurrentIndex >= len(s.Questions)-1
}

// Start begins a new session for category and asks for a fetch. Any previous
// question set is dropped.
func (s *State) Start(category string) ([]Command, error) {
	if s.Phase == PhaseLoading || s.Phase == PhaseActive {
		return nil, ErrBusy
	}

	s.clear()
	s.ID = uuid.NewString()
	s.Category = category
	s.Phase = PhaseLoading
	s.fetchSeq++
	return []Command{FetchQuestions{Seq: s.fetchSeq, Category: category}}, nil
}

func (s *State) Retry() ([]Command, error) {
	if s.Phase != PhaseError {
		return nil, ErrBusy
	}
	return s.Start(s.Category)
}

func (s *State) Loaded(seq uint64, questions []quiz.Question) []Command {
	if seq != s.fetchSeq || s.Phase != PhaseLoading {
		return nil
	}
	if len(questions) == 0 {
		return s.Failed(seq, quiz.ErrNoQuestions)
	}

	s.Questions = questions
	s.CurrentIndex = 0
	s.Answers = make(map[int]int)
	s.ErrorMessage = ""
	s.Phase = PhaseActive
	return []Command{StartTicker{Generation: s.Timer.Start()}}
}

// Failed moves to the error phase without installing any questions.
func (s *State) Failed(seq uint64, err error) []Command {
	if seq != s.fetchSeq || s.Phase != PhaseLoading {
		return nil
	}
	s.Questions = nil
	s.Phase = PhaseError
	s.ErrorMessage = err.Error()
	return nil
}

func (s *State) SelectOption(index int) error {
	question, ok := s.CurrentQuestion()
	if !ok {
		return ErrNotInProgress
	}
	if index < 0 || index >= len(question.Options) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidOption, index, len(question.Options))
	}
	s.Answers[s.CurrentIndex] = index
	return nil
}

func (s *State) GoNext() []Command {
	if s.Phase != PhaseActive || s.isLast() {
		return nil
	}
	s.CurrentIndex++
	return []Command{StartTicker{Generation: s.Timer.Reset()}}
}

func (s *State) GoPrev() []Command {
	if s.Phase != PhaseActive || s.CurrentIndex == 0 {
		return nil
	}
	s.CurrentIndex--
	return []Command{StartTicker{Generation: s.Timer.Reset()}}
}

// Submit finalises the session. The score is always recomputed from Answers.
func (s *State) Submit() []Command {
	if s.Phase != PhaseActive {
		return nil
	}
	s.Timer.Stop()
	s.Completed = true
	s.Score = Score(s.Questions, s.Answers)
	s.Review = BuildReview(s.Questions, s.Answers)
	s.Phase = PhaseCompleted
	return []Command{StopTicker{}}
}

// Tick applies a countdown tick. On expiry it advances, or submits when on
// the last question; only the advance restarts the countdown.
func (s *State) Tick(generation uint64) []Command {
	if s.Phase != PhaseActive {
		return nil
	}
	applied, expired := s.Timer.Tick(generation)
	if !applied || !expired {
		return nil
	}
	s.TimedOut = true
	if s.isLast() {
		return s.Submit()
	}
	return s.GoNext()
}

func (s *State) Restart() []Command {
	s.clear()
	s.Phase = PhaseIdle
	s.fetchSeq++
	return []Command{StopTicker{}, CancelFetch{}}
}

func (s *State) clear() {
	s.Timer.Stop()
	s.Timer.Remaining = s.Timer.Duration
	s.Questions = nil
	s.CurrentIndex = 0
	s.Answers = make(map[int]int)
	s.Score = 0
	s.Completed = false
	s.Review = nil
	s.ErrorMessage = ""
}
