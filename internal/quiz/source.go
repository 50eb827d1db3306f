package quiz

import (
	"context"
	"errors"
	"fmt"

	"trivia-quiz/internal/opentdb"
)

const DefaultBatchSize = 10

var (
	ErrSourceUnavailable = errors.New("question source unavailable")
	ErrNoQuestions       = errors.New("no questions available")
)

// IsRecoverable reports whether err is a fetch failure the user may retry.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable) || errors.Is(err, ErrNoQuestions)
}

type RawFetcher interface {
	FetchQuestions(ctx context.Context, request opentdb.Request) ([]opentdb.RawQuestion, error)
}

// Source adapts the trivia API to the quiz model. It keeps no state between
// calls, so each fetch yields an independently shuffled set.
type Source struct {
	fetcher      RawFetcher
	builder      Builder
	amount       int
	questionType string
}

type SourceOption func(*Source)

func WithAmount(amount int) SourceOption {
	return func(s *Source) {
		if amount > 0 {
			s.amount = amount
		}
	}
}

func WithQuestionType(questionType string) SourceOption {
	return func(s *Source) {
		if questionType != "" {
			s.questionType = questionType
		}
	}
}

func WithBuilder(builder Builder) SourceOption {
	return func(s *Source) {
		s.builder = builder
	}
}

func NewSource(fetcher RawFetcher, opts ...SourceOption) *Source {
	s := &Source{
		fetcher:      fetcher,
		amount:       DefaultBatchSize,
		questionType: "multiple",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) FetchQuestions(ctx context.Context, category string) ([]Question, error) {
	raw, err := s.fetcher.FetchQuestions(ctx, opentdb.Request{
		Amount:   s.amount,
		Category: category,
		Type:     s.questionType,
	})
	if err != nil {
		if errors.Is(err, opentdb.ErrResponseCode) {
			return nil, fmt.Errorf("%w: %v", ErrNoQuestions, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if len(raw) == 0 {
		return nil, ErrNoQuestions
	}

	return s.builder.Build(raw), nil
}
