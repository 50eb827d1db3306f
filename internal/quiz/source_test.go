package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"trivia-quiz/internal/opentdb"
)

type fetcherFunc func(ctx context.Context, request opentdb.Request) ([]opentdb.RawQuestion, error)

func (f fetcherFunc) FetchQuestions(ctx context.Context, request opentdb.Request) ([]opentdb.RawQuestion, error) {
	return f(ctx, request)
}

func TestSourceFetchQuestionsPassesRequest(t *testing.T) {
	var seen opentdb.Request
	source := NewSource(fetcherFunc(func(ctx context.Context, request opentdb.Request) ([]opentdb.RawQuestion, error) {
		seen = request
		return []opentdb.RawQuestion{sampleRaw()}, nil
	}))

	questions, err := source.FetchQuestions(context.Background(), "18")
	if err != nil {
		t.Fatalf("FetchQuestions returned error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if seen.Amount != 10 || seen.Category != "18" || seen.Type != "multiple" {
		t.Fatalf("unexpected request: %+v", seen)
	}
}

func TestSourceFetchQuestionsMapsErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     []opentdb.RawQuestion
		err     error
		wantErr error
	}{
		{
			name:    "transport",
			err:     fmt.Errorf("%w: status 502", opentdb.ErrTransport),
			wantErr: ErrSourceUnavailable,
		},
		{
			name:    "context cancelled",
			err:     context.Canceled,
			wantErr: ErrSourceUnavailable,
		},
		{
			name:    "response code",
			err:     fmt.Errorf("%w: response_code=1", opentdb.ErrResponseCode),
			wantErr: ErrNoQuestions,
		},
		{
			name:    "empty results",
			raw:     []opentdb.RawQuestion{},
			wantErr: ErrNoQuestions,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			source := NewSource(fetcherFunc(func(ctx context.Context, request opentdb.Request) ([]opentdb.RawQuestion, error) {
				return tc.raw, tc.err
			}))

			questions, err := source.FetchQuestions(context.Background(), "9")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
			if !IsRecoverable(err) {
				t.Fatalf("expected %v to be recoverable", err)
			}
			if questions != nil {
				t.Fatalf("expected no questions, got %+v", questions)
			}
		})
	}
}

func TestSourceFetchQuestionsIndependentCalls(t *testing.T) {
	calls := 0
	source := NewSource(fetcherFunc(func(ctx context.Context, request opentdb.Request) ([]opentdb.RawQuestion, error) {
		calls++
		return []opentdb.RawQuestion{sampleRaw()}, nil
	}), WithAmount(1))

	first, err := source.FetchQuestions(context.Background(), "")
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := source.FetchQuestions(context.Background(), "")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", calls)
	}

	first[0].Options[0] = "mutated"
	if second[0].Options[0] == "mutated" {
		t.Fatalf("question sets share backing storage")
	}
}
