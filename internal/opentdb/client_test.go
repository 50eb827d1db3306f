package opentdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(rt http.RoundTripper) *Client {
	return NewClient(&http.Client{Transport: rt})
}

func jsonResponse(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestFetchQuestionsBuildsQuery(t *testing.T) {
	var seen *http.Request

	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seen = r
		return jsonResponse(http.StatusOK, []byte(`{"response_code":0,"results":[{"question":"Q","correct_answer":"A","incorrect_answers":["B","C","D"]}]}`)), nil
	}))

	questions, err := client.FetchQuestions(context.Background(), Request{Category: "9"})
	if err != nil {
		t.Fatalf("FetchQuestions returned error: %v", err)
	}
	if len(questions) != 1 || questions[0].CorrectAnswer != "A" {
		t.Fatalf("unexpected questions: %+v", questions)
	}

	if seen.URL.Path != "/api.php" {
		t.Fatalf("path = %q, want /api.php", seen.URL.Path)
	}
	query := seen.URL.Query()
	if got := query.Get("amount"); got != "10" {
		t.Fatalf("expected default amount 10, got %q", got)
	}
	if got := query.Get("category"); got != "9" {
		t.Fatalf("category = %q, want 9", got)
	}
	if got := query.Get("type"); got != "multiple" {
		t.Fatalf("type = %q, want multiple", got)
	}
}

func TestFetchQuestionsOmitsEmptyCategory(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.URL.Query().Has("category") {
			t.Errorf("category parameter should be omitted, got %q", r.URL.RawQuery)
		}
		return jsonResponse(http.StatusOK, []byte(`{"response_code":0,"results":[]}`)), nil
	}))

	if _, err := client.FetchQuestions(context.Background(), Request{Amount: 5}); err != nil {
		t.Fatalf("FetchQuestions returned error: %v", err)
	}
}

func TestFetchQuestionsPropagatesNonOKStatus(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, nil), nil
	}))

	_, err := client.FetchQuestions(context.Background(), Request{Amount: 5})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport for non-200 status, got %v", err)
	}
}

func TestFetchQuestionsTransportError(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}))

	_, err := client.FetchQuestions(context.Background(), Request{})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestFetchQuestionsJSONDecodeError(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, []byte("not-json")), nil
	}))

	_, err := client.FetchQuestions(context.Background(), Request{Amount: 3})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport for bad JSON, got %v", err)
	}
}

func TestFetchQuestionsNonZeroResponseCode(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		payload := apiResponse{
			ResponseCode: 1,
			Results: []RawQuestion{
				{Question: "ignored"},
			},
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		return jsonResponse(http.StatusOK, encoded), nil
	}))

	questions, err := client.FetchQuestions(context.Background(), Request{Amount: 3})
	if !errors.Is(err, ErrResponseCode) {
		t.Fatalf("expected ErrResponseCode, got %v", err)
	}
	if questions != nil {
		t.Fatalf("expected no questions on error, got %+v", questions)
	}
}

func TestFetchCategories(t *testing.T) {
	client := NewClientWithBaseURL("http://trivia.test/", &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.URL.String() != "http://trivia.test/api_category.php" {
			t.Errorf("unexpected url %q", r.URL.String())
		}
		return jsonResponse(http.StatusOK, []byte(`{"trivia_categories":[{"id":9,"name":"General Knowledge"},{"id":18,"name":"Science: Computers"}]}`)), nil
	})})

	categories, err := client.FetchCategories(context.Background())
	if err != nil {
		t.Fatalf("FetchCategories returned error: %v", err)
	}
	if len(categories) != 2 || categories[1].ID != 18 || categories[1].Name != "Science: Computers" {
		t.Fatalf("unexpected categories: %+v", categories)
	}
}
