package opentdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultBaseURL = "https://opentdb.com"
	defaultAmount  = 10
	defaultType    = "multiple"
)

var (
	// ErrTransport covers network failures, non-2xx statuses and bodies that
	// cannot be decoded.
	ErrTransport = errors.New("opentdb transport failure")
	// ErrResponseCode is returned when the payload reports a non-zero response_code.
	ErrResponseCode = errors.New("opentdb rejected request")
)

// RawQuestion mirrors the OpenTriviaDB question payload.
type RawQuestion struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Request struct {
	Amount int
	// Category is the numeric category id; empty means any category.
	Category string
	Type     string
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []RawQuestion `json:"results"`
}

type categoriesResponse struct {
	TriviaCategories []Category `json:"trivia_categories"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(httpClient *http.Client) *Client {
	return NewClientWithBaseURL(DefaultBaseURL, httpClient)
}

func NewClientWithBaseURL(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *Client) FetchQuestions(ctx context.Context, request Request) ([]RawQuestion, error) {
	amount := request.Amount
	if amount <= 0 {
		amount = defaultAmount
	}
	questionType := strings.TrimSpace(request.Type)
	if questionType == "" {
		questionType = defaultType
	}

	query := url.Values{}
	query.Set("amount", strconv.Itoa(amount))
	if category := strings.TrimSpace(request.Category); category != "" {
		query.Set("category", category)
	}
	query.Set("type", questionType)

	var payload apiResponse
	if err := c.getJSON(ctx, "/api.php?"+query.Encode(), &payload); err != nil {
		return nil, err
	}

	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("%w: response_code=%d", ErrResponseCode, payload.ResponseCode)
	}

	return payload.Results, nil
}

func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	var payload categoriesResponse
	if err := c.getJSON(ctx, "/api_category.php", &payload); err != nil {
		return nil, err
	}
	return payload.TriviaCategories, nil
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrTransport, err)
	}
	return nil
}
