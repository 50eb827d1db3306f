package httpapi

import "trivia-quiz/internal/catalog"

type startRequest struct {
	Category string `json:"category"`
}

type categoriesResponse struct {
	Categories []catalog.Category `json:"categories"`
}

type errorResponse struct {
	Error string `json:"error"`
}
