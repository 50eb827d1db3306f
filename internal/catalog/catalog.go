package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"trivia-quiz/internal/opentdb"
)

type CategoryFetcher interface {
	FetchCategories(ctx context.Context) ([]opentdb.Category, error)
}

// Resolve maps user input to a category: empty or "any" selects Any, digits
// are looked up by id, anything else by case-insensitive name.
func (s *SQLiteStore) Resolve(ctx context.Context, input string) (Category, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "any") || input == "0" {
		return Any, nil
	}

	if id, err := strconv.Atoi(input); err == nil {
		category, err := s.Get(ctx, id)
		if err != nil {
			return Category{}, fmt.Errorf("category %d: %w", id, err)
		}
		return category, nil
	}

	category, err := s.FindByName(ctx, input)
	if err != nil {
		return Category{}, fmt.Errorf("category %q: %w", input, err)
	}
	return category, nil
}

// Refresh replaces names with the live category list. Existing rows the
// source no longer reports are kept.
func (s *SQLiteStore) Refresh(ctx context.Context, fetcher CategoryFetcher) (int, error) {
	remote, err := fetcher.FetchCategories(ctx)
	if err != nil {
		return 0, err
	}

	categories := make([]Category, 0, len(remote))
	for _, item := range remote {
		if item.ID <= 0 || strings.TrimSpace(item.Name) == "" {
			continue
		}
		categories = append(categories, Category{ID: item.ID, Name: item.Name})
	}
	if err := s.Upsert(ctx, categories); err != nil {
		return 0, err
	}
	return len(categories), nil
}

func DefaultCategories() []Category {
	return []Category{
		{ID: 9, Name: "General Knowledge"},
		{ID: 10, Name: "Entertainment: Books"},
		{ID: 11, Name: "Entertainment: Film"},
		{ID: 12, Name: "Entertainment: Music"},
		{ID: 13, Name: "Entertainment: Musicals & Theatres"},
		{ID: 14, Name: "Entertainment: Television"},
		{ID: 15, Name: "Entertainment: Video Games"},
		{ID: 16, Name: "Entertainment: Board Games"},
		{ID: 17, Name: "Science & Nature"},
		{ID: 18, Name: "Science: Computers"},
		{ID: 19, Name: "Science: Mathematics"},
		{ID: 20, Name: "Mythology"},
		{ID: 21, Name: "Sports"},
		{ID: 22, Name: "Geography"},
		{ID: 23, Name: "History"},
		{ID: 24, Name: "Politics"},
		{ID: 25, Name: "Art"},
		{ID: 26, Name: "Celebrities"},
		{ID: 27, Name: "Animals"},
		{ID: 28, Name: "Vehicles"},
		{ID: 29, Name: "Entertainment: Comics"},
		{ID: 30, Name: "Science: Gadgets"},
		{ID: 31, Name: "Entertainment: Japanese Anime & Manga"},
		{ID: 32, Name: "Entertainment: Cartoon & Animations"},
	}
}
