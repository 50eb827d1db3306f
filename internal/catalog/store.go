package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

var ErrCategoryNotFound = errors.New("category not found")

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Any is the pseudo category that leaves the source unfiltered.
var Any = Category{ID: 0, Name: "Any Category"}

// Param is the value sent as the category query parameter.
func (c Category) Param() string {
	if c.ID == 0 {
		return ""
	}
	return strconv.Itoa(c.ID)
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = "file:catalog?mode=memory&cache=shared"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// A single connection keeps in-memory databases alive and serialises writes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.seed(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			category_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			name_norm TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_categories_name_norm ON categories(name_norm);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// seed installs the built-in category table on first open only, so a
// refreshed catalog on disk is not overwritten.
func (s *SQLiteStore) seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.Upsert(ctx, DefaultCategories())
}

func (s *SQLiteStore) Upsert(ctx context.Context, categories []Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, category := range categories {
		name := strings.TrimSpace(category.Name)
		if category.ID <= 0 || name == "" {
			continue
		}
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO categories (category_id, name, name_norm) VALUES (?, ?, ?)
			 ON CONFLICT(category_id) DO UPDATE SET
				name = excluded.name,
				name_norm = excluded.name_norm`,
			category.ID,
			name,
			normalizeName(name),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) List(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category_id, name FROM categories ORDER BY category_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var category Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id int) (Category, error) {
	var category Category
	err := s.db.QueryRowContext(ctx, `SELECT category_id, name FROM categories WHERE category_id = ?`, id).
		Scan(&category.ID, &category.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return Category{}, err
	}
	return category, nil
}

func (s *SQLiteStore) FindByName(ctx context.Context, name string) (Category, error) {
	var category Category
	err := s.db.QueryRowContext(ctx, `SELECT category_id, name FROM categories WHERE name_norm = ?`, normalizeName(name)).
		Scan(&category.ID, &category.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return Category{}, err
	}
	return category, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
