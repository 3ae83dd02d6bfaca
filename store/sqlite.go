package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/twystd/outreach/locator"
)

// Template is a saved email template.
type Template struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SQLiteStore holds the local state kept between invocations: the Calendly token, the
// email templates and the most recently located contact.
type SQLiteStore struct {
	db *sql.DB
}

const calendlyToken = "calendlyToken"

// NewSQLiteStore opens (or creates) the database at the given path and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS templates (
	id       TEXT PRIMARY KEY,
	title    TEXT NOT NULL,
	content  TEXT NOT NULL DEFAULT '',
	position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS contact (
	id             INTEGER PRIMARY KEY CHECK (id = 1),
	spreadsheet_id TEXT NOT NULL,
	sheet          TEXT NOT NULL,
	source         TEXT NOT NULL DEFAULT '',
	sheet_row      INTEGER NOT NULL,
	name           TEXT NOT NULL DEFAULT '',
	email          TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT '',
	address        TEXT NOT NULL
);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CalendlyToken returns the stored Calendly personal access token, or "" if none.
func (s *SQLiteStore) CalendlyToken(ctx context.Context) (string, error) {
	var token string

	err := s.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", calendlyToken).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}

	return token, err
}

// SetCalendlyToken stores the Calendly token. An empty token removes it.
func (s *SQLiteStore) SetCalendlyToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		_, err := s.db.ExecContext(ctx, "DELETE FROM metadata WHERE key = ?", calendlyToken)
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, calendlyToken, token)

	return err
}

// Templates returns the saved templates in the order they were created.
func (s *SQLiteStore) Templates(ctx context.Context) ([]Template, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, content FROM templates ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []Template{}
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.Title, &t.Content); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	return templates, rows.Err()
}

// Template returns the template with the given ID, or nil if there is no such template.
func (s *SQLiteStore) Template(ctx context.Context, id string) (*Template, error) {
	var t Template

	err := s.db.QueryRowContext(ctx, "SELECT id, title, content FROM templates WHERE id = ?", id).Scan(&t.ID, &t.Title, &t.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return &t, nil
}

// SaveTemplate stores a template and returns it with its ID. A template without an ID is
// added after the existing templates with a new ID. A template with an ID replaces the
// saved template in place.
func (s *SQLiteStore) SaveTemplate(ctx context.Context, t Template) (Template, error) {
	t.ID = strings.TrimSpace(t.ID)
	t.Title = strings.TrimSpace(t.Title)

	if t.Title == "" {
		return t, fmt.Errorf("Template title is required")
	}

	if t.ID != "" {
		result, err := s.db.ExecContext(ctx, "UPDATE templates SET title = ?, content = ? WHERE id = ?", t.Title, t.Content, t.ID)
		if err != nil {
			return t, err
		}

		if n, err := result.RowsAffected(); err != nil {
			return t, err
		} else if n == 0 {
			return t, fmt.Errorf("Unknown template '%v'", t.ID)
		}

		return t, nil
	}

	t.ID = uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO templates (id, title, content, position)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM templates))
	`, t.ID, t.Title, t.Content)

	return t, err
}

// DeleteTemplate removes a template. Deleting an unknown template is an error.
func (s *SQLiteStore) DeleteTemplate(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM templates WHERE id = ?", id)
	if err != nil {
		return err
	}

	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("Unknown template '%v'", id)
	}

	return nil
}

// Match returns the remembered contact, or nil if there is none.
func (s *SQLiteStore) Match(ctx context.Context) (*locator.MatchResult, error) {
	var m locator.MatchResult

	err := s.db.QueryRowContext(ctx, `
		SELECT spreadsheet_id, sheet, source, sheet_row, name, email, status, address
		FROM contact WHERE id = 1
	`).Scan(&m.SpreadsheetID, &m.Sheet, &m.Source, &m.Row, &m.Name, &m.Email, &m.Status, &m.Address)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return &m, nil
}

// SaveMatch replaces the remembered contact. A nil match clears it.
func (s *SQLiteStore) SaveMatch(ctx context.Context, m *locator.MatchResult) error {
	if m == nil {
		return s.ClearMatch(ctx)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contact (id, spreadsheet_id, sheet, source, sheet_row, name, email, status, address)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			spreadsheet_id = excluded.spreadsheet_id,
			sheet          = excluded.sheet,
			source         = excluded.source,
			sheet_row      = excluded.sheet_row,
			name           = excluded.name,
			email          = excluded.email,
			status         = excluded.status,
			address        = excluded.address
	`, m.SpreadsheetID, m.Sheet, m.Source, m.Row, m.Name, m.Email, m.Status, m.Address)

	return err
}

// ClearMatch forgets the remembered contact.
func (s *SQLiteStore) ClearMatch(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM contact")

	return err
}
