// Package queue persists the manual-review queue in SQLite: files whose
// identification did not auto-validate wait here until a human picks a
// candidate or rejects the lot.
package queue

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"cinetree/internal/fileutil"
	"cinetree/internal/match"
	"cinetree/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on incompatible schema changes; the queue holds
// only unresolved reviews, so clearing it on mismatch is acceptable.
const schemaVersion = 1

var (
	ErrSchemaMismatch = errors.New("schema version mismatch")
	ErrNotFound       = errors.New("review item not found")
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store manages review-queue persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the review database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "queue", "open", "empty database path", nil)
	}
	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}
	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

const itemColumns = `id, token, source_path, parsed_title, parsed_year, media_kind,
	reason, candidates_json, status, chosen_candidate, error_message, created_at, updated_at`

// Add inserts a new pending review item and returns it with its assigned
// token and id. Re-adding the same source path returns the existing item
// unchanged so repeated organize runs do not pile up rows.
func (s *Store) Add(ctx context.Context, parsed match.ParsedFilename, sourcePath, reason string, candidates []match.Ranked) (*Item, error) {
	ctx = ensureContext(ctx)
	if existing, err := s.GetBySource(ctx, sourcePath); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	payload, err := json.Marshal(candidates)
	if err != nil {
		return nil, fmt.Errorf("encode candidates: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	token := uuid.NewString()
	res, err := s.execWithRetry(ctx, `
		INSERT INTO review_items (token, source_path, parsed_title, parsed_year, media_kind,
			reason, candidates_json, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		token, sourcePath, parsed.Title, parsed.Year, string(parsed.Kind),
		reason, string(payload), string(StatusPending), now, now)
	if err != nil {
		return nil, fmt.Errorf("insert review item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("review item id: %w", err)
	}
	return s.getBy(ctx, "id = ?", id)
}

// Get returns the item with the given token.
func (s *Store) Get(ctx context.Context, token string) (*Item, error) {
	return s.getBy(ensureContext(ctx), "token = ?", token)
}

// GetBySource returns the item tracking sourcePath.
func (s *Store) GetBySource(ctx context.Context, sourcePath string) (*Item, error) {
	return s.getBy(ensureContext(ctx), "source_path = ?", sourcePath)
}

// List returns items filtered by status, oldest first. No statuses means
// every item.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + itemColumns + " FROM review_items"
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list review items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Resolve marks a pending item validated with the chosen candidate id.
// The candidate must be one of the item's stored candidates.
func (s *Store) Resolve(ctx context.Context, token, candidateID string) (*Item, error) {
	ctx = ensureContext(ctx)
	item, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if item.Status != StatusPending {
		return nil, services.Wrap(services.ErrValidation, "queue", "resolve",
			fmt.Sprintf("item %s is %s, not pending", token, item.Status), nil)
	}
	found := false
	for _, ranked := range item.Candidates {
		if ranked.Candidate.ID == candidateID {
			found = true
			break
		}
	}
	if !found {
		return nil, services.Wrap(services.ErrValidation, "queue", "resolve",
			fmt.Sprintf("candidate %s is not among the stored candidates", candidateID), nil)
	}
	if err := s.setStatus(ctx, token, StatusValidated, candidateID, ""); err != nil {
		return nil, err
	}
	return s.Get(ctx, token)
}

// Reject marks a pending item rejected with an optional note.
func (s *Store) Reject(ctx context.Context, token, note string) (*Item, error) {
	ctx = ensureContext(ctx)
	item, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if item.Status != StatusPending {
		return nil, services.Wrap(services.ErrValidation, "queue", "reject",
			fmt.Sprintf("item %s is %s, not pending", token, item.Status), nil)
	}
	if err := s.setStatus(ctx, token, StatusRejected, "", note); err != nil {
		return nil, err
	}
	return s.Get(ctx, token)
}

// Remove deletes the item with the given token.
func (s *Store) Remove(ctx context.Context, token string) error {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx, "DELETE FROM review_items WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("delete review item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, token)
	}
	return nil
}

// Clear drops every item, returning the number removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ensureContext(ctx), "DELETE FROM review_items")
	if err != nil {
		return 0, fmt.Errorf("clear review items: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) setStatus(ctx context.Context, token string, status Status, chosen, errMsg string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(ctx, `
		UPDATE review_items
		SET status = ?, chosen_candidate = ?, error_message = ?, updated_at = ?
		WHERE token = ?`,
		string(status), chosen, errMsg, now, token)
	if err != nil {
		return fmt.Errorf("update review item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, token)
	}
	return nil
}

func (s *Store) getBy(ctx context.Context, where string, arg any) (*Item, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM review_items WHERE "+where, arg)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, arg)
	}
	return item, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var (
		item           Item
		kind           string
		status         string
		candidatesJSON string
		createdAt      string
		updatedAt      string
	)
	err := row.Scan(&item.ID, &item.Token, &item.SourcePath, &item.ParsedTitle, &item.ParsedYear,
		&kind, &item.Reason, &candidatesJSON, &status, &item.ChosenCandidate,
		&item.ErrorMessage, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	item.Kind = match.MediaKind(kind)
	item.Status = Status(status)
	if err := json.Unmarshal([]byte(candidatesJSON), &item.Candidates); err != nil {
		return nil, fmt.Errorf("decode candidates for %s: %w", item.Token, err)
	}
	if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
		item.CreatedAt = ts
	}
	if ts, parseErr := time.Parse(time.RFC3339Nano, updatedAt); parseErr == nil {
		item.UpdatedAt = ts
	}
	return &item, nil
}
