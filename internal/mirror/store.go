// Package mirror maintains the local SQLite cache of the server-side
// inventory. The cache is replaced wholesale from the authoritative list
// after every committing operation, so optimistic rows are superseded
// rather than merged. A file lock enforces a single writer across
// processes.
package mirror

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"fridgectl/internal/config"
	"fridgectl/internal/fridge"
	"fridgectl/internal/logging"
)

// ErrLocked indicates another process holds the mirror database.
var ErrLocked = errors.New("mirror database is locked by another fridgectl process")

// Lister fetches the authoritative inventory, normally *fridge.Client.
type Lister interface {
	ListItems(ctx context.Context) ([]fridge.InventoryItem, error)
}

// Store manages mirror persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// Open initializes or connects to the mirror database and acquires the
// writer lock.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.MirrorDBPath()
	lock := flock.New(dbPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire mirror lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
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
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   dbPath,
		lock:   lock,
		logger: logging.NewComponentLogger(logger, "mirror"),
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close releases the database and the writer lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Refresh fetches the authoritative list and replaces the cache in one
// transaction. The returned items reflect the new cache contents.
func (s *Store) Refresh(ctx context.Context, lister Lister) ([]Item, error) {
	items, err := lister.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}
	if err := s.replace(ctx, items); err != nil {
		return nil, err
	}
	s.logger.Debug("mirror refreshed", logging.Int("items", len(items)))
	return s.List(ctx)
}

// ReconcileAfterCommit re-fetches the inventory after a committing
// operation. Optimistic rows are superseded by the authoritative records,
// never merged; the unique server_id index guarantees no duplicates.
func (s *Store) ReconcileAfterCommit(ctx context.Context, lister Lister) error {
	var optimistic int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM items WHERE optimistic = 1`).Scan(&optimistic); err != nil {
		return fmt.Errorf("count optimistic rows: %w", err)
	}
	if _, err := s.Refresh(ctx, lister); err != nil {
		return err
	}
	if optimistic > 0 {
		s.logger.Debug("optimistic rows superseded", logging.Int("count", optimistic))
	}
	return nil
}

func (s *Store) replace(ctx context.Context, items []fridge.InventoryItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear mirror: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, raw := range items {
		item := fromInventoryItem(raw)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items (
                server_id, name, name_folded, quantity, category,
                expiration_date, image_url, image_data, optimistic, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
			nullableID(item.ServerID),
			item.Name,
			fridge.FoldName(item.Name),
			item.Quantity,
			item.Category,
			nullableString(item.ExpirationDate),
			nullableString(item.ImageURL),
			nullableString(item.ImageData),
			now,
		); err != nil {
			return fmt.Errorf("insert item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// ApplyOptimistic inserts a local-only row shown before the server
// confirms the item. It carries no server identifier.
func (s *Store) ApplyOptimistic(ctx context.Context, item Item) (int64, error) {
	if item.Name == "" {
		return 0, errors.New("optimistic item requires a name")
	}
	category := item.Category
	if category == "" {
		category = DefaultCategory
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO items (
            server_id, name, name_folded, quantity, category,
            expiration_date, image_url, image_data, optimistic, updated_at
        ) VALUES (NULL, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		item.Name,
		fridge.FoldName(item.Name),
		item.Quantity,
		category,
		nullableString(item.ExpirationDate),
		nullableString(item.ImageURL),
		nullableString(item.ImageData),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert optimistic item: %w", err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return rowID, nil
}

const itemColumns = `row_id, server_id, name, quantity, category,
    expiration_date, image_url, image_data, optimistic, updated_at`

// List returns the cached inventory ordered by name.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name_folded, row_id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// FindByName looks up a cached item by case-fold name match.
func (s *Store) FindByName(ctx context.Context, name string) (*Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE name_folded = ? ORDER BY optimistic, row_id LIMIT 1`,
		fridge.FoldName(name),
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var (
		item       Item
		serverID   sql.NullInt64
		expiration sql.NullString
		imageURL   sql.NullString
		imageData  sql.NullString
		optimistic int
		updatedAt  string
	)
	if err := row.Scan(
		&item.RowID, &serverID, &item.Name, &item.Quantity, &item.Category,
		&expiration, &imageURL, &imageData, &optimistic, &updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return item, err
		}
		return item, fmt.Errorf("scan item: %w", err)
	}
	if serverID.Valid {
		item.ServerID = serverID.Int64
	}
	item.ExpirationDate = expiration.String
	item.ImageURL = imageURL.String
	item.ImageData = imageData.String
	item.Optimistic = optimistic != 0
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		item.UpdatedAt = ts
	}
	return item, nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
