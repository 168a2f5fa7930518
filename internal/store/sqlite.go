package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One writer; also keeps ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Load reads every list, item and child-list edge.
func (s *SQLiteStore) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	if err := s.db.SelectContext(ctx, &snap.Lists,
		"SELECT id, name, created_at, sort_order FROM lists ORDER BY sort_order, created_at, id",
	); err != nil {
		return nil, fmt.Errorf("querying lists: %w", err)
	}

	if err := s.db.SelectContext(ctx, &snap.Items,
		"SELECT id, list_id, title, status, timestamp, sort_order FROM items ORDER BY list_id, sort_order, timestamp, id",
	); err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}

	if err := s.db.SelectContext(ctx, &snap.Edges,
		"SELECT item_id, list_id, child_pos, parent_pos FROM item_child_lists ORDER BY item_id, child_pos",
	); err != nil {
		return nil, fmt.Errorf("querying child list links: %w", err)
	}

	return snap, nil
}

// Apply writes cs in a single transaction. Deletes run first so that
// cascades settle before upserts and edge rewrites.
func (s *SQLiteStore) Apply(ctx context.Context, cs Changeset) error {
	if cs.Empty() {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := execIn(ctx, tx, "DELETE FROM items WHERE id IN (?)", cs.DeletedItemIDs); err != nil {
		return fmt.Errorf("deleting items: %w", err)
	}
	if err := execIn(ctx, tx, "DELETE FROM lists WHERE id IN (?)", cs.DeletedListIDs); err != nil {
		return fmt.Errorf("deleting lists: %w", err)
	}

	if len(cs.Lists) > 0 {
		stmt, err := tx.PreparexContext(ctx, `
			INSERT INTO lists (id, name, created_at, sort_order)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				sort_order = excluded.sort_order`)
		if err != nil {
			return fmt.Errorf("preparing list upsert: %w", err)
		}
		defer stmt.Close()

		for _, l := range cs.Lists {
			if _, err := stmt.ExecContext(ctx,
				l.ID, l.Name, l.CreatedAt.UTC(), l.Order,
			); err != nil {
				return fmt.Errorf("upserting list %s: %w", l.ID, err)
			}
		}
	}

	if len(cs.Items) > 0 {
		stmt, err := tx.PreparexContext(ctx, `
			INSERT INTO items (id, list_id, title, status, timestamp, sort_order)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				list_id = excluded.list_id,
				title = excluded.title,
				status = excluded.status,
				timestamp = excluded.timestamp,
				sort_order = excluded.sort_order`)
		if err != nil {
			return fmt.Errorf("preparing item upsert: %w", err)
		}
		defer stmt.Close()

		for _, it := range cs.Items {
			if _, err := stmt.ExecContext(ctx,
				it.ID, it.ListID, it.Title, int(it.Status), it.Timestamp.UTC(), it.Order,
			); err != nil {
				return fmt.Errorf("upserting item %s: %w", it.ID, err)
			}
		}
	}

	if err := execIn(ctx, tx, "DELETE FROM item_child_lists WHERE item_id IN (?)", cs.TouchedItemIDs); err != nil {
		return fmt.Errorf("clearing item links: %w", err)
	}
	if err := execIn(ctx, tx, "DELETE FROM item_child_lists WHERE list_id IN (?)", cs.TouchedListIDs); err != nil {
		return fmt.Errorf("clearing list links: %w", err)
	}
	for _, e := range cs.Edges {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO item_child_lists (item_id, list_id, child_pos, parent_pos)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(item_id, list_id) DO UPDATE SET
				child_pos = excluded.child_pos,
				parent_pos = excluded.parent_pos`,
			e.ItemID, e.ListID, e.ChildPos, e.ParentPos,
		); err != nil {
			return fmt.Errorf("linking list %s under item %s: %w", e.ListID, e.ItemID, err)
		}
	}

	return tx.Commit()
}

// execIn runs a single-placeholder IN query for ids, skipping empty input.
func execIn(ctx context.Context, tx *sqlx.Tx, query string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(q), args...)
	return err
}

var _ Store = (*SQLiteStore)(nil)
