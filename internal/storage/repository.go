// Package storage persists view preferences in a local SQLite database.
// This is the only durable state the application keeps; financial entities
// are re-hydrated from the remote ledger every session and never written
// here.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"financas/internal/core"

	_ "modernc.org/sqlite"
)

const (
	keySelectedPeriod = "selected_period"
	keyViewMode       = "view_mode"
	panelKeyPrefix    = "panel:"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Save implements store.PreferencesWriter. The whole preference set is
// replaced in one transaction so a crash never leaves a torn mix of old
// and new panel states.
func (r *SQLiteRepository) Save(ctx context.Context, p core.Preferences) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin preferences tx: %w", err)
	}
	defer tx.Rollback()

	upsert := `INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

	if _, err := tx.ExecContext(ctx, upsert, keySelectedPeriod, p.SelectedPeriod); err != nil {
		return fmt.Errorf("save selected period: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, keyViewMode, p.ViewMode); err != nil {
		return fmt.Errorf("save view mode: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM preferences WHERE key LIKE ?`, panelKeyPrefix+"%"); err != nil {
		return fmt.Errorf("clear panel states: %w", err)
	}
	for panel, open := range p.OpenPanels {
		value := "0"
		if open {
			value = "1"
		}
		if _, err := tx.ExecContext(ctx, upsert, panelKeyPrefix+panel, value); err != nil {
			return fmt.Errorf("save panel state %q: %w", panel, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit preferences: %w", err)
	}
	return nil
}

// Load reads the persisted preferences. An empty database yields the zero
// value with an initialized panel map.
func (r *SQLiteRepository) Load(ctx context.Context) (core.Preferences, error) {
	prefs := core.Preferences{OpenPanels: make(map[string]bool)}

	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return prefs, fmt.Errorf("load preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return prefs, fmt.Errorf("scan preference row: %w", err)
		}
		switch {
		case key == keySelectedPeriod:
			prefs.SelectedPeriod = value
		case key == keyViewMode:
			prefs.ViewMode = value
		case strings.HasPrefix(key, panelKeyPrefix):
			prefs.OpenPanels[strings.TrimPrefix(key, panelKeyPrefix)] = value == "1"
		}
	}
	if err := rows.Err(); err != nil {
		return prefs, fmt.Errorf("iterate preference rows: %w", err)
	}
	return prefs, nil
}
