// Package migrations bootstraps the task schema from embedded SQL files.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

//go:embed *.sql
var schemaFS embed.FS

// Step is one versioned schema file, named NNNNNN_description.sql
type Step struct {
	Version int
	Name    string
	SQL     string
}

// Steps returns the embedded schema steps ordered by version.
func Steps() ([]Step, error) {
	entries, err := schemaFS.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var steps []Step
	for _, entry := range entries {
		version, name, ok := parseStepName(entry.Name())
		if !ok {
			continue
		}
		body, err := schemaFS.ReadFile(entry.Name())
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{Version: version, Name: name, SQL: string(body)})
	}

	slices.SortFunc(steps, func(a, b Step) int { return a.Version - b.Version })
	return steps, nil
}

// Bootstrap brings an empty or partially created database up to the latest
// schema in one transaction. A database written by a newer schema is refused.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	steps, err := Steps()
	if err != nil {
		return fmt.Errorf("load schema steps: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS schema_version (
		version    INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var current int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if latest := Latest(steps); current > latest {
		return fmt.Errorf("schema version %d is newer than the supported version %d", current, latest)
	}

	for _, step := range steps {
		if step.Version <= current {
			continue
		}
		if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
			return fmt.Errorf("apply schema step %d (%s): %w", step.Version, step.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
			step.Version, time.Now().UTC().UnixNano()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Latest returns the highest version in steps, or 0
func Latest(steps []Step) int {
	if len(steps) == 0 {
		return 0
	}
	return steps[len(steps)-1].Version
}

func parseStepName(filename string) (int, string, bool) {
	base, ok := strings.CutSuffix(filename, ".sql")
	if !ok {
		return 0, "", false
	}
	prefix, name, ok := strings.Cut(base, "_")
	if !ok {
		return 0, "", false
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version < 1 {
		return 0, "", false
	}
	return version, name, true
}
