// Package history keeps an audit trail of sync runs in a local sqlite file:
// one row per force-sync with its outcome, product count and timing.
package history

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite" // pure Go driver, no cgo
)

// Run is one recorded force-sync.
type Run struct {
	ID        int64
	Site      string
	Status    string // "success" or "failed"
	Products  int
	Pages     int
	Duration  time.Duration
	Error     string
	StartedAt time.Time
}

// Repository is a thin layer around the sqlite connection.
type Repository struct {
	DB *sql.DB
}

// InitDB opens (or creates) the history database and ensures the schema.
func InitDB(filepath string) *Repository {
	db, err := sql.Open("sqlite", filepath)
	if err != nil {
		log.Fatalf("Error opening history database: %v", err)
	}
	if err = db.Ping(); err != nil {
		log.Fatalf("Error pinging history database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS sync_runs (
		"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"site" TEXT NOT NULL,
		"status" TEXT NOT NULL,
		"products" INTEGER DEFAULT 0,
		"pages" INTEGER DEFAULT 0,
		"duration_ms" INTEGER DEFAULT 0,
		"error" TEXT DEFAULT '',
		"started_at" DATETIME NOT NULL
	);`
	if _, err = db.Exec(createTableSQL); err != nil {
		log.Fatalf("Error creating sync_runs table: %v", err)
	}

	return &Repository{DB: db}
}

// Close closes the database connection.
func (repo *Repository) Close() {
	repo.DB.Close()
}

// RecordRun inserts one sync run row.
func (repo *Repository) RecordRun(run Run) error {
	query := `
	INSERT INTO sync_runs (site, status, products, pages, duration_ms, error, started_at)
	VALUES (?, ?, ?, ?, ?, ?, ?);`

	_, err := repo.DB.Exec(query,
		run.Site, run.Status, run.Products, run.Pages,
		run.Duration.Milliseconds(), run.Error, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("record sync run for %s: %w", run.Site, err)
	}
	return nil
}

// RecentRuns returns the newest runs for a site, most recent first.
func (repo *Repository) RecentRuns(site string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := repo.DB.Query(`
		SELECT id, site, status, products, pages, duration_ms, error, started_at
		FROM sync_runs
		WHERE site = ?
		ORDER BY started_at DESC
		LIMIT ?`, site, limit)
	if err != nil {
		return nil, fmt.Errorf("query sync runs for %s: %w", site, err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var durationMs int64
		if err := rows.Scan(&run.ID, &run.Site, &run.Status, &run.Products,
			&run.Pages, &durationMs, &run.Error, &run.StartedAt); err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
