// internal/consultlog/sqlite.go
//
// SQLite backend for deployments that want queryable history. Snapshots
// are stored as JSON blobs; the row itself only carries the columns
// collaborators filter on.

package consultlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fieldops/wayfinder/internal/catalog"
	"github.com/fieldops/wayfinder/internal/routing"
	"github.com/fieldops/wayfinder/internal/rules"
)

const sqliteStoreName = "consultations.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS consultations (
	id TEXT PRIMARY KEY,
	ts INTEGER NOT NULL,
	user_ref TEXT NOT NULL,
	role_key TEXT NOT NULL,
	step_id INTEGER NOT NULL,
	issue_key TEXT NOT NULL,
	rule_snapshot TEXT NOT NULL,
	routing_snapshot TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_consultations_ts ON consultations(ts);
`

// SQLiteStore persists entries in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database under dataDir.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("consultlog: ensure data dir: %w", err)
	}
	path := filepath.Join(dataDir, sqliteStoreName)
	dsn := "file:" + path + "?_pragma=busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("consultlog: open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("consultlog: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append inserts one entry.
func (s *SQLiteStore) Append(entry Entry) error {
	ruleJSON, err := json.Marshal(entry.RuleSnapshot)
	if err != nil {
		return fmt.Errorf("consultlog: encode rule snapshot: %w", err)
	}
	routingJSON, err := json.Marshal(entry.RoutingSnapshot)
	if err != nil {
		return fmt.Errorf("consultlog: encode routing snapshot: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO consultations (id, ts, user_ref, role_key, step_id, issue_key, rule_snapshot, routing_snapshot)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.UnixNano(),
		entry.UserRef,
		string(entry.RoleKey),
		int(entry.StepID),
		string(entry.IssueKey),
		string(ruleJSON),
		string(routingJSON),
	)
	if err != nil {
		return fmt.Errorf("consultlog: insert entry: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest-first.
func (s *SQLiteStore) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT id, ts, user_ref, role_key, step_id, issue_key, rule_snapshot, routing_snapshot
		 FROM consultations ORDER BY ts DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("consultlog: query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry       Entry
			ts          int64
			role, issue string
			stepID      int
			ruleJSON    string
			routingJSON string
		)
		if err := rows.Scan(&entry.ID, &ts, &entry.UserRef, &role, &stepID, &issue, &ruleJSON, &routingJSON); err != nil {
			return nil, fmt.Errorf("consultlog: scan entry: %w", err)
		}
		entry.Timestamp = time.Unix(0, ts)
		entry.RoleKey = catalog.RoleKey(role)
		entry.StepID = catalog.StepID(stepID)
		entry.IssueKey = catalog.IssueKey(issue)
		var rule rules.Rule
		if err := json.Unmarshal([]byte(ruleJSON), &rule); err != nil {
			return nil, fmt.Errorf("consultlog: decode rule snapshot: %w", err)
		}
		entry.RuleSnapshot = rule
		var snapshot routing.Routing
		if err := json.Unmarshal([]byte(routingJSON), &snapshot); err != nil {
			return nil, fmt.Errorf("consultlog: decode routing snapshot: %w", err)
		}
		entry.RoutingSnapshot = snapshot
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("consultlog: iterate entries: %w", err)
	}
	return entries, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func init() {
	Register("sqlite", func(dataDir string) (Store, error) {
		return NewSQLiteStore(dataDir)
	})
}
