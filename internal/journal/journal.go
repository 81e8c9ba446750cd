package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Entry is one finished timer run.
type Entry struct {
	ID        string
	StartedAt time.Time
	StoppedAt time.Time
	Elapsed   time.Duration
	Target    time.Duration
	HasTarget bool
	Completed bool
}

// Totals summarises entries since a point in time.
type Totals struct {
	Sessions  int
	Completed int
	Elapsed   time.Duration
}

// Journal stores finished sessions in SQLite.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal database at path.
func Open(path string) (*Journal, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// single connection serialises writers
	db.SetMaxOpenConns(1)

	journal := &Journal{db: db}
	if err := journal.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return journal, nil
}

// Close releases the database.
func (journal *Journal) Close() error {
	return journal.db.Close()
}

func (journal *Journal) initSchema() error {
	_, err := journal.db.Exec(`
        CREATE TABLE IF NOT EXISTS sessions (
            id TEXT PRIMARY KEY,
            started_at DATETIME NOT NULL,
            stopped_at DATETIME NOT NULL,
            elapsed_ms INTEGER NOT NULL,
            target_ms INTEGER,
            completed BOOLEAN NOT NULL DEFAULT 0
        );
        CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);
    `)
	return err
}

// Record stores entry, assigning an ID when it has none.
func (journal *Journal) Record(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	var target sql.NullInt64
	if entry.HasTarget {
		target = sql.NullInt64{Int64: entry.Target.Milliseconds(), Valid: true}
	}

	_, err := journal.db.ExecContext(ctx, `
        INSERT INTO sessions (id, started_at, stopped_at, elapsed_ms, target_ms, completed)
        VALUES (?, ?, ?, ?, ?, ?)
    `, entry.ID, entry.StartedAt.UTC(), entry.StoppedAt.UTC(), entry.Elapsed.Milliseconds(), target, entry.Completed)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (journal *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := journal.db.QueryContext(ctx, `
        SELECT id, started_at, stopped_at, elapsed_ms, target_ms, completed
        FROM sessions
        ORDER BY started_at DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			elapsedMs int64
			target    sql.NullInt64
		)
		if err := rows.Scan(&entry.ID, &entry.StartedAt, &entry.StoppedAt, &elapsedMs, &target, &entry.Completed); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		entry.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		if target.Valid {
			entry.Target = time.Duration(target.Int64) * time.Millisecond
			entry.HasTarget = true
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Totals summarises sessions started at or after since.
func (journal *Journal) Totals(ctx context.Context, since time.Time) (Totals, error) {
	var (
		totals    Totals
		elapsedMs int64
	)
	err := journal.db.QueryRowContext(ctx, `
        SELECT
            COUNT(*),
            COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(elapsed_ms), 0)
        FROM sessions
        WHERE started_at >= ?
    `, since.UTC()).Scan(&totals.Sessions, &totals.Completed, &elapsedMs)
	if err != nil {
		return Totals{}, fmt.Errorf("query totals: %w", err)
	}
	totals.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	return totals, nil
}
