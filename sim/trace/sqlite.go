package trace

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// ErrNilTrace is returned when exporting a nil trace.
var ErrNilTrace = errors.New("nil trace")

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
	run_id  TEXT    NOT NULL,
	idx     INTEGER NOT NULL,
	name    TEXT,
	time    REAL    NOT NULL,
	status  TEXT    NOT NULL,
	outcome TEXT    NOT NULL,
	error   TEXT,
	context TEXT,
	PRIMARY KEY (run_id, idx)
)`

const insertEvent = `
INSERT INTO events (run_id, idx, name, time, status, outcome, error, context)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// WriteSQLite stores the trace in the events table of the SQLite database at
// path, creating the file and table if needed. Several runs can share one
// database; rows are keyed by RunID.
func WriteSQLite(path string, st *SimulationTrace) error {
	if st == nil {
		return ErrNilTrace
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open trace database %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(createEventsTable); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(insertEvent)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range st.Events {
		var ctxJSON sql.NullString
		if r.Context != nil {
			data, err := json.Marshal(r.Context)
			if err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("encode context of event %d: %w", r.Index, err)
			}
			ctxJSON = sql.NullString{String: string(data), Valid: true}
		}

		_, err := stmt.Exec(
			st.RunID,
			r.Index,
			r.Name,
			r.Time,
			r.Status,
			string(r.Outcome),
			r.Error,
			ctxJSON,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert event %d: %w", r.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trace: %w", err)
	}
	return nil
}

// ReadSQLite loads the records of one run back from a database written by
// WriteSQLite, in pop order.
func ReadSQLite(path string, runID string) ([]EventRecord, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open trace database %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT idx, name, time, status, outcome, error, context
		FROM events WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	records := []EventRecord{}
	for rows.Next() {
		var (
			r       EventRecord
			outcome string
			ctxJSON sql.NullString
		)
		if err := rows.Scan(&r.Index, &r.Name, &r.Time, &r.Status, &outcome, &r.Error, &ctxJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		r.Outcome = Outcome(outcome)
		if ctxJSON.Valid {
			if err := json.Unmarshal([]byte(ctxJSON.String), &r.Context); err != nil {
				return nil, fmt.Errorf("decode context of event %d: %w", r.Index, err)
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
