package outreach

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/gridscout/internal/model"
)

// SQLiteStore implements Store on modernc.org/sqlite. Unlike the CSV
// backend, an append is a single INSERT with no read of prior content,
// so concurrent appends cannot lose notes.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (creating if needed) the outreach database at dsn and
// configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "outreach: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "outreach: exec %s", pragma)
		}
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS outreach_notes (
	id         TEXT PRIMARY KEY,
	pams_pin   TEXT NOT NULL,
	contacted  INTEGER NOT NULL,
	notes      TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	seq        INTEGER
);

CREATE INDEX IF NOT EXISTS idx_outreach_notes_pams_pin ON outreach_notes(pams_pin);
`

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(sqliteMigration)
	return eris.Wrap(err, "outreach: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append inserts the note with a store-assigned timestamp and returns the
// stored record.
func (s *SQLiteStore) Append(ctx context.Context, note model.OutreachNote) (model.OutreachNote, error) {
	note.Timestamp = s.now()

	contacted := 0
	if note.Contacted {
		contacted = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outreach_notes (id, pams_pin, contacted, notes, created_at, seq)
		 VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM outreach_notes))`,
		uuid.New().String(), note.PAMSPin, contacted, note.Notes,
		note.Timestamp.Format(timestampLayout),
	)
	if err != nil {
		return model.OutreachNote{}, eris.Wrapf(ErrPersist, "insert note: %v", err)
	}
	return note, nil
}

// ReadAll returns every note in append order.
func (s *SQLiteStore) ReadAll(ctx context.Context) ([]model.OutreachNote, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pams_pin, contacted, notes, created_at FROM outreach_notes ORDER BY seq`)
	if err != nil {
		return nil, eris.Wrapf(ErrPersist, "query notes: %v", err)
	}
	defer rows.Close()

	notes := []model.OutreachNote{}
	for rows.Next() {
		var (
			n         model.OutreachNote
			contacted int
			created   string
		)
		if err := rows.Scan(&n.PAMSPin, &contacted, &n.Notes, &created); err != nil {
			return nil, eris.Wrapf(ErrCorrupt, "scan note: %v", err)
		}
		ts, err := time.ParseInLocation(timestampLayout, created, time.Local)
		if err != nil {
			return nil, eris.Wrapf(ErrCorrupt, "bad timestamp %q", created)
		}
		n.Contacted = contacted != 0
		n.Timestamp = ts
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(ErrPersist, "iterate notes: %v", err)
	}
	return notes, nil
}
