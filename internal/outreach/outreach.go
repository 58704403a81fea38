// Package outreach persists per-parcel contact notes. The log is the
// only mutable persisted state in the system: a pure append log with no
// update, delete, or compaction, holding any number of notes per parcel
// in append order. Notes may reference parcels absent from the current
// dataset snapshot.
package outreach

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/gridscout/internal/model"
)

var (
	// ErrPersist means the backing storage could not be written. The
	// caller must surface it: a failed append never silently drops a note.
	ErrPersist = eris.New("outreach: persist failed")
	// ErrCorrupt means persisted data exists but cannot be parsed.
	// Distinct from an absent log, which reads as empty.
	ErrCorrupt = eris.New("outreach: log corrupt")
)

// Store is the append/read contract for the outreach log. Append assigns
// the note's timestamp; callers never supply one. ReadAll returns notes
// in append order, and an empty slice when no log exists yet.
type Store interface {
	Append(ctx context.Context, note model.OutreachNote) (model.OutreachNote, error)
	ReadAll(ctx context.Context) ([]model.OutreachNote, error)
	Close() error
}
