package outreach

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/gridscout/internal/model"
)

// On-disk CSV layout of the outreach log.
var csvHeader = []string{"PAMS_PIN", "Contacted", "Notes", "Timestamp"}

const timestampLayout = "2006-01-02 15:04:05"

// CSVStore keeps the outreach log in a headered CSV file. Appending is a
// read-modify-write of the whole file, so a mutex serializes writers:
// without it, two concurrent appends would silently lose one note, which
// is unacceptable for the only mutable state in the system. The rewrite
// goes through a temp file and rename so a failed write never truncates
// the existing log.
type CSVStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewCSVStore creates a store backed by the CSV file at path. The file
// (and its directory) is created on first append.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path, now: time.Now}
}

// Append assigns the current time to the note, rewrites the log with the
// note after all existing records, and returns the stored record.
func (s *CSVStore) Append(ctx context.Context, note model.OutreachNote) (model.OutreachNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.readAllLocked()
	if err != nil {
		return model.OutreachNote{}, err
	}

	note.Timestamp = s.now()
	notes = append(notes, note)

	if err := s.writeAllLocked(notes); err != nil {
		return model.OutreachNote{}, err
	}

	zap.L().Info("outreach note appended",
		zap.String("component", "outreach.csv"),
		zap.String("pams_pin", note.PAMSPin),
		zap.Bool("contacted", note.Contacted),
	)
	return note, nil
}

// ReadAll returns every persisted note in append order. An absent log
// reads as empty.
func (s *CSVStore) ReadAll(ctx context.Context) ([]model.OutreachNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAllLocked()
}

// Close is a no-op; the file is not held open between operations.
func (s *CSVStore) Close() error { return nil }

func (s *CSVStore) readAllLocked() ([]model.OutreachNote, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.OutreachNote{}, nil
		}
		return nil, eris.Wrapf(ErrPersist, "open log: %v", err)
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, eris.Wrapf(ErrCorrupt, "%s: %v", s.path, err)
	}
	if len(records) == 0 {
		return []model.OutreachNote{}, nil
	}
	if !equalHeader(records[0]) {
		return nil, eris.Wrapf(ErrCorrupt, "%s: unexpected header %v", s.path, records[0])
	}

	notes := make([]model.OutreachNote, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, eris.Wrapf(ErrCorrupt, "%s: row %d has %d fields", s.path, i+2, len(rec))
		}
		ts, err := time.ParseInLocation(timestampLayout, rec[3], time.Local)
		if err != nil {
			return nil, eris.Wrapf(ErrCorrupt, "%s: row %d: bad timestamp %q", s.path, i+2, rec[3])
		}
		notes = append(notes, model.OutreachNote{
			PAMSPin:   rec[0],
			Contacted: rec[1] == "Yes",
			Notes:     rec[2],
			Timestamp: ts,
		})
	}
	return notes, nil
}

func (s *CSVStore) writeAllLocked(notes []model.OutreachNote) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(ErrPersist, "create log dir: %v", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".outreach-*.csv")
	if err != nil {
		return eris.Wrapf(ErrPersist, "create temp log: %v", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		_ = tmp.Close()
		return eris.Wrapf(ErrPersist, "write header: %v", err)
	}
	for _, n := range notes {
		contacted := "No"
		if n.Contacted {
			contacted = "Yes"
		}
		rec := []string{n.PAMSPin, contacted, n.Notes, n.Timestamp.Format(timestampLayout)}
		if err := w.Write(rec); err != nil {
			_ = tmp.Close()
			return eris.Wrapf(ErrPersist, "write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return eris.Wrapf(ErrPersist, "flush log: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(ErrPersist, "close temp log: %v", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return eris.Wrapf(ErrPersist, "replace log: %v", err)
	}
	return nil
}

func equalHeader(rec []string) bool {
	if len(rec) != len(csvHeader) {
		return false
	}
	for i, h := range csvHeader {
		if strings.TrimSpace(rec[i]) != h {
			return false
		}
	}
	return true
}
