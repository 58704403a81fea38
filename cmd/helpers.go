package main

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/gridscout/internal/config"
	"github.com/sells-group/gridscout/internal/dataset"
	"github.com/sells-group/gridscout/internal/outreach"
)

// newCache builds the session's dataset cache over the configured loader.
func newCache(cfg *config.Config) *dataset.Cache {
	return dataset.NewCache(func(path string) (*dataset.Dataset, error) {
		return dataset.Load(path, cfg.Dataset.EPSG)
	})
}

// newOutreachStore builds the configured outreach backend.
func newOutreachStore(cfg *config.Config) (outreach.Store, error) {
	switch cfg.Outreach.Driver {
	case "csv":
		return outreach.NewCSVStore(cfg.Outreach.LogPath), nil
	case "sqlite":
		return outreach.NewSQLite(cfg.Outreach.DBPath)
	default:
		return nil, eris.Errorf("unknown outreach driver %q", cfg.Outreach.Driver)
	}
}

// resolveDataset maps a --dataset name (or the sole catalog entry) to a
// loadable path.
func resolveDataset(cfg *config.Config, name string) (dataset.Entry, error) {
	entries, err := dataset.Scan(cfg.Dataset.Dir, cfg.Dataset.Pattern)
	if err != nil {
		return dataset.Entry{}, err
	}
	if len(entries) == 0 {
		return dataset.Entry{}, eris.Errorf("no scored datasets found in %s", cfg.Dataset.Dir)
	}
	if name == "" {
		if len(entries) == 1 {
			return entries[0], nil
		}
		return dataset.Entry{}, eris.New("multiple datasets available, pass --dataset")
	}
	entry, ok := dataset.Find(entries, name)
	if !ok {
		return dataset.Entry{}, eris.Errorf("unknown dataset %q", name)
	}
	return entry, nil
}
