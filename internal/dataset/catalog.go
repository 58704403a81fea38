package dataset

import (
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Entry is one selectable dataset in the data directory.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

var titleCaser = cases.Title(language.English)

// Scan lists the scored datasets under dir matching the given glob stem
// (e.g. "*_scored"), one entry per file, sorted by display name. The
// display name is the title-cased file stem with the pattern suffix
// stripped: "sussex_scored.gpkg" -> "Sussex". A missing or empty
// directory yields an empty catalog, not an error.
func Scan(dir, pattern string) ([]Entry, error) {
	var entries []Entry
	for _, ext := range []string{".shp", ".gpkg"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern+ext))
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: bad catalog pattern %s", pattern)
		}
		for _, m := range matches {
			entries = append(entries, Entry{
				Name: titleCaser.String(DisplayName(m)),
				Path: m,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Find returns the catalog entry with the given display name.
func Find(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
