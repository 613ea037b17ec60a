package ofl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Loader reads fixture definitions from an OFL-layout directory: a
// manufacturers.json at the root and one <manufacturer>/<fixture>.json per
// fixture. Fixture files are parsed lazily and cached for the process
// lifetime.
type Loader struct {
	root          string
	manufacturers map[string]Manufacturer
	fixtures      map[string]*Fixture // key: "manufacturer/fixture"
}

// NewLoader opens the fixture library rooted at path and reads the
// manufacturers database.
func NewLoader(root string) (*Loader, error) {
	l := &Loader{
		root:     root,
		fixtures: make(map[string]*Fixture),
	}

	data, err := os.ReadFile(filepath.Join(root, "manufacturers.json"))
	if err != nil {
		return nil, fmt.Errorf("reading manufacturers database: %w", err)
	}

	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing manufacturers database: %w", err)
	}

	l.manufacturers = make(map[string]Manufacturer, len(raw))
	for key, entry := range raw {
		// The database carries a "$schema" key alongside the entries.
		if strings.HasPrefix(key, "$") {
			continue
		}
		var m Manufacturer
		if err := json.Unmarshal(entry, &m); err != nil {
			return nil, fmt.Errorf("parsing manufacturer %q: %w", key, err)
		}
		l.manufacturers[key] = m
	}

	return l, nil
}

// Manufacturers returns the manufacturer keys, sorted.
func (l *Loader) Manufacturers() []string {
	keys := maps.Keys(l.manufacturers)
	slices.Sort(keys)
	return keys
}

// Manufacturer returns the database entry for a manufacturer key.
func (l *Loader) Manufacturer(key string) (Manufacturer, bool) {
	m, ok := l.manufacturers[key]
	return m, ok
}

// Fixture loads a fixture definition, reading the file on first use.
func (l *Loader) Fixture(manufacturer, name string) (*Fixture, error) {
	key := manufacturer + "/" + name
	if fix, ok := l.fixtures[key]; ok {
		return fix, nil
	}

	path := filepath.Join(l.root, manufacturer, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", key, err)
	}

	fix := new(Fixture)
	if err := json.Unmarshal(data, fix); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", key, err)
	}

	l.fixtures[key] = fix
	return fix, nil
}

// FixturesFor lists the fixture names available for a manufacturer, sorted.
// A manufacturer without a directory has no fixtures, which is not an error.
func (l *Loader) FixturesFor(manufacturer string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(l.root, manufacturer))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing fixtures for %s: %w", manufacturer, err)
	}

	var fixtures []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		fixtures = append(fixtures, strings.TrimSuffix(entry.Name(), ".json"))
	}
	slices.Sort(fixtures)
	return fixtures, nil
}

// DiscoverAll walks the library and returns every fixture name keyed by
// manufacturer. Unreadable manufacturer directories are skipped.
func (l *Loader) DiscoverAll() (map[string][]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("listing fixture library: %w", err)
	}

	all := make(map[string][]string)
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		fixtures, err := l.FixturesFor(entry.Name())
		if err != nil || len(fixtures) == 0 {
			continue
		}
		all[entry.Name()] = fixtures
	}
	return all, nil
}
