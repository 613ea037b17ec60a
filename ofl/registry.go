package ofl

import (
	"fmt"
	"strings"

	"github.com/lumahq/luma/fixture"
	"github.com/lumahq/luma/profile"
)

// Registry hands out shared fixture profiles, building each
// (manufacturer, fixture, mode) combination at most once. The cache is not
// locked: patching happens on one goroutine, and only the immutable profiles
// it produces cross into the universe.
type Registry struct {
	loader   *Loader
	profiles map[string]*profile.Profile // key: "manufacturer/fixture/mode"
}

// NewRegistry opens the fixture library rooted at path.
func NewRegistry(path string) (*Registry, error) {
	loader, err := NewLoader(path)
	if err != nil {
		return nil, err
	}
	return &Registry{
		loader:   loader,
		profiles: make(map[string]*profile.Profile),
	}, nil
}

// Loader exposes the underlying library for listing and discovery.
func (r *Registry) Loader() *Loader {
	return r.loader
}

// Modes lists the operating mode names of a fixture.
func (r *Registry) Modes(manufacturer, fixtureName string) ([]string, error) {
	fix, err := r.loader.Fixture(manufacturer, fixtureName)
	if err != nil {
		return nil, err
	}
	modes := make([]string, len(fix.Modes))
	for i, mode := range fix.Modes {
		modes[i] = mode.Name
	}
	return modes, nil
}

// Profile returns the shared profile for a fixture mode, building and
// caching it on first use.
func (r *Registry) Profile(manufacturer, fixtureName, modeName string) (*profile.Profile, error) {
	key := fmt.Sprintf("%s/%s/%s", manufacturer, fixtureName, modeName)
	if p, ok := r.profiles[key]; ok {
		return p, nil
	}

	fix, err := r.loader.Fixture(manufacturer, fixtureName)
	if err != nil {
		return nil, err
	}
	mode, ok := fix.Mode(modeName)
	if !ok {
		return nil, fmt.Errorf("mode %q not found for fixture %s/%s", modeName, manufacturer, fixtureName)
	}

	p := BuildProfile(fix, mode)
	r.profiles[key] = p
	return p, nil
}

// CreatePatched builds a patch-table entry for a fixture mode at the given
// patch channel and DMX start address.
func (r *Registry) CreatePatched(manufacturer, fixtureName, modeName string, channel, dmxStart int, label string) (*fixture.Patched, error) {
	p, err := r.Profile(manufacturer, fixtureName, modeName)
	if err != nil {
		return nil, err
	}
	return &fixture.Patched{
		ID:       fmt.Sprintf("%s/%s/%s@%d", manufacturer, fixtureName, modeName, channel),
		Channel:  channel,
		Profile:  p,
		DMXStart: dmxStart,
		Label:    label,
	}, nil
}

// SearchResult is one fixture matched by Search.
type SearchResult struct {
	Manufacturer string
	Fixture      string
}

// Search returns every fixture whose name contains the substring,
// case-insensitively, across all manufacturers.
func (r *Registry) Search(substring string) ([]SearchResult, error) {
	all, err := r.loader.DiscoverAll()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(substring)
	var results []SearchResult
	for _, manufacturer := range r.loader.Manufacturers() {
		for _, name := range all[manufacturer] {
			if strings.Contains(strings.ToLower(name), needle) {
				results = append(results, SearchResult{Manufacturer: manufacturer, Fixture: name})
			}
		}
	}
	return results, nil
}
