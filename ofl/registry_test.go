package ofl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lumahq/luma/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manufacturersJSON = `{
	"$schema": "https://example.org/schema-manufacturers.json",
	"etc": {"name": "ETC", "website": "https://www.etcconnect.com"},
	"shehds": {"name": "Shehds"}
}`

const colorsourceParJSON = `{
	"name": "ColorSource PAR",
	"categories": ["Color Changer"],
	"availableChannels": {
		"Intensity": {"capability": {"type": "Intensity"}},
		"Red": {"capability": {"type": "ColorIntensity", "color": "Red"}},
		"Green": {"capability": {"type": "ColorIntensity", "color": "Green"}},
		"Blue": {"capability": {"type": "ColorIntensity", "color": "Blue"}},
		"Strobe": {"capability": {"type": "Strobe"}}
	},
	"modes": [
		{"name": "5 Channel (Default)", "channels": ["Intensity", "Red", "Green", "Blue", "Strobe"]},
		{"name": "RGB", "channels": ["Red", "Green", "Blue"]}
	]
}`

func writeLibrary(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "manufacturers.json"), []byte(manufacturersJSON), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "etc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "etc", "colorsource-par.json"), []byte(colorsourceParJSON), 0o644))
	return root
}

func TestLoaderManufacturers(t *testing.T) {
	t.Parallel()

	loader, err := NewLoader(writeLibrary(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"etc", "shehds"}, loader.Manufacturers())

	m, ok := loader.Manufacturer("etc")
	require.True(t, ok)
	assert.Equal(t, "ETC", m.Name)
}

func TestLoaderMissingLibrary(t *testing.T) {
	t.Parallel()

	_, err := NewLoader(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestLoaderFixturesFor(t *testing.T) {
	t.Parallel()

	loader, err := NewLoader(writeLibrary(t))
	require.NoError(t, err)

	fixtures, err := loader.FixturesFor("etc")
	require.NoError(t, err)
	assert.Equal(t, []string{"colorsource-par"}, fixtures)

	// A manufacturer without a directory simply has no fixtures.
	fixtures, err = loader.FixturesFor("shehds")
	require.NoError(t, err)
	assert.Empty(t, fixtures)
}

func TestLoaderFixtureCaches(t *testing.T) {
	t.Parallel()

	loader, err := NewLoader(writeLibrary(t))
	require.NoError(t, err)

	first, err := loader.Fixture("etc", "colorsource-par")
	require.NoError(t, err)
	second, err := loader.Fixture("etc", "colorsource-par")
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = loader.Fixture("etc", "does-not-exist")
	require.Error(t, err)
}

func TestRegistryProfileBuildsAndCaches(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(writeLibrary(t))
	require.NoError(t, err)

	p, err := registry.Profile("etc", "colorsource-par", "5 Channel (Default)")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Footprint)
	assert.Equal(t, 0, p.Channels[profile.Intensity])
	assert.Equal(t, 1, p.Channels[profile.Red])

	// Same mode resolves to the same shared instance.
	again, err := registry.Profile("etc", "colorsource-par", "5 Channel (Default)")
	require.NoError(t, err)
	assert.Same(t, p, again)

	// A different mode is a different profile.
	rgb, err := registry.Profile("etc", "colorsource-par", "RGB")
	require.NoError(t, err)
	assert.Equal(t, 3, rgb.Footprint)

	_, err = registry.Profile("etc", "colorsource-par", "8 Channel")
	require.Error(t, err)
}

func TestRegistryModes(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(writeLibrary(t))
	require.NoError(t, err)

	modes, err := registry.Modes("etc", "colorsource-par")
	require.NoError(t, err)
	assert.Equal(t, []string{"5 Channel (Default)", "RGB"}, modes)
}

func TestRegistryCreatePatched(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(writeLibrary(t))
	require.NoError(t, err)

	patched, err := registry.CreatePatched("etc", "colorsource-par", "RGB", 1, 10, "front wash")
	require.NoError(t, err)
	assert.Equal(t, 1, patched.Channel)
	assert.Equal(t, 10, patched.DMXStart)
	assert.Equal(t, "front wash", patched.Label)
	assert.Equal(t, "etc/colorsource-par/RGB@1", patched.ID)

	channels := patched.Channels()
	require.Len(t, channels, 3)
	assert.Equal(t, profile.Red, channels[0].Kind)
	assert.Equal(t, 10, channels[0].Address)
	assert.Equal(t, 12, channels[2].Address)
}

func TestRegistrySearch(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(writeLibrary(t))
	require.NoError(t, err)

	results, err := registry.Search("PAR")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "etc", results[0].Manufacturer)
	assert.Equal(t, "colorsource-par", results[0].Fixture)

	results, err = registry.Search("laser")
	require.NoError(t, err)
	assert.Empty(t, results)
}
