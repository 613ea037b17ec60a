package fixture

import (
	"testing"

	"github.com/lumahq/luma/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelsOrderedByOffset(t *testing.T) {
	t.Parallel()

	p := &Patched{
		ID:      "test/par@1",
		Channel: 1,
		Profile: &profile.Profile{
			Name:      "Test PAR",
			Footprint: 4,
			Channels: map[profile.Kind]int{
				profile.Blue:      3,
				profile.Intensity: 0,
				profile.Green:     2,
				profile.Red:       1,
			},
		},
		DMXStart: 100,
	}

	channels := p.Channels()
	require.Len(t, channels, 4)

	expected := []profile.Kind{profile.Intensity, profile.Red, profile.Green, profile.Blue}
	for i, ch := range channels {
		assert.Equal(t, expected[i], ch.Kind)
		assert.Equal(t, i, ch.Offset)
		assert.Equal(t, 100+i, ch.Address)
	}
}

func TestChannelsEmptyProfile(t *testing.T) {
	t.Parallel()

	p := &Patched{
		Profile:  &profile.Profile{Name: "Bare", Footprint: 1},
		DMXStart: 1,
	}
	assert.Empty(t, p.Channels())
}
