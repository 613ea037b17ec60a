package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/lumahq/luma/cuelist"
	"github.com/lumahq/luma/fixture"
	"github.com/lumahq/luma/profile"
	"github.com/lumahq/luma/universe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender stands in for a running output loop, recording commands and
// answering queries immediately.
type fakeSender struct {
	sent     []universe.Command
	snapshot [universe.BufferLength]byte
	channels []fixture.ChannelInfo
	fixtures []*fixture.Patched
}

func (f *fakeSender) Send(cmd universe.Command) error {
	f.sent = append(f.sent, cmd)
	switch query := cmd.(type) {
	case universe.GetSnapshot:
		query.Reply <- f.snapshot
	case universe.GetFixtureChannels:
		query.Reply <- f.channels
	case universe.GetFixtures:
		query.Reply <- f.fixtures
	}
	return nil
}

// runScript feeds lines to a console over a fake sender and returns the
// sender and the printed output.
func runScript(t *testing.T, sender *fakeSender, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(sender, cuelist.NewEngine(sender, nil), strings.NewReader(strings.Join(lines, "\n")), &out)
	c.Run()
	return out.String()
}

func TestChannelIntensity(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	runScript(t, sender, "c 1 @ full")

	require.Len(t, sender.sent, 1)
	cmd, ok := sender.sent[0].(universe.SetFixture)
	require.True(t, ok)
	assert.Equal(t, 1, cmd.Channel)
	assert.Equal(t, []universe.FunctionValue{{Kind: profile.Intensity, Value: 255}}, cmd.Values)
}

func TestChannelRGB(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	runScript(t, sender, "c 2 rgb 10 20 30")

	require.Len(t, sender.sent, 1)
	cmd := sender.sent[0].(universe.SetFixture)
	assert.Equal(t, []universe.FunctionValue{
		{Kind: profile.Red, Value: 10},
		{Kind: profile.Green, Value: 20},
		{Kind: profile.Blue, Value: 30},
	}, cmd.Values)
}

func TestChannelColorName(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	runScript(t, sender, "c 1 color amber")

	require.Len(t, sender.sent, 1)
	cmd := sender.sent[0].(universe.SetFixture)
	assert.Equal(t, []universe.FunctionValue{
		{Kind: profile.Red, Value: 255},
		{Kind: profile.Green, Value: 191},
		{Kind: profile.Blue, Value: 0},
	}, cmd.Values)
}

func TestAddressCommand(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	runScript(t, sender, "a 100 @ 128")

	require.Len(t, sender.sent, 1)
	assert.Equal(t, universe.SetAddress{Address: 100, Value: 128}, sender.sent[0])
}

func TestBlackoutCommand(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	out := runScript(t, sender, "blackout")

	require.Len(t, sender.sent, 1)
	assert.Equal(t, universe.Blackout{}, sender.sent[0])
	assert.Contains(t, out, "Blackout applied")
}

func TestRecordAndPlayback(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	sender.snapshot[1] = 200
	out := runScript(t, sender, "record opening 2s", "go", "cues")

	assert.Contains(t, out, `Recorded cue "opening" (fade 2s)`)
	assert.Contains(t, out, "opening")

	var played *universe.PlayCue
	for _, cmd := range sender.sent {
		if play, ok := cmd.(universe.PlayCue); ok {
			played = &play
		}
	}
	require.NotNil(t, played)
	assert.Equal(t, "opening", played.Name)
	assert.Equal(t, 2*time.Second, played.FadeTime)
	assert.Equal(t, byte(200), played.Frame[1])
}

func TestInfoCommand(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{channels: []fixture.ChannelInfo{
		{Kind: profile.Intensity, Offset: 0, Address: 10},
		{Kind: profile.Red, Offset: 1, Address: 11},
	}}
	out := runScript(t, sender, "info 1")

	assert.Contains(t, out, "Intensity")
	assert.Contains(t, out, "10")

	// Unpatched channel: the nil reply becomes an error message.
	out = runScript(t, &fakeSender{}, "info 9")
	assert.Contains(t, out, "no fixture patched on channel 9")
}

func TestFixturesCommand(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{fixtures: []*fixture.Patched{
		{
			ID:      "etc/colorsource-par/RGB@1",
			Channel: 1,
			Profile:  &profile.Profile{Name: "ColorSource PAR (RGB)", Footprint: 3},
			DMXStart: 10,
			Label:    "front wash",
		},
		{
			ID:       "etc/colorsource-par/RGB@2",
			Channel:  2,
			Profile:  &profile.Profile{Name: "ColorSource PAR (RGB)", Footprint: 3},
			DMXStart: 13,
		},
	}}
	out := runScript(t, sender, "fixtures")

	assert.Contains(t, out, "ColorSource PAR (RGB)")
	assert.Contains(t, out, "front wash")
	assert.Contains(t, out, "address  10")

	out = runScript(t, &fakeSender{}, "fixtures")
	assert.Contains(t, out, "No fixtures patched")
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()

	out := runScript(t, &fakeSender{}, "wobble")
	assert.Contains(t, out, `unknown command "wobble"`)
}

func TestBadArgumentsReportErrors(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	out := runScript(t, sender,
		"c one @ 255",
		"c 1 @ 300",
		"a 1 128",
		"goto",
	)

	assert.Empty(t, sender.sent, "malformed commands never reach the output")
	assert.Contains(t, out, "channel must be a number")
	assert.Contains(t, out, "level must be 0-255")
	assert.Contains(t, out, "usage: a <address> @ <value>")
	assert.Contains(t, out, "usage: goto <name|number>")
}

func TestQuitStopsReading(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	runScript(t, sender, "quit", "blackout")
	assert.Empty(t, sender.sent)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in   string
		want byte
	}{
		{"0", 0},
		{"128", 128},
		{"255", 255},
		{"f", 255},
		{"full", 255},
	} {
		got, err := parseLevel(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, in := range []string{"-1", "256", "abc", ""} {
		_, err := parseLevel(in)
		assert.Error(t, err, in)
	}
}

func TestParseFade(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in   string
		want time.Duration
	}{
		{"2s", 2 * time.Second},
		{"500ms", 500 * time.Millisecond},
		{"3", 3 * time.Second},
		{"1.5", 1500 * time.Millisecond},
		{"0", 0},
	} {
		got, err := parseFade(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, in := range []string{"-2s", "-1", "fast"} {
		_, err := parseFade(in)
		assert.Error(t, err, in)
	}
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	r, g, b, err := ParseColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, [3]byte{255, 128, 0}, [3]byte{r, g, b})

	r, g, b, err = ParseColor("RED")
	require.NoError(t, err)
	assert.Equal(t, [3]byte{255, 0, 0}, [3]byte{r, g, b})

	_, _, _, err = ParseColor("chartreuse-ish")
	require.Error(t, err)

	_, _, _, err = ParseColor("#12345")
	require.Error(t, err)
}
