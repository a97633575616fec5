package panel

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type dirReader string

func (d dirReader) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(string(d), name))
}

func TestEmbeddedVariantsValidate(t *testing.T) {
	configs, err := LoadPanelConfigs(dirReader(".."))
	require.NoError(t, err)
	require.Len(t, configs, 4)

	for _, name := range []string{"v1", "v2", "v3", "v4"} {
		cfg, err := FindVariant(configs, name)
		require.NoError(t, err)
		for _, a := range AllActions() {
			b, ok := cfg.Button(a)
			require.True(t, ok, "%s missing %s", name, a)
			require.NotEmpty(t, b.Label)
		}
	}
}

func TestVariantV4Palette(t *testing.T) {
	configs, err := LoadPanelConfigs(dirReader(".."))
	require.NoError(t, err)
	cfg, err := FindVariant(configs, "V4")
	require.NoError(t, err)

	start, _ := cfg.Button(ActionStart)
	require.Equal(t, color.NRGBA{R: 0x00, G: 0xba, B: 0x00, A: 0xff}, start.Base())

	glitch, _ := cfg.Button(ActionBallGlitch)
	require.Equal(t, "(Sorry! Try this button)", glitch.Caption)
	require.Equal(t, color.NRGBA{A: 0xff}, glitch.Text())

	require.Equal(t, color.NRGBA{R: 0x23, G: 0x0e, B: 0x2d, A: 0xff}, cfg.BackgroundColor())
	require.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, cfg.HighlightColor())
}

func TestFindVariantUnknown(t *testing.T) {
	_, err := FindVariant(nil, "v9")
	require.ErrorIs(t, err, ErrUnknownVariant)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PanelConfig)
	}{
		{"too few buttons", func(c *PanelConfig) { c.Buttons = c.Buttons[:4] }},
		{"duplicate action", func(c *PanelConfig) { c.Buttons[1].Action = ActionStart }},
		{"invalid action", func(c *PanelConfig) { c.Buttons[2].Action = Action(9) }},
		{"empty label", func(c *PanelConfig) { c.Buttons[3].Label = "  " }},
		{"missing color", func(c *PanelConfig) { c.Buttons[0].Color = "" }},
		{"bad color", func(c *PanelConfig) { c.Buttons[0].Color = "notacolor" }},
		{"bad background", func(c *PanelConfig) { c.Background = "#zzzzzz" }},
		{"bad highlight", func(c *PanelConfig) { c.Highlight = "nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig().Clone()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.Validate())

	start, _ := cfg.Button(ActionStart)
	require.Equal(t, float32(DefaultLabelSize), start.LabelSize)
	require.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, start.Text())
}

func TestParsePanelConfigs(t *testing.T) {
	data := []byte(`
variants:
  - name: tiny
    buttons:
      - {action: start, label: S, color: "#010203"}
      - {action: reset, label: R, color: red}
      - {action: ball_glitch, label: B, color: yellow}
      - {action: join, label: J, color: blue}
      - {action: skip-turn, label: K, color: purple}
`)
	configs, err := ParsePanelConfigs(data)
	require.NoError(t, err)
	require.Len(t, configs, 1)

	b, ok := configs[0].Button(ActionSkipTurn)
	require.True(t, ok)
	require.Equal(t, "K", b.Label)
	require.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 0xff}, configs[0].Buttons[0].Base())
}

func TestParsePanelConfigsErrors(t *testing.T) {
	_, err := ParsePanelConfigs([]byte("variants: []"))
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParsePanelConfigs([]byte("variants:\n  - name: x\n    buttons:\n      - {action: bowl, label: B, color: red}\n"))
	require.Error(t, err)

	_, err = ParsePanelConfigs([]byte(":::"))
	require.Error(t, err)
}

func TestParseAction(t *testing.T) {
	for _, a := range AllActions() {
		got, err := ParseAction(a.String())
		require.NoError(t, err)
		require.Equal(t, a, got)
	}
	got, err := ParseAction("Skip_Turn")
	require.NoError(t, err)
	require.Equal(t, ActionSkipTurn, got)

	_, err = ParseAction("strike")
	require.Error(t, err)
}

func TestActionEvents(t *testing.T) {
	want := map[Action]EventName{
		ActionStart:      "startGame",
		ActionReset:      "resetGame",
		ActionBallGlitch: "ballGlitch",
		ActionJoin:       "joinGame",
		ActionSkipTurn:   "skipTurn",
	}
	for a, name := range want {
		require.Equal(t, name, a.Event())
	}
	require.Equal(t, EventName(""), Action(-1).Event())
	require.Equal(t, "Action(7)", Action(7).String())
}
