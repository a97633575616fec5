package panel

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/mazznoer/csscolorparser"
	"gopkg.in/yaml.v3"
)

// ContentReader reads files from the embedded asset tree.
type ContentReader interface {
	ReadFile(name string) ([]byte, error)
}

// PanelsFile is where the variant catalogue lives inside the asset tree.
const PanelsFile = "assets/panels.yaml"

// UI constants
const (
	ButtonSize         = 100
	ButtonPadding      = 5
	ButtonSpacing      = 20
	StartSeparation    = 100
	DefaultLabelSize   = 14
	DefaultCaptionSize = 10
	PanelWidth         = 600
	PanelHeight        = 300
	DefaultHighlight   = "white"
	DefaultBackground  = "#230e2d"
	DefaultBorder      = "#70128d"
)

var (
	// ErrInvalidConfig wraps every panel validation failure.
	ErrInvalidConfig = errors.New("invalid panel config")
	// ErrUnknownVariant is returned when a named variant is not in the catalogue.
	ErrUnknownVariant = errors.New("unknown panel variant")
)

// ButtonConfig is the static description of one button.
type ButtonConfig struct {
	Action      Action  `yaml:"action"`
	Label       string  `yaml:"label"`
	Caption     string  `yaml:"caption,omitempty"`
	Color       string  `yaml:"color"`
	TextColor   string  `yaml:"textColor,omitempty"`
	LabelSize   float32 `yaml:"labelSize,omitempty"`
	CaptionSize float32 `yaml:"captionSize,omitempty"`
	Bold        bool    `yaml:"bold,omitempty"`
	Rounded     bool    `yaml:"rounded,omitempty"`

	base color.NRGBA
	text color.NRGBA
}

// Base returns the parsed base color. Only meaningful after Validate.
func (b ButtonConfig) Base() color.NRGBA { return b.base }

// Text returns the parsed label color. Only meaningful after Validate.
func (b ButtonConfig) Text() color.NRGBA { return b.text }

// PanelConfig is one cosmetic variant of the panel.
type PanelConfig struct {
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description,omitempty"`
	Background   string         `yaml:"background,omitempty"`
	Border       string         `yaml:"border,omitempty"`
	BorderRadius float32        `yaml:"borderRadius,omitempty"`
	Highlight    string         `yaml:"highlight,omitempty"`
	Buttons      []ButtonConfig `yaml:"buttons"`

	background color.NRGBA
	border     color.NRGBA
	highlight  color.NRGBA
}

// BackgroundColor returns the parsed panel background.
func (c PanelConfig) BackgroundColor() color.NRGBA { return c.background }

// BorderColor returns the parsed border box color.
func (c PanelConfig) BorderColor() color.NRGBA { return c.border }

// HighlightColor returns the parsed press highlight.
func (c PanelConfig) HighlightColor() color.NRGBA { return c.highlight }

// Button returns the button bound to a.
func (c PanelConfig) Button(a Action) (ButtonConfig, bool) {
	for _, b := range c.Buttons {
		if b.Action == a {
			return b, true
		}
	}
	return ButtonConfig{}, false
}

// Validate checks the five-button contract and resolves every color string.
// Missing optional colors and sizes are filled with defaults.
func (c *PanelConfig) Validate() error {
	if len(c.Buttons) != int(actionCount) {
		return fmt.Errorf("%w: %q has %d buttons, want %d", ErrInvalidConfig, c.Name, len(c.Buttons), actionCount)
	}

	var err error
	if c.background, err = parseColor(c.Background, DefaultBackground); err != nil {
		return fmt.Errorf("%w: %q background: %v", ErrInvalidConfig, c.Name, err)
	}
	if c.border, err = parseColor(c.Border, DefaultBorder); err != nil {
		return fmt.Errorf("%w: %q border: %v", ErrInvalidConfig, c.Name, err)
	}
	if c.highlight, err = parseColor(c.Highlight, DefaultHighlight); err != nil {
		return fmt.Errorf("%w: %q highlight: %v", ErrInvalidConfig, c.Name, err)
	}

	var seen [actionCount]bool
	for i := range c.Buttons {
		b := &c.Buttons[i]
		if !b.Action.Valid() {
			return fmt.Errorf("%w: %q button %d has invalid action", ErrInvalidConfig, c.Name, i)
		}
		if seen[b.Action] {
			return fmt.Errorf("%w: %q binds %s twice", ErrInvalidConfig, c.Name, b.Action)
		}
		seen[b.Action] = true

		if strings.TrimSpace(b.Label) == "" {
			return fmt.Errorf("%w: %q %s button has no label", ErrInvalidConfig, c.Name, b.Action)
		}
		if b.Color == "" {
			return fmt.Errorf("%w: %q %s button has no color", ErrInvalidConfig, c.Name, b.Action)
		}
		if b.base, err = parseColor(b.Color, ""); err != nil {
			return fmt.Errorf("%w: %q %s color: %v", ErrInvalidConfig, c.Name, b.Action, err)
		}
		if b.text, err = parseColor(b.TextColor, "white"); err != nil {
			return fmt.Errorf("%w: %q %s text color: %v", ErrInvalidConfig, c.Name, b.Action, err)
		}
		if b.LabelSize <= 0 {
			b.LabelSize = DefaultLabelSize
		}
		if b.CaptionSize <= 0 {
			b.CaptionSize = DefaultCaptionSize
		}
	}
	return nil
}

// Clone returns a copy whose button slice is not shared with c.
func (c PanelConfig) Clone() PanelConfig {
	out := c
	out.Buttons = append([]ButtonConfig(nil), c.Buttons...)
	return out
}

type catalogue struct {
	Variants []PanelConfig `yaml:"variants"`
}

// LoadPanelConfigs decodes and validates every variant in the asset tree.
func LoadPanelConfigs(reader ContentReader) ([]PanelConfig, error) {
	data, err := reader.ReadFile(PanelsFile)
	if err != nil {
		return nil, fmt.Errorf("read panel configs: %w", err)
	}
	return ParsePanelConfigs(data)
}

// ParsePanelConfigs decodes a YAML variant catalogue.
func ParsePanelConfigs(data []byte) ([]PanelConfig, error) {
	var cat catalogue
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("unmarshal panel configs: %w", err)
	}
	if len(cat.Variants) == 0 {
		return nil, fmt.Errorf("%w: catalogue has no variants", ErrInvalidConfig)
	}

	names := make(map[string]bool, len(cat.Variants))
	for i := range cat.Variants {
		v := &cat.Variants[i]
		if v.Name == "" {
			return nil, fmt.Errorf("%w: variant %d has no name", ErrInvalidConfig, i)
		}
		if names[v.Name] {
			return nil, fmt.Errorf("%w: duplicate variant %q", ErrInvalidConfig, v.Name)
		}
		names[v.Name] = true
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	log.Printf("Loaded %d panel variants.", len(cat.Variants))
	return cat.Variants, nil
}

// FindVariant returns the variant called name.
func FindVariant(configs []PanelConfig, name string) (PanelConfig, error) {
	for _, c := range configs {
		if strings.EqualFold(c.Name, name) {
			return c.Clone(), nil
		}
	}
	return PanelConfig{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

func parseColor(s, fallback string) (color.NRGBA, error) {
	if strings.TrimSpace(s) == "" {
		s = fallback
	}
	if s == "" {
		return color.NRGBA{}, errors.New("empty color")
	}
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b, a := c.RGBA255()
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
