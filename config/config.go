package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds runtime settings. The panel variants themselves are embedded
// at build time; this only chooses between them.
type Config struct {
	Panel PanelConfig
	Audio AudioConfig
	UI    UIConfig
}

// PanelConfig selects the embedded variant.
type PanelConfig struct {
	Variant string
}

// AudioConfig controls the press sound.
type AudioConfig struct {
	Enabled bool
	File    string
	Volume  float64
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Lang    string
	Players []string
}

// Load reads configuration from file and env. Env var overrides use prefix BOWLING_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("panel.variant", "v4")
	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.file", "")
	v.SetDefault("audio.volume", 0.8)
	v.SetDefault("ui.lang", "")
	v.SetDefault("ui.players", []string{"Player 1"})

	v.SetConfigType("yaml")

	cfgPath := os.Getenv("BOWLING_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "bowlingbuttons"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("BOWLING")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine, a broken explicit one is not
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgPath != "" {
			return Config{}, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.normalize()
	return c, nil
}

func (c *Config) normalize() {
	c.Panel.Variant = strings.TrimSpace(c.Panel.Variant)
	if c.Panel.Variant == "" {
		c.Panel.Variant = "v4"
	}
	if c.Audio.Volume < 0 {
		c.Audio.Volume = 0
	}
	if c.Audio.Volume > 1 {
		c.Audio.Volume = 1
	}

	players := c.UI.Players[:0]
	for _, p := range c.UI.Players {
		if p = strings.TrimSpace(p); p != "" {
			players = append(players, p)
		}
	}
	if len(players) == 0 {
		players = []string{"Player 1"}
	}
	c.UI.Players = players
}
