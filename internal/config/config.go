// Runtime configuration: defaults, TOML file, palette parsing
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"retrocam/internal/filter"
)

// Config is the resolved runtime configuration. Flag values in the cmd
// packages override whatever the file set.
type Config struct {
	Device      string   `toml:"device"`      // webcam index, "bars", or an image path
	Width       int      `toml:"width"`       // processing width
	Height      int      `toml:"height"`      // processing height
	FPS         int      `toml:"fps"`         // engine tick rate
	Scale       int      `toml:"scale"`       // capture export upscale factor
	Mirror      bool     `toml:"mirror"`      // selfie-view horizontal flip
	Performance bool     `toml:"performance"` // start with reduced per-pixel work
	Mode        string   `toml:"mode"`        // starting filter mode
	OutputDir   string   `toml:"output_dir"`  // where SaveAll writes shots
	Palette     []string `toml:"palette"`     // 4 hex colors, darkest first
	LogFile     string   `toml:"log_file"`    // terminal frontend log destination
}

// Default returns the stock configuration: the first webcam at the
// handheld's 160x144, mirrored, 30 ticks per second, pea-green palette.
func Default() Config {
	return Config{
		Device:    "0",
		Width:     160,
		Height:    144,
		FPS:       30,
		Scale:     4,
		Mirror:    true,
		Mode:      "retro4tone",
		OutputDir: "shots",
		Palette:   []string{"#0f380f", "#306230", "#8bac0f", "#9bbc0f"},
		LogFile:   "retrocam.log",
	}
}

// Load reads a TOML file over the defaults. An empty path means
// defaults only; a named file must exist and parse.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and that mode and palette parse.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: invalid frame size %dx%d", c.Width, c.Height)
	}
	if c.FPS < 1 || c.FPS > 120 {
		return fmt.Errorf("config: fps %d out of range 1..120", c.FPS)
	}
	if c.Scale < 1 || c.Scale > 16 {
		return fmt.Errorf("config: scale %d out of range 1..16", c.Scale)
	}
	if c.Device == "" {
		return fmt.Errorf("config: empty device spec")
	}
	if _, err := c.StartMode(); err != nil {
		return err
	}
	if _, err := c.FilterPalette(); err != nil {
		return err
	}
	return nil
}

// StartMode parses the configured starting filter mode.
func (c Config) StartMode() (filter.Mode, error) {
	m, err := filter.ParseMode(c.Mode)
	if err != nil {
		return 0, fmt.Errorf("config: mode: %w", err)
	}
	return m, nil
}

// FilterPalette parses the four hex entries into a filter palette,
// preserving their darkest-first order.
func (c Config) FilterPalette() (filter.Palette, error) {
	var pal filter.Palette
	if len(c.Palette) != len(pal) {
		return pal, fmt.Errorf("config: palette needs exactly %d colors, got %d", len(pal), len(c.Palette))
	}
	for i, hex := range c.Palette {
		col, err := colorful.Hex(hex)
		if err != nil {
			return pal, fmt.Errorf("config: palette[%d] %q: %w", i, hex, err)
		}
		r, g, b := col.RGB255()
		pal[i] = filter.RGB{R: r, G: g, B: b}
	}
	return pal, nil
}
