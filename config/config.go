// Package config holds the emulator settings read through viper and builds
// the logger.
package config

import (
	"image/color"
	"strings"

	"chip8emu/emu/cpu"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/viper"
	"golang.org/x/image/colornames"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. CHYP8_REFRESH or CHYP8_QUIRKS_SHIFT_USES_VY.
const EnvPrefix = "CHYP8"

// Quirks mirrors cpu.Quirks for the config file.
type Quirks struct {
	ShiftUsesVY          bool `mapstructure:"shift_uses_vy"`
	LoadStoreIncrementsI bool `mapstructure:"load_store_increments_i"`
}

// Config contains all emulator settings.
type Config struct {
	Refresh        int     `mapstructure:"refresh"`         // frames per second
	Cycles         int     `mapstructure:"cycles"`          // opcodes per frame
	Scale          int     `mapstructure:"scale"`           // window pixels per CHIP-8 pixel
	DecoupleTimers bool    `mapstructure:"decouple_timers"` // tick timers at TimerHz instead of per opcode
	TimerHz        int     `mapstructure:"timer_hz"`
	Foreground     string  `mapstructure:"foreground"`
	Background     string  `mapstructure:"background"`
	Sound          string  `mapstructure:"sound"` // optional mp3 played on beep
	ToneHz         float64 `mapstructure:"tone_hz"`
	Quirks         Quirks  `mapstructure:"quirks"`
	Debug          bool    `mapstructure:"debug"`
	Quiet          bool    `mapstructure:"quiet"`
}

// SetDefaults registers the default value of every key. Keys without a
// default are not picked up from the environment by Unmarshal.
func SetDefaults(v *viper.Viper) {
	q := cpu.DefaultQuirks()

	v.SetDefault("refresh", 60)
	v.SetDefault("cycles", 10)
	v.SetDefault("scale", 10)
	v.SetDefault("decouple_timers", false)
	v.SetDefault("timer_hz", 60)
	v.SetDefault("foreground", "white")
	v.SetDefault("background", "black")
	v.SetDefault("sound", "")
	v.SetDefault("tone_hz", 440.0)
	v.SetDefault("quirks.shift_uses_vy", q.ShiftUsesVY)
	v.SetDefault("quirks.load_store_increments_i", q.LoadStoreIncrementsI)
	v.SetDefault("debug", false)
	v.SetDefault("quiet", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and color names.
func (c Config) Validate() error {
	if c.Refresh <= 0 {
		return errors.Errorf("refresh must be positive, got %d", c.Refresh)
	}
	if c.Cycles <= 0 {
		return errors.Errorf("cycles must be positive, got %d", c.Cycles)
	}
	if c.Scale <= 0 {
		return errors.Errorf("scale must be positive, got %d", c.Scale)
	}
	if c.DecoupleTimers && c.TimerHz <= 0 {
		return errors.Errorf("timer_hz must be positive, got %d", c.TimerHz)
	}
	if c.ToneHz <= 0 {
		return errors.Errorf("tone_hz must be positive, got %g", c.ToneHz)
	}
	if _, _, err := c.Colors(); err != nil {
		return err
	}
	return nil
}

// Colors resolves the foreground and background color names.
func (c Config) Colors() (color.RGBA, color.RGBA, error) {
	fg, ok := colornames.Map[strings.ToLower(c.Foreground)]
	if !ok {
		return color.RGBA{}, color.RGBA{}, errors.Errorf("unknown foreground color %q", c.Foreground)
	}
	bg, ok := colornames.Map[strings.ToLower(c.Background)]
	if !ok {
		return color.RGBA{}, color.RGBA{}, errors.Errorf("unknown background color %q", c.Background)
	}
	return fg, bg, nil
}

// CPUQuirks converts the quirk settings for the interpreter.
func (c Config) CPUQuirks() cpu.Quirks {
	return cpu.Quirks{
		ShiftUsesVY:          c.Quirks.ShiftUsesVY,
		LoadStoreIncrementsI: c.Quirks.LoadStoreIncrementsI,
	}
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
