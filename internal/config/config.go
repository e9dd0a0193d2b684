package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/soar/padnav/internal/gamepad"
	"github.com/soar/padnav/internal/nav"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const envPrefix = "PADNAV"

type ButtonsConfig struct {
	Up    int `mapstructure:"up"`
	Down  int `mapstructure:"down"`
	Left  int `mapstructure:"left"`
	Right int `mapstructure:"right"`
}

type NavConfig struct {
	AxisThreshold float64       `mapstructure:"axis_threshold"`
	AxisCooldown  time.Duration `mapstructure:"axis_cooldown"`
	AxisIndex     int           `mapstructure:"axis_index"`
	Buttons       ButtonsConfig `mapstructure:"buttons"`
	ScrollChrome  float64       `mapstructure:"scroll_chrome"`
	FrameInterval time.Duration `mapstructure:"frame_interval"`
	StopWhenIdle  bool          `mapstructure:"stop_when_idle"`
	PurgeOnDetach bool          `mapstructure:"purge_on_detach"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type SourceConfig struct {
	Kind         string        `mapstructure:"kind"`
	Slots        int           `mapstructure:"slots"`
	ScanInterval time.Duration `mapstructure:"scan_interval"`
}

type ServerConfig struct {
	Addr   string `mapstructure:"addr"`
	Minify bool   `mapstructure:"minify"`
}

type TrayConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Config is the complete process configuration.
type Config struct {
	Debug  bool         `mapstructure:"debug"`
	Log    LogConfig    `mapstructure:"log"`
	Nav    NavConfig    `mapstructure:"nav"`
	Source SourceConfig `mapstructure:"source"`
	Server ServerConfig `mapstructure:"server"`
	Tray   TrayConfig   `mapstructure:"tray"`

	// File is the config file that was read, empty if none.
	File string `mapstructure:"-"`
	// ShowVersion is set by --version.
	ShowVersion bool `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	d := nav.DefaultConfig()
	v.SetDefault("debug", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("nav.axis_threshold", d.AxisThreshold)
	v.SetDefault("nav.axis_cooldown", d.AxisCooldown)
	v.SetDefault("nav.axis_index", d.AxisIndex)
	v.SetDefault("nav.buttons.up", d.Buttons.Up)
	v.SetDefault("nav.buttons.down", d.Buttons.Down)
	v.SetDefault("nav.buttons.left", d.Buttons.Left)
	v.SetDefault("nav.buttons.right", d.Buttons.Right)
	v.SetDefault("nav.scroll_chrome", d.ScrollChrome)
	v.SetDefault("nav.frame_interval", d.FrameInterval)
	v.SetDefault("nav.stop_when_idle", d.StopWhenIdle)
	v.SetDefault("nav.purge_on_detach", d.PurgeOnDetach)
	v.SetDefault("source.kind", gamepad.KindSDL)
	v.SetDefault("source.slots", 4)
	v.SetDefault("source.scan_interval", time.Second)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.minify", true)
	v.SetDefault("tray.enabled", true)
}

// flagKeys binds command line flags to their config keys.
var flagKeys = map[string]string{
	"debug":          "debug",
	"log-level":      "log.level",
	"axis-threshold": "nav.axis_threshold",
	"axis-cooldown":  "nav.axis_cooldown",
	"source":         "source.kind",
	"addr":           "server.addr",
	"minify":         "server.minify",
	"tray":           "tray.enabled",
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("padnav", pflag.ContinueOnError)
	fs.StringP("config", "c", "", "config file (default padnav.{yaml,toml,json} in . or the user config dir)")
	fs.Bool("debug", false, "emit navigation diagnostics")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.Float64("axis-threshold", 0.7, "stick magnitude below which the axis is neutral")
	fs.Duration("axis-cooldown", 200*time.Millisecond, "minimum time between repeated stick scrolls")
	fs.String("source", gamepad.KindSDL, "gamepad source: sdl, joystick, page")
	fs.String("addr", ":8080", "HTTP listen address")
	fs.Bool("minify", true, "minify the served bridge script")
	fs.Bool("tray", true, "show the system tray icon (Windows)")
	fs.BoolP("version", "v", false, "print version and exit")
	return fs
}

// Load builds the configuration from defaults, the config file, PADNAV_*
// environment variables and args, in increasing priority.
// pflag.ErrHelp is returned as is when -h is given.
func Load(args []string) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, _ := fs.GetString("config")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("padnav")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "padnav"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.ShowVersion, _ = fs.GetBool("version")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	n := c.Nav
	if n.AxisThreshold < 0 || n.AxisThreshold >= 1 {
		return fmt.Errorf("%w: nav.axis_threshold %v not in [0,1)", ErrInvalidConfig, n.AxisThreshold)
	}
	if n.AxisCooldown < 0 {
		return fmt.Errorf("%w: nav.axis_cooldown %v is negative", ErrInvalidConfig, n.AxisCooldown)
	}
	if n.AxisIndex < 0 {
		return fmt.Errorf("%w: nav.axis_index %d is negative", ErrInvalidConfig, n.AxisIndex)
	}
	if n.FrameInterval <= 0 {
		return fmt.Errorf("%w: nav.frame_interval must be positive", ErrInvalidConfig)
	}

	seen := make(map[int]string, 4)
	for _, b := range []struct {
		name  string
		index int
	}{
		{"up", n.Buttons.Up},
		{"down", n.Buttons.Down},
		{"left", n.Buttons.Left},
		{"right", n.Buttons.Right},
	} {
		if b.index < 0 {
			return fmt.Errorf("%w: nav.buttons.%s %d is negative", ErrInvalidConfig, b.name, b.index)
		}
		if other, dup := seen[b.index]; dup {
			return fmt.Errorf("%w: nav.buttons.%s and nav.buttons.%s share index %d", ErrInvalidConfig, other, b.name, b.index)
		}
		seen[b.index] = b.name
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q (must be error, warn, info, or debug)", ErrInvalidConfig, c.Log.Level)
	}

	switch c.Source.Kind {
	case gamepad.KindSDL, gamepad.KindJoystick, gamepad.KindPage:
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidConfig, gamepad.ErrUnknownSource, c.Source.Kind)
	}
	if c.Source.Slots < 1 {
		return fmt.Errorf("%w: source.slots must be at least 1", ErrInvalidConfig)
	}
	if c.Source.Kind == gamepad.KindJoystick && c.Source.ScanInterval <= 0 {
		return fmt.Errorf("%w: source.scan_interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// ToNav returns the controller configuration.
func (c *Config) ToNav() nav.Config {
	return nav.Config{
		AxisThreshold: c.Nav.AxisThreshold,
		AxisCooldown:  c.Nav.AxisCooldown,
		AxisIndex:     c.Nav.AxisIndex,
		Buttons: nav.ButtonMap{
			Up:    c.Nav.Buttons.Up,
			Down:  c.Nav.Buttons.Down,
			Left:  c.Nav.Buttons.Left,
			Right: c.Nav.Buttons.Right,
		},
		ScrollChrome:  c.Nav.ScrollChrome,
		FrameInterval: c.Nav.FrameInterval,
		StopWhenIdle:  c.Nav.StopWhenIdle,
		PurgeOnDetach: c.Nav.PurgeOnDetach,
		Debug:         c.Debug,
	}
}
