// Package config loads the touchjoy settings from defaults, an optional config
// file, TOUCHJOY_* environment variables and command line flags.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/soar/touchjoy/internal/emit"
	"github.com/soar/touchjoy/internal/fade"
	"github.com/soar/touchjoy/internal/meter"
	"github.com/soar/touchjoy/internal/stick"
	"github.com/soar/touchjoy/internal/surface"
	"github.com/soar/touchjoy/internal/touch"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalid is returned for settings that name an unknown mode, rule or
// ordering, or that the control surface rejects.
var ErrInvalid = errors.New("invalid configuration")

// invalid marks a rejection from another package as ErrInvalid while
// keeping the original error in the chain.
type invalid struct {
	cause error
}

func (e invalid) Error() string { return ErrInvalid.Error() + ": " + e.cause.Error() }
func (e invalid) Unwrap() error { return e.cause }
func (e invalid) Is(target error) bool { return target == ErrInvalid }

const (
	appName   = "touchjoy"
	envPrefix = "TOUCHJOY"
)

// Config is the effective configuration.
type Config struct {
	Addr     string   `mapstructure:"addr" toml:"addr"`
	Tray     bool     `mapstructure:"tray" toml:"tray"`
	Controls Controls `mapstructure:"controls" toml:"controls"`
	Joystick Joystick `mapstructure:"joystick" toml:"joystick"`
	Fade     Fade     `mapstructure:"fade" toml:"fade"`
	Meter    Meter    `mapstructure:"meter" toml:"meter"`
	Theme    Theme    `mapstructure:"theme" toml:"theme"`

	// WriteConfig is only set from the command line.
	WriteConfig bool `mapstructure:"-" toml:"-"`
}

// Controls selects the regions of the touch page.
type Controls struct {
	Left  bool `mapstructure:"left" toml:"left" json:"left"`
	Right bool `mapstructure:"right" toml:"right" json:"right"`
	Up    bool `mapstructure:"up" toml:"up" json:"up"`
	Down  bool `mapstructure:"down" toml:"down" json:"down"`
	A     bool `mapstructure:"a" toml:"a" json:"a"`
	B     bool `mapstructure:"b" toml:"b" json:"b"`
}

type Joystick struct {
	RateHz       float64       `mapstructure:"rate_hz" toml:"rate_hz"`
	EmitMode     string        `mapstructure:"emit_mode" toml:"emit_mode"`
	MaxRadius    float64       `mapstructure:"max_radius" toml:"max_radius"`
	DeadZone     float64       `mapstructure:"dead_zone" toml:"dead_zone"`
	DeadZoneRule string        `mapstructure:"dead_zone_rule" toml:"dead_zone_rule"`
	Overshoot    bool          `mapstructure:"overshoot" toml:"overshoot"`
	MaxOutside   float64       `mapstructure:"max_outside" toml:"max_outside"`
	Scale        float64       `mapstructure:"scale" toml:"scale"`
	TickInterval time.Duration `mapstructure:"tick_interval" toml:"tick_interval"`
}

type Fade struct {
	Delay time.Duration `mapstructure:"delay" toml:"delay"`
}

type Meter struct {
	Window int `mapstructure:"window" toml:"window"`
}

// ButtonPair places a pair of buttons relative to its joystick.
type ButtonPair struct {
	DX   float64 `mapstructure:"dx" toml:"dx" json:"dx"`
	DY   float64 `mapstructure:"dy" toml:"dy" json:"dy"`
	Tilt float64 `mapstructure:"tilt" toml:"tilt" json:"tilt"`
}

// Theme is passed through to the touch page. None of it affects the
// numbers the surface emits.
type Theme struct {
	JoystickSize       float64 `mapstructure:"joystick_size" toml:"joystick_size" json:"joystickSize"`
	JoystickHandleSize float64 `mapstructure:"joystick_handle_size" toml:"joystick_handle_size" json:"joystickHandleSize"`
	JoystickOffset     float64 `mapstructure:"joystick_offset" toml:"joystick_offset" json:"joystickOffset"`
	JoystickBg         string  `mapstructure:"joystick_bg" toml:"joystick_bg" json:"joystickBg"`
	JoystickHandleBg   string  `mapstructure:"joystick_handle_bg" toml:"joystick_handle_bg" json:"joystickHandleBg"`

	ButtonSize     float64 `mapstructure:"button_size" toml:"button_size" json:"buttonSize"`
	ButtonGap      float64 `mapstructure:"button_gap" toml:"button_gap" json:"buttonGap"`
	ButtonBg       string  `mapstructure:"button_bg" toml:"button_bg" json:"buttonBg"`
	ButtonBgActive string  `mapstructure:"button_bg_active" toml:"button_bg_active" json:"buttonBgActive"`
	ButtonFontSize string  `mapstructure:"button_font_size" toml:"button_font_size" json:"buttonFontSize"`
	ButtonColor    string  `mapstructure:"button_color" toml:"button_color" json:"buttonColor"`

	ButtonsUpDownOrder string     `mapstructure:"buttons_up_down_order" toml:"buttons_up_down_order" json:"buttonsUpDownOrder"`
	ButtonsABOrder     string     `mapstructure:"buttons_ab_order" toml:"buttons_ab_order" json:"buttonsABOrder"`
	LeftButtons        ButtonPair `mapstructure:"left_buttons" toml:"left_buttons" json:"leftButtons"`
	RightButtons       ButtonPair `mapstructure:"right_buttons" toml:"right_buttons" json:"rightButtons"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("tray", runtime.GOOS == "windows")

	for _, c := range []string{"left", "right", "up", "down", "a", "b"} {
		v.SetDefault("controls."+c, true)
	}

	p := stick.DefaultParams()
	v.SetDefault("joystick.rate_hz", emit.DefaultRateHz)
	v.SetDefault("joystick.emit_mode", emit.OnChange.String())
	v.SetDefault("joystick.max_radius", p.MaxRadius)
	v.SetDefault("joystick.dead_zone", p.DeadZone)
	v.SetDefault("joystick.dead_zone_rule", p.Rule.String())
	v.SetDefault("joystick.overshoot", p.Overshoot)
	v.SetDefault("joystick.max_outside", p.MaxOutside)
	v.SetDefault("joystick.scale", 1.0)
	v.SetDefault("joystick.tick_interval", time.Second/60)

	v.SetDefault("fade.delay", fade.DefaultDelay)
	v.SetDefault("meter.window", meter.DefaultWindow)

	v.SetDefault("theme.joystick_size", 130)
	v.SetDefault("theme.joystick_handle_size", 50)
	v.SetDefault("theme.joystick_offset", 30)
	v.SetDefault("theme.joystick_bg", "rgba(0, 0, 0, 0.6)")
	v.SetDefault("theme.joystick_handle_bg", "rgba(200, 200, 200, 0.8)")
	v.SetDefault("theme.button_size", 60)
	v.SetDefault("theme.button_gap", 50)
	v.SetDefault("theme.button_bg", "rgba(0, 0, 0, 0.3)")
	v.SetDefault("theme.button_bg_active", "rgba(96, 77, 77, 0.6)")
	v.SetDefault("theme.button_font_size", "24px")
	v.SetDefault("theme.button_color", "white")
	v.SetDefault("theme.buttons_up_down_order", "up/down")
	v.SetDefault("theme.buttons_ab_order", "A/B")
	v.SetDefault("theme.left_buttons.dx", 0)
	v.SetDefault("theme.left_buttons.dy", 85)
	v.SetDefault("theme.left_buttons.tilt", 45)
	v.SetDefault("theme.right_buttons.dx", 0)
	v.SetDefault("theme.right_buttons.dy", 85)
	v.SetDefault("theme.right_buttons.tilt", -45)
}

// Load parses args (without the program name) and returns the validated
// configuration.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.String("addr", "", "HTTP listen address")
	fs.String("config", "", "config file (toml, yaml or json)")
	fs.Float64("rate", 0, "joystick emission rate in Hz, 0 for every tick")
	fs.String("mode", "", "joystick emit mode: always or on_change")
	fs.Bool("tray", false, "show the system tray icon")
	writeConfig := fs.Bool("write-config", false, "print the effective configuration as TOML and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	binds := map[string]string{
		"addr":               "addr",
		"joystick.rate_hz":   "rate",
		"joystick.emit_mode": "mode",
		"tray":               "tray",
	}
	for key, name := range binds {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, errors.Wrapf(err, "binding flag --%s", name)
		}
	}

	if file, _ := fs.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", file)
		}
	} else {
		v.SetConfigName(appName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "reading config")
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	cfg.WriteConfig = *writeConfig

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration the same way the control surface will
// when a touch page connects.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.Wrap(ErrInvalid, "addr is empty")
	}
	switch c.Theme.ButtonsUpDownOrder {
	case "up/down", "down/up":
	default:
		return errors.Wrapf(ErrInvalid, "unknown up/down button order %q", c.Theme.ButtonsUpDownOrder)
	}
	switch c.Theme.ButtonsABOrder {
	case "A/B", "B/A":
	default:
		return errors.Wrapf(ErrInvalid, "unknown A/B button order %q", c.Theme.ButtonsABOrder)
	}
	if c.Meter.Window < 2 {
		return errors.Wrapf(ErrInvalid, "meter window %d is below 2", c.Meter.Window)
	}

	sc, err := c.Surface()
	if err != nil {
		return err
	}
	if _, err := surface.New(sc, surface.Callbacks{}); err != nil {
		return invalid{cause: err}
	}
	return nil
}

// Surface converts the joystick settings into a surface configuration.
func (c *Config) Surface() (surface.Config, error) {
	policy, ok := emit.ParsePolicy(c.Joystick.EmitMode)
	if !ok {
		return surface.Config{}, errors.Wrapf(ErrInvalid, "unknown emit mode %q", c.Joystick.EmitMode)
	}
	rule, ok := stick.ParseDeadZoneRule(c.Joystick.DeadZoneRule)
	if !ok {
		return surface.Config{}, errors.Wrapf(ErrInvalid, "unknown dead zone rule %q", c.Joystick.DeadZoneRule)
	}

	return surface.Config{
		Stick: stick.Params{
			MaxRadius:  c.Joystick.MaxRadius,
			DeadZone:   c.Joystick.DeadZone,
			Overshoot:  c.Joystick.Overshoot,
			MaxOutside: c.Joystick.MaxOutside,
			Rule:       rule,
		},
		Scale:        c.Joystick.Scale,
		RateHz:       c.Joystick.RateHz,
		Policy:       policy,
		TickInterval: c.Joystick.TickInterval,
		FadeDelay:    c.Fade.Delay,
	}, nil
}

// TouchControls returns the enabled regions for the touch endpoint.
func (c *Config) TouchControls() touch.Controls {
	return touch.Controls(c.Controls)
}

// Layout is the JSON document the touch page renders from.
func (c *Config) Layout() (json.RawMessage, error) {
	data, err := json.Marshal(struct {
		Controls Controls `json:"controls"`
		Theme    Theme    `json:"theme"`
	}{c.Controls, c.Theme})
	if err != nil {
		return nil, errors.Wrap(err, "encoding layout")
	}
	return data, nil
}
