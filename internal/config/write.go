package config

import (
	"io"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// The file form spells durations the way they are typed, e.g. "16ms".
type fileConfig struct {
	Addr     string       `toml:"addr"`
	Tray     bool         `toml:"tray"`
	Controls Controls     `toml:"controls"`
	Joystick fileJoystick `toml:"joystick"`
	Fade     fileFade     `toml:"fade"`
	Meter    Meter        `toml:"meter"`
	Theme    Theme        `toml:"theme"`
}

type fileJoystick struct {
	RateHz       float64 `toml:"rate_hz"`
	EmitMode     string  `toml:"emit_mode"`
	MaxRadius    float64 `toml:"max_radius"`
	DeadZone     float64 `toml:"dead_zone"`
	DeadZoneRule string  `toml:"dead_zone_rule"`
	Overshoot    bool    `toml:"overshoot"`
	MaxOutside   float64 `toml:"max_outside"`
	Scale        float64 `toml:"scale"`
	TickInterval string  `toml:"tick_interval"`
}

type fileFade struct {
	Delay string `toml:"delay"`
}

// Write encodes cfg as a TOML config file that Load reads back unchanged.
func Write(w io.Writer, cfg *Config) error {
	j := cfg.Joystick
	out := fileConfig{
		Addr:     cfg.Addr,
		Tray:     cfg.Tray,
		Controls: cfg.Controls,
		Joystick: fileJoystick{
			RateHz:       j.RateHz,
			EmitMode:     j.EmitMode,
			MaxRadius:    j.MaxRadius,
			DeadZone:     j.DeadZone,
			DeadZoneRule: j.DeadZoneRule,
			Overshoot:    j.Overshoot,
			MaxOutside:   j.MaxOutside,
			Scale:        j.Scale,
			TickInterval: j.TickInterval.String(),
		},
		Fade:  fileFade{Delay: cfg.Fade.Delay.String()},
		Meter: cfg.Meter,
		Theme: cfg.Theme,
	}
	if err := toml.NewEncoder(w).Encode(&out); err != nil {
		return errors.Wrap(err, "writing config")
	}
	return nil
}
