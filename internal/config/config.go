package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"

	"wodtimer/internal/engine"
)

// ModeDefaults overrides a mode's preset numbers. Zero fields mean
// "keep the preset".
type ModeDefaults struct {
	TotalMinutes int `mapstructure:"total_minutes"`
	WorkSeconds  int `mapstructure:"work_seconds"`
	RestSeconds  int `mapstructure:"rest_seconds"`
	Rounds       int `mapstructure:"rounds"`
	Intervals    int `mapstructure:"intervals"`
}

type Config struct {
	SoundEnabled bool   `mapstructure:"sound_enabled"`
	DefaultMode  string `mapstructure:"default_mode"`
	DatabasePath string `mapstructure:"database_path"`

	AMRAP   ModeDefaults `mapstructure:"amrap"`
	EMOM    ModeDefaults `mapstructure:"emom"`
	ForTime ModeDefaults `mapstructure:"fortime"`
	Tabata  ModeDefaults `mapstructure:"tabata"`
	Custom  ModeDefaults `mapstructure:"custom"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/wodtimer")
	}

	v.SetEnvPrefix("WODTIMER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("sound_enabled", true)
	v.SetDefault("default_mode", string(engine.ModeAMRAP))
	v.SetDefault("database_path", "wodtimer.db")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found, using defaults.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if !engine.Valid(engine.Mode(cfg.DefaultMode)) {
		log.Printf("Warning: invalid default_mode '%s', defaulting to '%s'", cfg.DefaultMode, engine.ModeAMRAP)
		cfg.DefaultMode = string(engine.ModeAMRAP)
	}

	return &cfg, nil
}

// InitialMode is the preset the timer opens on.
func (c *Config) InitialMode() engine.Mode {
	return engine.Mode(c.DefaultMode)
}

// SessionConfig builds a mode's session config: the engine preset with
// this file's overrides applied on top, clamped to valid bounds.
func (c *Config) SessionConfig(m engine.Mode) engine.Config {
	sc := engine.DefaultConfig(m)
	d := c.defaultsFor(m)
	if d.TotalMinutes > 0 {
		sc.TotalSeconds = d.TotalMinutes * 60
	}
	if d.WorkSeconds > 0 {
		sc.WorkSeconds = d.WorkSeconds
	}
	if d.RestSeconds > 0 {
		sc.RestSeconds = d.RestSeconds
	}
	if d.Rounds > 0 {
		sc.Rounds = d.Rounds
	}
	if d.Intervals > 0 {
		sc.Intervals = d.Intervals
	}
	return sc.Normalized()
}

func (c *Config) defaultsFor(m engine.Mode) ModeDefaults {
	switch m {
	case engine.ModeEMOM:
		return c.EMOM
	case engine.ModeForTime:
		return c.ForTime
	case engine.ModeTabata:
		return c.Tabata
	case engine.ModeCustom:
		return c.Custom
	default:
		return c.AMRAP
	}
}
