// Package config loads and saves the session configuration document of
// spec.md §6 as JSON, the way the teacher's internal/position.go
// SaveToFile/LoadFromFile pair does: os.MkdirAll + json.MarshalIndent
// on save, json.Unmarshal on load, errors wrapped with fmt.Errorf.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the on-disk session configuration, spec.md §6. Field names
// match the spec's JSON keys exactly so an operator's existing config
// files load unchanged.
type Config struct {
	NtripCaster string  `json:"NTRIP_CASTER"`
	NtripPort   int     `json:"NTRIP_PORT"`
	Mountpoint  string  `json:"MOUNTPOINT"`
	Username    string  `json:"USERNAME"`
	Password    string  `json:"PASSWORD"`
	Latitude    float64 `json:"LATITUDE"`
	Longitude   float64 `json:"LONGITUDE"`
}

// ErrInvalidConfig is returned by Validate when a required field is
// missing (spec.md §7: "Config missing or invalid" is a fatal-at-start
// error).
var ErrInvalidConfig = errors.New("invalid config")

// Default returns the template config emitted by -g, spec.md §6.
func Default() Config {
	return Config{
		NtripCaster: "rtk2go.com",
		NtripPort:   2101,
		Mountpoint:  "",
		Username:    "",
		Password:    "",
		Latitude:    0.0,
		Longitude:   0.0,
	}
}

// Validate checks that the fields a session cannot run without are
// present.
func (c Config) Validate() error {
	if c.NtripCaster == "" {
		return fmt.Errorf("%w: NTRIP_CASTER is required", ErrInvalidConfig)
	}
	if c.NtripPort <= 0 || c.NtripPort > 65535 {
		return fmt.Errorf("%w: NTRIP_PORT must be in 1..65535", ErrInvalidConfig)
	}
	if c.Mountpoint == "" {
		return fmt.Errorf("%w: MOUNTPOINT is required", ErrInvalidConfig)
	}
	return nil
}

// Load reads and parses a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return c, nil
}

// Save writes c as indented JSON, creating parent directories as
// needed.
func Save(c Config, path string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
