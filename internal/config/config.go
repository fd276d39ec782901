// Package config reads propgrid settings from an INI file.
//
//	[engine]
//	path    = /opt/refprop
//	library = librefprop.so
//	units   = SI
//
//	[store]
//	database = propgrid.db
//
//	[server]
//	addr = :9000
//
//	[log]
//	level = info
//
// Missing keys fall back to Default. Command-line flags override the file.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/roach88/propgrid/internal/refprop"
)

// Config holds every setting propgrid reads from its configuration file.
type Config struct {
	// EnginePath is the engine's install directory.
	EnginePath string

	// Library is the engine module file name inside EnginePath.
	Library string

	// Units is the default unit system name.
	Units string

	// Database is the SQLite run history file. Empty disables history.
	Database string

	// Addr is the websocket server listen address.
	Addr string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Library:  refprop.DefaultLibrary(),
		Units:    "SI",
		Addr:     ":9000",
		LogLevel: "info",
	}
}

// Load reads the INI file at path. An empty path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	file, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return fromFile(file)
}

// Parse reads INI content from data.
func Parse(data []byte) (Config, error) {
	file, err := ini.Load(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return fromFile(file)
}

func fromFile(file *ini.File) (Config, error) {
	def := Default()
	cfg := Config{
		EnginePath: file.Section("engine").Key("path").MustString(def.EnginePath),
		Library:    file.Section("engine").Key("library").MustString(def.Library),
		Units:      file.Section("engine").Key("units").MustString(def.Units),
		Database:   file.Section("store").Key("database").MustString(def.Database),
		Addr:       file.Section("server").Key("addr").MustString(def.Addr),
		LogLevel:   file.Section("log").Key("level").MustString(def.LogLevel),
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level returns LogLevel as a slog level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
