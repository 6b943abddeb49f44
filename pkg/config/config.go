// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lassandro/gomips/pkg/assembler"
)

const (
	LOG_FORMAT_TEXT = "text"
	LOG_FORMAT_JSON = "json"
)

type Config struct {
	BaseAddress          uint32 `yaml:"base_address"`
	LabelsAfterExpansion bool   `yaml:"labels_after_expansion"`
	Listing              bool   `yaml:"listing"`
	LogLevel             string `yaml:"log_level"`
	LogFormat            string `yaml:"log_format"`
	OutputExtension      string `yaml:"output_extension"`
}

func Default() Config {
	return Config{
		BaseAddress:     assembler.BASE_ADDRESS,
		LogLevel:        "warn",
		LogFormat:       LOG_FORMAT_TEXT,
		OutputExtension: ".x",
	}
}

// Parse overlays YAML onto Default. Keys left out keep their default.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

func (cfg Config) Validate() error {
	if cfg.BaseAddress%assembler.INSTRUCTION_SIZE != 0 {
		return fmt.Errorf("base_address 0x%08x is not word aligned", cfg.BaseAddress)
	}

	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return err
	}

	switch strings.ToLower(cfg.LogFormat) {
	case LOG_FORMAT_TEXT, LOG_FORMAT_JSON:
	default:
		return fmt.Errorf("unknown log_format %q", cfg.LogFormat)
	}

	if !strings.HasPrefix(cfg.OutputExtension, ".") {
		return fmt.Errorf("output_extension %q must start with '.'", cfg.OutputExtension)
	}

	return nil
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown log_level %q", name)
	}

	return level, nil
}

// SlogLevel returns the configured level, falling back to Warn.
func (cfg Config) SlogLevel() slog.Level {
	level, err := parseLevel(cfg.LogLevel)

	if err != nil {
		return slog.LevelWarn
	}

	return level
}

// Handler builds the slog handler named by LogFormat.
func (cfg Config) Handler(w io.Writer) slog.Handler {
	options := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	if strings.EqualFold(cfg.LogFormat, LOG_FORMAT_JSON) {
		return slog.NewJSONHandler(w, options)
	}

	return slog.NewTextHandler(w, options)
}

func (cfg Config) AssemblerOptions(logger *slog.Logger) assembler.Options {
	return assembler.Options{
		BaseAddress:          cfg.BaseAddress,
		LabelsAfterExpansion: cfg.LabelsAfterExpansion,
		Logger:               logger,
	}
}
