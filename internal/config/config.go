// Package config loads the command-line settings from flags, environment
// variables and an optional spectraleq.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/cwbudde/spectral-eq/dsp/band"
	"github.com/cwbudde/spectral-eq/dsp/core"
	"github.com/cwbudde/spectral-eq/dsp/dither"
	"github.com/cwbudde/spectral-eq/dsp/stft"
	"github.com/cwbudde/spectral-eq/internal/logging"
)

const (
	// EnvPrefix prefixes every environment override, e.g. SPECTRALEQ_FRAME_LENGTH.
	EnvPrefix = "SPECTRALEQ"
	// FileName is the config file name without extension.
	FileName = "spectraleq"
)

// Config holds the resolved settings.
type Config struct {
	LogLevel    string  `mapstructure:"log_level"`
	FrameLength int     `mapstructure:"frame_length"`
	HopLength   int     `mapstructure:"hop_length"`
	FloorDB     float64 `mapstructure:"floor_db"`
	Workers     int     `mapstructure:"workers"`
	BitDepth    int     `mapstructure:"bit_depth"`
	Overlap     string  `mapstructure:"overlap"`
	Dither      string  `mapstructure:"dither"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("frame_length", stft.DefaultFrameLength)
	v.SetDefault("hop_length", stft.DefaultHopLength)
	v.SetDefault("floor_db", stft.DefaultFloorDB)
	v.SetDefault("workers", 0)
	v.SetDefault("bit_depth", 16)
	v.SetDefault("overlap", band.OverlapLastWins.String())
	v.SetDefault("dither", dither.Triangular.String())
}

// NewViper returns a viper instance with defaults, environment overrides and
// the config file read in. An explicit file must exist; the search path may
// come up empty.
func NewViper(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	return v, nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unable to decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and joins all problems found.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.FrameLength < 2 || !core.IsPowerOfTwo(c.FrameLength) {
		errs = append(errs, fmt.Errorf("config: frame_length must be a power of two >= 2, got %d", c.FrameLength))
	}
	if c.HopLength <= 0 || c.HopLength > c.FrameLength {
		errs = append(errs, fmt.Errorf("config: hop_length must be in (0, frame_length], got %d", c.HopLength))
	}
	if c.FloorDB >= 0 {
		errs = append(errs, fmt.Errorf("config: floor_db must be negative, got %g", c.FloorDB))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("config: workers cannot be negative, got %d", c.Workers))
	}
	switch c.BitDepth {
	case 16, 24:
	default:
		errs = append(errs, fmt.Errorf("config: bit_depth must be 16 or 24, got %d", c.BitDepth))
	}
	if _, ok := band.ParseOverlapPolicy(c.Overlap); !ok {
		errs = append(errs, fmt.Errorf("config: unknown overlap policy %q", c.Overlap))
	}

	if _, ok := dither.ParseType(c.Dither); !ok {
		errs = append(errs, fmt.Errorf("config: unknown dither type %q", c.Dither))
	}

	return errors.Join(errs...)
}

// OverlapPolicy returns the parsed overlap policy, last-wins when unknown.
func (c *Config) OverlapPolicy() band.OverlapPolicy {
	policy, _ := band.ParseOverlapPolicy(c.Overlap)
	return policy
}

// DitherType returns the parsed export dither, none when unknown.
func (c *Config) DitherType() dither.Type {
	t, _ := dither.ParseType(c.Dither)
	return t
}
