// Package config loads taxprep.yaml plus TAXPREP_* environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/taxprep-dev/taxprep/internal/match"
)

// Config is the top-level taxprep configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Matcher MatcherConfig `mapstructure:"matcher"`
}

// ServerConfig controls the HTTP extraction service.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// MatcherConfig selects the tax-line matching algorithm.
type MatcherConfig struct {
	Algorithm string `mapstructure:"algorithm"` // "lexical" or "cosine"
}

// Similarity returns the configured matching algorithm.
func (m MatcherConfig) Similarity() (match.Similarity, error) {
	switch strings.ToLower(m.Algorithm) {
	case "", "lexical":
		return match.Lexical{}, nil
	case "cosine":
		return match.Cosine{}, nil
	default:
		return nil, fmt.Errorf("unknown matcher algorithm %q", m.Algorithm)
	}
}

// Load reads configuration from path, or from taxprep.yaml in the
// working directory when path is empty. A missing file is fine: defaults
// and environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("matcher.algorithm", "lexical")

	v.SetEnvPrefix("TAXPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigName("taxprep")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
