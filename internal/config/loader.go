package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces helioscope environment overrides.
const envPrefix = "HELIOSCOPE_"

// Load builds the configuration.
//
// Precedence, highest to lowest:
//  1. HELIOSCOPE_* environment variables (HELIOSCOPE_LLM_MODEL -> llm.model)
//  2. YAML config file, if configPath is non-empty and the file exists
//  3. Hardcoded defaults
//
// A missing config file is not an error; the agent must start with nothing
// but defaults and environment. A malformed or unreadable file is fatal.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err):
			// Fall through to defaults.
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
		default:
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
			}
		}
	}

	// HELIOSCOPE_LLM_MAX_ITERATIONS -> llm.max_iterations
	// HELIOSCOPE_TOOLS_DEFAULT_CAPACITY_MW -> tools.default_capacity_mw
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyDefaults(&cfg)
	loadSecrets(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
