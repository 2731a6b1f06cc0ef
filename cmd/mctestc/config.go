package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// packConfig holds the handful of data pack options an .mctestc.toml file
// may override: the pack.mcmeta description and format Emit's datapack.Datapack
// is stamped with.
type packConfig struct {
	Description string `mapstructure:"description"`
	PackFormat  int    `mapstructure:"pack_format"`
}

func defaultPackConfig() packConfig {
	return packConfig{
		Description: "Compiled by mctestc",
		PackFormat:  26,
	}
}

// loadPackConfig reads configPath (if non-empty) through viper, falling back
// to defaultPackConfig for any field the file doesn't set. viper's TOML
// decoding goes through github.com/pelletier/go-toml/v2 under the hood.
func loadPackConfig(configPath string) (packConfig, error) {
	cfg := defaultPackConfig()
	if configPath == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(configPath)
	v.SetDefault("description", cfg.Description)
	v.SetDefault("pack_format", cfg.PackFormat)

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", configPath, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", configPath, err)
	}
	return cfg, nil
}
