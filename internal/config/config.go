// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package config loads rpcgen settings.
//
// Precedence, highest first: RPCGEN_* environment variables, the config
// file (if one is given), then the defaults.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const EnvPrefix = "RPCGEN"

type Config struct {
	// Preprocessor command; the input file name is appended
	CPP string `mapstructure:"cpp" validate:"required"`

	// Package clause of generated files. Empty derives it from the input.
	Package string `mapstructure:"package" validate:"omitempty,goident"`

	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cpp", "cpp")
	v.SetDefault("package", "")
	v.SetDefault("log_level", "warn")
}

// Load reads the configuration. configPath may be empty; a named file which
// does not exist is an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("configuration file not found: %s", configPath)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// isPackageName reports whether the field holds a usable package clause
func isPackageName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return token.IsIdentifier(name) && name != "_"
}

// Validate checks cfg against its struct tags
func Validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("goident", isPackageName); err != nil {
		return err
	}
	return v.Struct(cfg)
}
