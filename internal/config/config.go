// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

// Package config loads runtime configuration from defaults, an
// optional YAML file and command-line flags, in that order of
// precedence (later sources win).
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/unbservices/uuiduser/internal/identity"
)

// Config is the resolved runtime configuration.
type Config struct {
	DatabaseURL string     `koanf:"database_url"`
	LogFormat   string     `koanf:"log_format"`
	MetricsAddr string     `koanf:"metrics_addr"`
	Auth        AuthConfig `koanf:"auth"`
}

// AuthConfig configures the authentication resolver.
type AuthConfig struct {
	IdentifierField       string `koanf:"identifier_field"`
	PrimaryEmailLoginOnly bool   `koanf:"primary_email_login_only"`
}

// defaults mirror identity.DefaultConfig so a bare invocation behaves
// the same as an unconfigured resolver.
func defaults() map[string]any {
	id := identity.DefaultConfig()
	return map[string]any{
		"database_url":                  "postgres://localhost:5432/uuiduser?sslmode=disable",
		"log_format":                    "text",
		"metrics_addr":                  ":9090",
		"auth.identifier_field":         id.IdentifierField,
		"auth.primary_email_login_only": id.PrimaryEmailLoginOnly,
	}
}

// Load resolves configuration. path may be empty; a missing file at an
// explicitly given path is an error, flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_DEFAULTS_FAILED").Wrap(err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, oops.Code("CONFIG_FILE_NOT_FOUND").
				With("path", path).
				Wrap(err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_INVALID").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}
	return &cfg, nil
}

// AuthResolverConfig converts the loaded auth section into the
// resolver's own config type.
func (c *Config) AuthResolverConfig() identity.Config {
	return identity.Config{
		IdentifierField:       c.Auth.IdentifierField,
		PrimaryEmailLoginOnly: c.Auth.PrimaryEmailLoginOnly,
	}
}
