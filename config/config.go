// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config assembles the tool configuration from the embedded
// defaults, an optional YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gobuffalo/envy"
	"github.com/gobuffalo/packr"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/devblok/vkinfo/core"
)

const defaultsFile = "defaults.yaml"

// EnvPrefix prefixes every environment variable the configuration reads
const EnvPrefix = "VKINFO_"

// StaticResources holds the embedded defaults
var StaticResources = packr.NewBox("./assets")

// LookupFunc looks up an environment variable
type LookupFunc func(key string) (string, bool)

// Defaults returns the built-in configuration
func Defaults() (core.Configuration, error) {
	var cfg core.Configuration
	raw, err := StaticResources.Find(defaultsFile)
	if err != nil {
		return cfg, fmt.Errorf("config.Defaults(): %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config.Defaults(): %w", err)
	}
	return cfg, nil
}

// Load builds the configuration. path may be empty, lookup may be nil.
// The result is validated.
func Load(path string, lookup LookupFunc) (core.Configuration, error) {
	cfg, err := Defaults()
	if err != nil {
		return cfg, err
	}
	if path != "" {
		if err := LoadFile(&cfg, path); err != nil {
			return cfg, err
		}
	}
	if lookup != nil {
		if err := ApplyEnv(&cfg, lookup); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}

// LoadFile overlays the YAML file at path onto cfg,
// keys missing from the file are left untouched.
func LoadFile(cfg *core.Configuration, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// LoadEnvFile loads a dotenv file into the process environment.
// Variables that are already set win.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	envy.Reload()
	return nil
}

// Environment looks variables up through envy, which has already
// picked up a .env file in the working directory if there is one.
func Environment() LookupFunc {
	return func(key string) (string, bool) {
		value, err := envy.MustGet(key)
		return value, err == nil
	}
}

// ApplyEnv overlays VKINFO_* variables onto cfg
func ApplyEnv(cfg *core.Configuration, lookup LookupFunc) error {
	get := func(name string) (string, bool) {
		return lookup(EnvPrefix + name)
	}

	if v, ok := get("APPLICATION_NAME"); ok {
		cfg.Instance.ApplicationName = v
	}
	if v, ok := get("API_VERSION"); ok {
		version, err := core.ParseVersion(v)
		if err != nil {
			return fmt.Errorf("%sAPI_VERSION: %w", EnvPrefix, err)
		}
		cfg.Instance.APIVersion = version
	}
	if v, ok := get("DEBUG"); ok {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDEBUG: %w", EnvPrefix, err)
		}
		cfg.Instance.DebugMode = debug
	}
	if v, ok := get("LOADER"); ok {
		cfg.Instance.Loader = v
	}
	if v, ok := get("LAYERS"); ok {
		cfg.Instance.Layers = splitList(v)
	}
	if v, ok := get("EXTENSIONS"); ok {
		cfg.Instance.Extensions = splitList(v)
	}
	if v, ok := get("OUTPUT_FORMAT"); ok {
		cfg.Output.Format = v
	}
	if v, ok := get("SNAPSHOT"); ok {
		cfg.Output.Snapshot = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}
	if v, ok := get("NO_DEVICE_EXIT"); ok {
		code, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sNO_DEVICE_EXIT: %w", EnvPrefix, err)
		}
		cfg.Exit.NoDevice = code
	}
	if v, ok := get("LOCALE"); ok {
		cfg.Locale = v
	}
	return nil
}

func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
