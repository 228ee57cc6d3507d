// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"
)

// Configuration defines the global tool configuration
type Configuration struct {
	Instance InstanceConfiguration `yaml:"instance"`
	Output   OutputConfiguration   `yaml:"output"`
	Log      LogConfiguration      `yaml:"log"`
	Exit     ExitConfiguration     `yaml:"exit"`

	// Locale is a BCP 47 tag used for formatting output,
	// applied once at startup
	Locale string `yaml:"locale"`
}

// Loaders the instance can be created through
const (
	LoaderDefault = "default"
	LoaderSDL     = "sdl"
)

// InstanceConfiguration is used to create an Instance
type InstanceConfiguration struct {
	ApplicationName string   `yaml:"application_name"`
	EngineName      string   `yaml:"engine_name"`
	APIVersion      Version  `yaml:"api_version"`
	DebugMode       bool     `yaml:"debug"`
	Loader          string   `yaml:"loader"`
	Extensions      []string `yaml:"extensions"`
	Layers          []string `yaml:"layers"`
}

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// OutputConfiguration is used to configure the reporter
type OutputConfiguration struct {
	Format string `yaml:"format"`

	// List prints every enumerated device, not only the selected one
	List bool `yaml:"list"`

	// Snapshot is a file the whole run is written to, empty to disable.
	// A .lz4 suffix compresses it.
	Snapshot string `yaml:"snapshot"`
}

// LogConfiguration is used to configure diagnostics logging
type LogConfiguration struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ExitConfiguration holds process exit statuses
type ExitConfiguration struct {
	// NoDevice is returned when no suitable device was found
	NoDevice int `yaml:"no_device"`
}

// Exit statuses
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitInitialization = ExitFailure
	ExitStrictNoDevice = 2
)

// Validate checks the configuration for values nothing can act on
func (c Configuration) Validate() error {
	switch c.Instance.Loader {
	case LoaderDefault, LoaderSDL:
	default:
		return fmt.Errorf("instance.loader: unknown loader %q", c.Instance.Loader)
	}

	switch c.Output.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}

	switch c.Log.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}

	if c.Exit.NoDevice < 0 || c.Exit.NoDevice > 125 {
		return fmt.Errorf("exit.no_device: %d out of range", c.Exit.NoDevice)
	}
	if c.Exit.NoDevice == ExitInitialization {
		return errors.New("exit.no_device: must differ from the initialization failure status")
	}
	return nil
}
