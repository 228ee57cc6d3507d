// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command vkinfo creates a Vulkan instance, selects the first discrete
// GPU and prints its name, vendor ID and API version.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"golang.org/x/text/language"

	"github.com/devblok/vkinfo/config"
	"github.com/devblok/vkinfo/core"
	"github.com/devblok/vkinfo/core/vulkan"
	"github.com/devblok/vkinfo/probe"
	"github.com/devblok/vkinfo/report"
	"github.com/devblok/vkinfo/utility/logging"
)

func init() {
	runtime.LockOSThread()
}

var (
	configFile = flag.String("config", "", "YAML configuration file")
	envFile    = flag.String("env", "", "Load environment variables from a dotenv file")
	jsonOutput = flag.Bool("json", false, "Print the report as JSON")
	list       = flag.Bool("list", false, "Print every enumerated device")
	snapshot   = flag.String("snapshot", "", "Write a snapshot of the run to a file, .lz4 to compress")
	strict     = flag.Bool("strict", false, "Exit with a distinct status when no suitable GPU is found")
	debug      = flag.Bool("vkdbg", false, "Load Vulkan validation layers")
	loader     = flag.String("loader", "", "Vulkan loader: default or sdl")
	locale     = flag.String("locale", "", "Output locale as a BCP 47 tag")
	logLevel   = flag.String("loglevel", "", "Log level: debug, info, warn, error")
)

func main() {
	flag.Parse()
	os.Exit(start())
}

// start returns instead of exiting so deferred releases run
func start() int {
	if *envFile != "" {
		if err := config.LoadEnvFile(*envFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return core.ExitFailure
		}
	}

	cfg, err := config.Load(*configFile, config.Environment())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return core.ExitFailure
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return core.ExitFailure
	}

	log := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	// Locale is process-wide configuration, it's resolved here once
	// and only ever handed down.
	tag, err := report.ParseLocale(cfg.Locale)
	if err != nil {
		log.WithError(err).WithField("locale", cfg.Locale).Warn("Unsupported locale, using English")
		tag = language.English
	}
	reporter := report.New(os.Stdout, cfg.Output.Format, tag)

	var procAddr unsafe.Pointer
	if cfg.Instance.Loader == core.LoaderSDL {
		addr, release, err := loadSDL()
		if err != nil {
			log.WithError(err).Error("Unable to load Vulkan through SDL")
			if rerr := reporter.Render(report.FromResult(core.Selection{}, err)); rerr != nil {
				log.WithError(rerr).Error("Failed to write report")
			}
			return core.ExitInitialization
		}
		defer release()
		procAddr = addr
	}

	return probe.Run(vulkan.NewPlatform(log, procAddr), cfg, reporter, log)
}

func applyFlags(cfg *core.Configuration) {
	if *jsonOutput {
		cfg.Output.Format = core.FormatJSON
	}
	if *list {
		cfg.Output.List = true
	}
	if *snapshot != "" {
		cfg.Output.Snapshot = *snapshot
	}
	if *strict {
		cfg.Exit.NoDevice = core.ExitStrictNoDevice
	}
	if *debug {
		cfg.Instance.DebugMode = true
	}
	if *loader != "" {
		cfg.Instance.Loader = *loader
	}
	if *locale != "" {
		cfg.Locale = *locale
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
}
