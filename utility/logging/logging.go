// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package logging sets up diagnostics logging. Diagnostics go to
// stderr so stdout only ever carries the report.
package logging

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// New creates a logger writing to w. Unknown levels fall back to info
// and are reported through the logger itself.
func New(w io.Writer, level, format string) *log.Logger {
	logger := log.New()
	logger.SetOutput(w)

	if format == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{
			DisableTimestamp: true,
		})
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.SetLevel(log.InfoLevel)
		logger.WithField("level", level).Warn("Unsupported log level, defaulting to info")
		return logger
	}
	logger.SetLevel(lvl)
	return logger
}
