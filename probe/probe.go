// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package probe runs the create instance, select device, report
// sequence against a platform and decides the exit status.
package probe

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/devblok/vkinfo/core"
	"github.com/devblok/vkinfo/report"
)

// Run probes platform and renders the outcome through rep.
// The instance, once created, is destroyed exactly once before
// Run returns. The returned value is the process exit status.
func Run(platform core.Platform, cfg core.Configuration, rep *report.Reporter, log logrus.FieldLogger) int {
	inst, err := platform.CreateInstance(cfg.Instance)
	if err != nil {
		log.WithError(err).Error("Unable to create instance")
		if rerr := rep.Render(report.FromResult(core.Selection{}, err)); rerr != nil {
			log.WithError(rerr).Error("Failed to write report")
		}
		return core.ExitInitialization
	}
	defer inst.Destroy()

	sel, err := core.SelectDevice(inst)
	code := exitStatus(cfg, sel, err, log)

	result := report.FromResult(sel, err)
	var devices []core.PhysicalDeviceInfo
	if cfg.Output.List || cfg.Output.Snapshot != "" {
		if devices, err = core.DevicesInfo(inst, true); err != nil {
			log.WithError(err).Warn("Failed to collect device details")
		}
	}

	rendered := result
	if cfg.Output.List {
		rendered.Devices = devices
	}
	if err := rep.Render(rendered); err != nil {
		log.WithError(err).Error("Failed to write report")
		code = failed(code)
	}

	if cfg.Output.Snapshot != "" {
		result.Devices = devices
		if err := report.WriteSnapshot(cfg.Output.Snapshot, report.NewSnapshot(result)); err != nil {
			log.WithError(err).Error("Failed to write snapshot")
			code = failed(code)
		} else {
			log.WithField("path", cfg.Output.Snapshot).Debug("Snapshot written")
		}
	}
	return code
}

func exitStatus(cfg core.Configuration, sel core.Selection, err error, log logrus.FieldLogger) int {
	if err == nil {
		log.WithFields(logrus.Fields{
			"device":    sel.Info.Name,
			"vendor_id": sel.Info.VendorID,
			"index":     sel.Index,
		}).Debug("Selected discrete GPU")
		return core.ExitOK
	}

	var noDevice *core.NoDeviceError
	if errors.As(err, &noDevice) {
		log.WithFields(logrus.Fields{
			"reason":  noDevice.Reason.String(),
			"scanned": noDevice.Scanned,
		}).Warn("No suitable device")
		return cfg.Exit.NoDevice
	}

	log.WithError(err).Error("Device selection failed")
	return core.ExitFailure
}

// failed keeps a failing status, turning success into failure
func failed(code int) int {
	if code == core.ExitOK {
		return core.ExitFailure
	}
	return code
}
