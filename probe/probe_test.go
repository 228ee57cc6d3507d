// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package probe_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/text/language"

	"github.com/devblok/vkinfo/config"
	"github.com/devblok/vkinfo/core"
	"github.com/devblok/vkinfo/core/coretest"
	"github.com/devblok/vkinfo/probe"
	"github.com/devblok/vkinfo/report"
)

func defaults(c *qt.C) core.Configuration {
	cfg, err := config.Defaults()
	c.Assert(err, qt.IsNil)
	return cfg
}

func run(c *qt.C, platform *coretest.Platform, cfg core.Configuration) (int, string, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	buf := &bytes.Buffer{}
	code := probe.Run(platform, cfg, report.New(buf, cfg.Output.Format, language.English), logger)
	return code, buf.String(), hook
}

func TestRunSelectsFirstDiscrete(t *testing.T) {
	c := qt.New(t)
	platform := &coretest.Platform{Devices: []core.PhysicalDeviceInfo{
		{Name: "W", Type: core.DeviceTypeIntegratedGPU},
		{Name: "X", Type: core.DeviceTypeDiscreteGPU, VendorID: 4318, APIVersion: core.MakeVersion(1, 3, 0)},
		{Name: "Y", Type: core.DeviceTypeDiscreteGPU},
	}}

	code, out, _ := run(c, platform, defaults(c))
	c.Assert(code, qt.Equals, core.ExitOK)
	c.Assert(out, qt.Equals, "Selected device: X\nVendor ID: 4318 (NVIDIA)\nAPI version: 4206592 (1.3.0)\n")
	c.Assert(platform.Instance.Destroyed, qt.Equals, 1)
	c.Assert(platform.Instance.Queried, qt.Equals, 2)
}

func TestRunNoDevices(t *testing.T) {
	c := qt.New(t)
	platform := &coretest.Platform{}

	code, out, hook := run(c, platform, defaults(c))
	c.Assert(code, qt.Equals, core.ExitOK)
	c.Assert(out, qt.Equals, "No available devices\nFailed to find a suitable GPU\n")
	c.Assert(platform.Instance.Queried, qt.Equals, 0)
	c.Assert(platform.Instance.Destroyed, qt.Equals, 1)
	c.Assert(hook.LastEntry().Level, qt.Equals, logrus.WarnLevel)
	c.Assert(hook.LastEntry().Data["reason"], qt.Equals, "no available devices")
}

func TestRunNoDevicesStrict(t *testing.T) {
	c := qt.New(t)
	cfg := defaults(c)
	cfg.Exit.NoDevice = core.ExitStrictNoDevice

	code, _, _ := run(c, &coretest.Platform{}, cfg)
	c.Assert(code, qt.Equals, core.ExitStrictNoDevice)
}

func TestRunNoSuitableDevice(t *testing.T) {
	c := qt.New(t)
	platform := &coretest.Platform{Devices: []core.PhysicalDeviceInfo{
		{Name: "iGPU", Type: core.DeviceTypeIntegratedGPU},
		{Name: "llvmpipe", Type: core.DeviceTypeCPU},
	}}

	code, out, hook := run(c, platform, defaults(c))
	c.Assert(code, qt.Equals, core.ExitOK)
	c.Assert(out, qt.Equals, "Failed to find a suitable GPU\n")
	c.Assert(platform.Instance.Queried, qt.Equals, 2)
	c.Assert(platform.Instance.Destroyed, qt.Equals, 1)
	c.Assert(hook.LastEntry().Data["scanned"], qt.Equals, 2)
}

func TestRunInitializationFailure(t *testing.T) {
	c := qt.New(t)
	platform := &coretest.Platform{CreateErr: errors.New("VK_ERROR_INCOMPATIBLE_DRIVER")}

	code, out, hook := run(c, platform, defaults(c))
	c.Assert(code, qt.Equals, core.ExitInitialization)
	c.Assert(out, qt.Equals, "Unable to create VkInstance\n")
	c.Assert(platform.Created, qt.Equals, 1)
	// nothing was created, so nothing is enumerated or destroyed
	c.Assert(platform.Instance, qt.IsNil)
	c.Assert(hook.LastEntry().Level, qt.Equals, logrus.ErrorLevel)
}

func TestRunEnumerationFailure(t *testing.T) {
	c := qt.New(t)
	platform := &coretest.Platform{EnumerateErr: errors.New("VK_ERROR_DEVICE_LOST")}

	code, out, _ := run(c, platform, defaults(c))
	c.Assert(code, qt.Equals, core.ExitFailure)
	c.Assert(out, qt.Equals, "core.SelectDevice(): VK_ERROR_DEVICE_LOST\n")
	c.Assert(platform.Instance.Destroyed, qt.Equals, 1)
}

func TestRunPassesInstanceConfiguration(t *testing.T) {
	c := qt.New(t)
	cfg := defaults(c)
	cfg.Instance.DebugMode = true
	cfg.Instance.Layers = []string{"VK_LAYER_MESA_device_select"}
	platform := &coretest.Platform{}

	run(c, platform, cfg)
	c.Assert(platform.Config, qt.DeepEquals, cfg.Instance)
}

func TestRunListAndSnapshot(t *testing.T) {
	c := qt.New(t)
	cfg := defaults(c)
	cfg.Output.List = true
	cfg.Output.Snapshot = filepath.Join(c.TempDir(), "run.json.lz4")
	platform := &coretest.Platform{Devices: []core.PhysicalDeviceInfo{
		{Name: "iGPU", Type: core.DeviceTypeIntegratedGPU, Extensions: []string{"VK_KHR_swapchain"}},
		{Name: "dGPU", Type: core.DeviceTypeDiscreteGPU, Memory: 4 << 30},
	}}

	code, out, _ := run(c, platform, cfg)
	c.Assert(code, qt.Equals, core.ExitOK)
	c.Assert(out, qt.Contains, "iGPU")
	c.Assert(out, qt.Contains, "4,096 MiB")
	c.Assert(out, qt.Contains, "Selected device: dGPU\n")
	c.Assert(platform.Instance.Destroyed, qt.Equals, 1)

	snap, err := report.ReadSnapshot(cfg.Output.Snapshot)
	c.Assert(err, qt.IsNil)
	c.Assert(snap.Report.Status, qt.Equals, report.StatusOK)
	c.Assert(snap.Report.Index, qt.Equals, 1)
	c.Assert(snap.Report.Devices, qt.HasLen, 2)
	c.Assert(snap.Report.Devices[0].Extensions, qt.DeepEquals, []string{"VK_KHR_swapchain"})
}

func TestRunSnapshotFailure(t *testing.T) {
	c := qt.New(t)
	cfg := defaults(c)
	cfg.Output.Snapshot = filepath.Join(c.TempDir(), "missing", "run.json")
	platform := &coretest.Platform{Devices: []core.PhysicalDeviceInfo{
		{Name: "dGPU", Type: core.DeviceTypeDiscreteGPU},
	}}

	code, out, hook := run(c, platform, cfg)
	c.Assert(code, qt.Equals, core.ExitFailure)
	// the report is still printed
	c.Assert(out, qt.Contains, "Selected device: dGPU\n")
	c.Assert(hook.LastEntry().Message, qt.Equals, "Failed to write snapshot")
	c.Assert(platform.Instance.Destroyed, qt.Equals, 1)
}

func TestRunJSON(t *testing.T) {
	c := qt.New(t)
	cfg := defaults(c)
	cfg.Output.Format = core.FormatJSON

	code, out, _ := run(c, &coretest.Platform{}, cfg)
	c.Assert(code, qt.Equals, core.ExitOK)
	c.Assert(out, qt.Contains, `"status": "no_devices"`)
}
