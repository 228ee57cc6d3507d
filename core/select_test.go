// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/vkinfo/core"
	"github.com/devblok/vkinfo/core/coretest"
)

func newInstance(c *qt.C, devices ...core.PhysicalDeviceInfo) (*coretest.Platform, *coretest.Instance) {
	platform := &coretest.Platform{Devices: devices}
	_, err := platform.CreateInstance(core.InstanceConfiguration{})
	c.Assert(err, qt.IsNil)
	return platform, platform.Instance
}

func TestSelectDeviceNoDevices(t *testing.T) {
	c := qt.New(t)
	_, inst := newInstance(c)

	_, err := core.SelectDevice(inst)
	c.Assert(errors.Is(err, core.ErrNoDevice), qt.IsTrue)

	var noDevice *core.NoDeviceError
	c.Assert(errors.As(err, &noDevice), qt.IsTrue)
	c.Assert(noDevice.Reason, qt.Equals, core.NoDevicesAvailable)
	c.Assert(noDevice.Scanned, qt.Equals, 0)
	c.Assert(inst.Queried, qt.Equals, 0)
}

func TestSelectDeviceFirstDiscreteWins(t *testing.T) {
	c := qt.New(t)
	_, inst := newInstance(c,
		core.PhysicalDeviceInfo{Name: "W", Type: core.DeviceTypeIntegratedGPU},
		core.PhysicalDeviceInfo{Name: "X", Type: core.DeviceTypeDiscreteGPU, VendorID: core.VendorNVIDIA},
		core.PhysicalDeviceInfo{Name: "Y", Type: core.DeviceTypeDiscreteGPU, VendorID: core.VendorAMD},
	)

	sel, err := core.SelectDevice(inst)
	c.Assert(err, qt.IsNil)
	c.Assert(sel.Info.Name, qt.Equals, "X")
	c.Assert(sel.Info.VendorID, qt.Equals, core.VendorNVIDIA)
	c.Assert(sel.Index, qt.Equals, 1)
	// the scan stops at the match
	c.Assert(inst.Queried, qt.Equals, 2)
}

func TestSelectDeviceNoDiscrete(t *testing.T) {
	tests := []struct {
		name    string
		devices []core.PhysicalDeviceInfo
	}{
		{
			name:    "single integrated",
			devices: []core.PhysicalDeviceInfo{{Name: "iGPU", Type: core.DeviceTypeIntegratedGPU}},
		},
		{
			name: "every other type",
			devices: []core.PhysicalDeviceInfo{
				{Name: "llvmpipe", Type: core.DeviceTypeCPU},
				{Name: "virtio", Type: core.DeviceTypeVirtualGPU},
				{Name: "iGPU", Type: core.DeviceTypeIntegratedGPU},
				{Name: "other", Type: core.DeviceTypeOther},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			_, inst := newInstance(c, tt.devices...)

			_, err := core.SelectDevice(inst)
			var noDevice *core.NoDeviceError
			c.Assert(errors.As(err, &noDevice), qt.IsTrue)
			c.Assert(noDevice.Reason, qt.Equals, core.NoSuitableDevice)
			c.Assert(noDevice.Scanned, qt.Equals, len(tt.devices))
			c.Assert(inst.Queried, qt.Equals, len(tt.devices))
		})
	}
}

func TestSelectDeviceEnumerationError(t *testing.T) {
	c := qt.New(t)
	platform, inst := newInstance(c)
	platform.EnumerateErr = errors.New("driver lost")

	_, err := core.SelectDevice(inst)
	c.Assert(err, qt.ErrorMatches, `core.SelectDevice\(\): driver lost`)
	c.Assert(errors.Is(err, core.ErrNoDevice), qt.IsFalse)
}

func TestSelectDeviceAfterDestroy(t *testing.T) {
	c := qt.New(t)
	_, inst := newInstance(c, core.PhysicalDeviceInfo{Type: core.DeviceTypeDiscreteGPU})
	inst.Destroy()

	_, err := core.SelectDevice(inst)
	c.Assert(errors.Is(err, core.ErrInstanceDestroyed), qt.IsTrue)
}

func TestDevicesInfo(t *testing.T) {
	c := qt.New(t)
	platform, inst := newInstance(c,
		core.PhysicalDeviceInfo{Name: "A", Type: core.DeviceTypeIntegratedGPU, Extensions: []string{"VK_KHR_swapchain"}, Memory: 1 << 30},
		core.PhysicalDeviceInfo{Name: "B", Type: core.DeviceTypeDiscreteGPU, Layers: []string{"VK_LAYER_KHRONOS_validation"}},
	)

	plain, err := core.DevicesInfo(inst, false)
	c.Assert(err, qt.IsNil)
	c.Assert(plain, qt.HasLen, 2)
	c.Assert(plain[0].Extensions, qt.IsNil)
	c.Assert(plain[0].Memory, qt.Equals, uint64(0))

	detailed, err := core.DevicesInfo(inst, true)
	c.Assert(err, qt.IsNil)
	c.Assert(detailed[0].Extensions, qt.DeepEquals, []string{"VK_KHR_swapchain"})
	c.Assert(detailed[0].Memory, qt.Equals, uint64(1<<30))
	c.Assert(detailed[1].Layers, qt.DeepEquals, []string{"VK_LAYER_KHRONOS_validation"})

	platform.DetailsErr = errors.New("layers unavailable")
	invalid, err := core.DevicesInfo(inst, true)
	c.Assert(err, qt.IsNil)
	c.Assert(invalid[0].Invalid, qt.IsTrue)
	c.Assert(invalid[1].Name, qt.Equals, "B")
}
