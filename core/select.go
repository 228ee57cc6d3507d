// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "fmt"

// Selection is the outcome of SelectDevice
type Selection struct {
	Device PhysicalDevice
	Info   PhysicalDeviceInfo

	// Index in platform enumeration order
	Index int
}

// SelectDevice returns the first discrete GPU reported by the instance,
// in platform enumeration order. Later discrete GPUs are ignored.
// When there are no devices at all no properties are queried.
// It only queries inst, it has no other side effects.
func SelectDevice(inst Instance) (Selection, error) {
	devices, err := inst.PhysicalDevices()
	if err != nil {
		return Selection{}, fmt.Errorf("core.SelectDevice(): %w", err)
	}

	if len(devices) == 0 {
		return Selection{}, &NoDeviceError{Reason: NoDevicesAvailable}
	}

	for idx, device := range devices {
		info, err := inst.Properties(device)
		if err != nil {
			return Selection{}, fmt.Errorf("core.SelectDevice(): device %d: %w", idx, err)
		}
		if info.Type == DeviceTypeDiscreteGPU {
			return Selection{
				Device: device,
				Info:   info,
				Index:  idx,
			}, nil
		}
	}

	return Selection{}, &NoDeviceError{
		Reason:  NoSuitableDevice,
		Scanned: len(devices),
	}
}

// DevicesInfo returns properties of all devices, with details
// filled in when detailed is set. A device whose details fail
// to load is marked Invalid and keeps its general properties.
func DevicesInfo(inst Instance, detailed bool) ([]PhysicalDeviceInfo, error) {
	devices, err := inst.PhysicalDevices()
	if err != nil {
		return nil, fmt.Errorf("core.DevicesInfo(): %w", err)
	}

	pdi := make([]PhysicalDeviceInfo, 0, len(devices))
	for idx, device := range devices {
		info, err := inst.Properties(device)
		if err != nil {
			return nil, fmt.Errorf("core.DevicesInfo(): device %d: %w", idx, err)
		}
		if detailed {
			if err := inst.Details(device, &info); err != nil {
				info.Invalid = true
			}
		}
		pdi = append(pdi, info)
	}
	return pdi, nil
}
