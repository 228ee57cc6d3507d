// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "fmt"

// DeviceType classifies a physical device. Values match VkPhysicalDeviceType.
type DeviceType uint32

// Identifies physical device types
const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

var deviceTypeNames = map[DeviceType]string{
	DeviceTypeOther:         "other",
	DeviceTypeIntegratedGPU: "integrated",
	DeviceTypeDiscreteGPU:   "discrete",
	DeviceTypeVirtualGPU:    "virtual",
	DeviceTypeCPU:           "cpu",
}

func (t DeviceType) String() string {
	if name, ok := deviceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint32(t))
}

// MarshalText encodes the type by its name
func (t DeviceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name written by MarshalText
func (t *DeviceType) UnmarshalText(text []byte) error {
	for dt, name := range deviceTypeNames {
		if name == string(text) {
			*t = dt
			return nil
		}
	}
	return fmt.Errorf("unknown device type %q", text)
}

// PhysicalDeviceInfo describes available physical properties of a device.
// Extensions, Layers and Memory are only set after Instance.Details.
type PhysicalDeviceInfo struct {
	Name          string     `json:"name"`
	VendorID      uint32     `json:"vendor_id"`
	DeviceID      uint32     `json:"device_id"`
	DriverVersion uint32     `json:"driver_version"`
	APIVersion    Version    `json:"api_version"`
	Type          DeviceType `json:"type"`

	Extensions []string `json:"extensions,omitempty"`
	Layers     []string `json:"layers,omitempty"`
	Memory     uint64   `json:"memory,omitempty"`
	Invalid    bool     `json:"invalid,omitempty"`
}

// Vendor returns the vendor name for a known PCI vendor ID,
// or an empty string.
func (p PhysicalDeviceInfo) Vendor() string {
	return VendorName(p.VendorID)
}

// Driver formats the driver version. NVIDIA packs it as
// 10.8.8.6 bits, everyone else follows the API version layout.
func (p PhysicalDeviceInfo) Driver() string {
	if p.VendorID == VendorNVIDIA {
		v := p.DriverVersion
		return fmt.Sprintf("%d.%d.%d.%d", (v>>22)&0x3ff, (v>>14)&0xff, (v>>6)&0xff, v&0x3f)
	}
	return Version(p.DriverVersion).String()
}

// Known PCI vendor IDs
const (
	VendorAMD         uint32 = 0x1002
	VendorImagination uint32 = 0x1010
	VendorApple       uint32 = 0x106b
	VendorNVIDIA      uint32 = 0x10de
	VendorARM         uint32 = 0x13b5
	VendorQualcomm    uint32 = 0x5143
	VendorIntel       uint32 = 0x8086
	VendorMesa        uint32 = 0x10005
)

var vendorNames = map[uint32]string{
	VendorAMD:         "AMD",
	VendorImagination: "Imagination",
	VendorApple:       "Apple",
	VendorNVIDIA:      "NVIDIA",
	VendorARM:         "ARM",
	VendorQualcomm:    "Qualcomm",
	VendorIntel:       "Intel",
	VendorMesa:        "Mesa",
}

// VendorName looks up a vendor ID
func VendorName(id uint32) string {
	return vendorNames[id]
}
