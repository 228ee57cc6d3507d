// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vulkan implements core.Platform on top of the Vulkan API.
package vulkan

import (
	"fmt"
	"sync"
	"unsafe"

	vk "github.com/devblok/vulkan"
	"github.com/sirupsen/logrus"

	"github.com/devblok/vkinfo/core"
)

// Layers and extensions enabled in debug mode
const (
	ValidationLayer      = "VK_LAYER_KHRONOS_validation"
	DebugReportExtension = "VK_EXT_debug_report"
)

// NewPlatform creates a Vulkan platform. When procAddr is nil the system
// loader is used, otherwise it must point to vkGetInstanceProcAddr
// of an already loaded library.
func NewPlatform(log logrus.FieldLogger, procAddr unsafe.Pointer) *Platform {
	return &Platform{
		log:      log,
		procAddr: procAddr,
	}
}

// Platform is the Vulkan loader. It's initialised on first use.
type Platform struct {
	log      logrus.FieldLogger
	procAddr unsafe.Pointer

	initOnce sync.Once
	initErr  error
}

func (p *Platform) init() error {
	p.initOnce.Do(func() {
		if p.procAddr == nil {
			if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
				p.initErr = &core.InitializationError{Op: "vk.SetDefaultGetInstanceProcAddr()", Err: err}
				return
			}
		} else {
			vk.SetGetInstanceProcAddr(p.procAddr)
		}

		if err := vk.Init(); err != nil {
			p.initErr = &core.InitializationError{Op: "vk.Init()", Err: err}
		}
	})
	return p.initErr
}

// CreateInstance implements core.Platform
func (p *Platform) CreateInstance(cfg core.InstanceConfiguration) (core.Instance, error) {
	if err := p.init(); err != nil {
		return nil, err
	}

	layers := append([]string(nil), cfg.Layers...)
	extensions := append([]string(nil), cfg.Extensions...)
	if cfg.DebugMode {
		available, err := instanceLayers()
		switch {
		case err != nil:
			p.log.WithError(err).Warn("Failed to enumerate instance layers, validation disabled")
		case !contains(available, ValidationLayer):
			p.log.WithField("layer", ValidationLayer).Warn("Validation layer requested but not available")
		default:
			layers = append(layers, ValidationLayer)
			extensions = append(extensions, DebugReportExtension)
			p.log.WithField("layer", ValidationLayer).Debug("Validation layer enabled")
		}
	}

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(cfg.APIVersion),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PApplicationName:   safeString(cfg.ApplicationName),
		PEngineName:        safeString(cfg.EngineName),
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, &core.InitializationError{Op: "vk.CreateInstance()", Err: err}
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, &core.InitializationError{Op: "vk.InitInstance()", Err: err}
	}

	p.log.WithFields(logrus.Fields{
		"layers":     layers,
		"extensions": extensions,
	}).Debug("Instance created")

	return &Instance{instance: instance}, nil
}

// Instance describes a Vulkan API Instance
type Instance struct {
	instance  vk.Instance
	destroyed bool
}

// PhysicalDevices implements core.Instance
func (v *Instance) PhysicalDevices() ([]core.PhysicalDevice, error) {
	if v.destroyed {
		return nil, core.ErrInstanceDestroyed
	}

	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(v.instance, &deviceCount, nil)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %w", err)
	}
	if deviceCount == 0 {
		return nil, nil
	}
	availableDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(v.instance, &deviceCount, availableDevices)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %w", err)
	}

	devices := make([]core.PhysicalDevice, deviceCount)
	for idx := range devices {
		devices[idx] = availableDevices[idx]
	}
	return devices, nil
}

func physicalDevice(device core.PhysicalDevice) (vk.PhysicalDevice, error) {
	pd, ok := device.(vk.PhysicalDevice)
	if !ok {
		return nil, fmt.Errorf("not a vulkan physical device: %T", device)
	}
	return pd, nil
}

// Properties implements core.Instance
func (v *Instance) Properties(device core.PhysicalDevice) (core.PhysicalDeviceInfo, error) {
	if v.destroyed {
		return core.PhysicalDeviceInfo{}, core.ErrInstanceDestroyed
	}
	pd, err := physicalDevice(device)
	if err != nil {
		return core.PhysicalDeviceInfo{}, err
	}

	var physicalDeviceProperties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(pd, &physicalDeviceProperties)
	physicalDeviceProperties.Deref()

	return core.PhysicalDeviceInfo{
		Name:          vk.ToString(physicalDeviceProperties.DeviceName[:]),
		VendorID:      physicalDeviceProperties.VendorID,
		DeviceID:      physicalDeviceProperties.DeviceID,
		DriverVersion: physicalDeviceProperties.DriverVersion,
		APIVersion:    core.Version(physicalDeviceProperties.ApiVersion),
		Type:          deviceType(physicalDeviceProperties.DeviceType),
	}, nil
}

// Details implements core.Instance
func (v *Instance) Details(device core.PhysicalDevice, info *core.PhysicalDeviceInfo) error {
	if v.destroyed {
		return core.ErrInstanceDestroyed
	}
	pd, err := physicalDevice(device)
	if err != nil {
		return err
	}

	// Get extension info
	var numDeviceExtensions uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &numDeviceExtensions, nil)); err != nil {
		return fmt.Errorf("vk.EnumerateDeviceExtensionProperties(): %w", err)
	}
	deviceExt := make([]vk.ExtensionProperties, numDeviceExtensions)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &numDeviceExtensions, deviceExt)); err != nil {
		return fmt.Errorf("vk.EnumerateDeviceExtensionProperties(): %w", err)
	}
	info.Extensions = info.Extensions[:0]
	for _, ext := range deviceExt {
		ext.Deref()
		info.Extensions = append(info.Extensions, vk.ToString(ext.ExtensionName[:]))
	}

	// Get layers info
	var numDeviceLayers uint32
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(pd, &numDeviceLayers, nil)); err != nil {
		return fmt.Errorf("vk.EnumerateDeviceLayerProperties(): %w", err)
	}
	deviceLayers := make([]vk.LayerProperties, numDeviceLayers)
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(pd, &numDeviceLayers, deviceLayers)); err != nil {
		return fmt.Errorf("vk.EnumerateDeviceLayerProperties(): %w", err)
	}
	info.Layers = info.Layers[:0]
	for _, layer := range deviceLayers {
		layer.Deref()
		info.Layers = append(info.Layers, vk.ToString(layer.LayerName[:]))
	}

	// Get memory info
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(pd, &memoryProperties)
	memoryProperties.Deref()
	info.Memory = 0
	for iMem := uint32(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
		memoryProperties.MemoryHeaps[iMem].Deref()
		info.Memory += uint64(memoryProperties.MemoryHeaps[iMem].Size)
	}
	return nil
}

// Destroy implements core.Instance
func (v *Instance) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	vk.DestroyInstance(v.instance, nil)
}

func instanceLayers() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, fmt.Errorf("vk.EnumerateInstanceLayerProperties(): %w", err)
	}
	list := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, list)); err != nil {
		return nil, fmt.Errorf("vk.EnumerateInstanceLayerProperties(): %w", err)
	}
	names := make([]string, 0, count)
	for _, layer := range list {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

func deviceType(t vk.PhysicalDeviceType) core.DeviceType {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return core.DeviceTypeIntegratedGPU
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return core.DeviceTypeDiscreteGPU
	case vk.PhysicalDeviceTypeVirtualGpu:
		return core.DeviceTypeVirtualGPU
	case vk.PhysicalDeviceTypeCpu:
		return core.DeviceTypeCPU
	default:
		return core.DeviceTypeOther
	}
}
