// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core describes the graphics API collaborator that vkinfo probes
// and the device selection performed against it.
package core

// Platform is the graphics API runtime. Its only job is to hand out
// instances, everything else is queried through the Instance.
type Platform interface {
	// CreateInstance creates an instance with the given configuration.
	// Any failure is returned as an *InitializationError.
	CreateInstance(cfg InstanceConfiguration) (Instance, error)
}

// PhysicalDevice is an opaque handle of a device visible to an Instance.
// It's only valid while the Instance that produced it is alive.
type PhysicalDevice interface{}

// Instance describes a graphics API instance and supporting methods.
// Once created it is ready to use.
type Instance interface {
	// PhysicalDevices returns handles of physical devices
	// in platform enumeration order
	PhysicalDevices() ([]PhysicalDevice, error)

	// Properties returns the general properties of a device
	Properties(PhysicalDevice) (PhysicalDeviceInfo, error)

	// Details fills in extensions, layers and memory of a device
	Details(PhysicalDevice, *PhysicalDeviceInfo) error

	// Destroy destroys internal members, calling it more
	// than once has no effect
	Destroy()
}
