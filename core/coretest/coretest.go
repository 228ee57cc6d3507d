// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package coretest provides an in-memory Platform for tests.
package coretest

import (
	"errors"

	"github.com/devblok/vkinfo/core"
)

// Platform hands out a single Instance reporting Devices.
type Platform struct {
	Devices []core.PhysicalDeviceInfo

	// CreateErr fails CreateInstance when set
	CreateErr error

	// EnumerateErr fails PhysicalDevices when set
	EnumerateErr error

	// DetailsErr fails Details when set
	DetailsErr error

	// Created counts CreateInstance calls
	Created int

	// Instance is the last instance created
	Instance *Instance

	// Config is the configuration the last instance was created with
	Config core.InstanceConfiguration
}

// CreateInstance implements core.Platform
func (p *Platform) CreateInstance(cfg core.InstanceConfiguration) (core.Instance, error) {
	p.Created++
	p.Config = cfg
	if p.CreateErr != nil {
		return nil, &core.InitializationError{
			Op:  "coretest.CreateInstance()",
			Err: p.CreateErr,
		}
	}
	p.Instance = &Instance{platform: p}
	return p.Instance, nil
}

// Instance records what was asked of it.
type Instance struct {
	platform *Platform

	Enumerated int
	Queried    int
	Destroyed  int
}

type handle int

// PhysicalDevices implements core.Instance
func (i *Instance) PhysicalDevices() ([]core.PhysicalDevice, error) {
	if i.Destroyed > 0 {
		return nil, core.ErrInstanceDestroyed
	}
	i.Enumerated++
	if i.platform.EnumerateErr != nil {
		return nil, i.platform.EnumerateErr
	}
	devices := make([]core.PhysicalDevice, len(i.platform.Devices))
	for idx := range devices {
		devices[idx] = handle(idx)
	}
	return devices, nil
}

// Properties implements core.Instance
func (i *Instance) Properties(device core.PhysicalDevice) (core.PhysicalDeviceInfo, error) {
	if i.Destroyed > 0 {
		return core.PhysicalDeviceInfo{}, core.ErrInstanceDestroyed
	}
	i.Queried++
	h, ok := device.(handle)
	if !ok || int(h) >= len(i.platform.Devices) {
		return core.PhysicalDeviceInfo{}, errors.New("coretest: unknown device")
	}
	info := i.platform.Devices[h]
	info.Extensions, info.Layers, info.Memory = nil, nil, 0
	return info, nil
}

// Details implements core.Instance
func (i *Instance) Details(device core.PhysicalDevice, info *core.PhysicalDeviceInfo) error {
	if i.Destroyed > 0 {
		return core.ErrInstanceDestroyed
	}
	if i.platform.DetailsErr != nil {
		return i.platform.DetailsErr
	}
	h, ok := device.(handle)
	if !ok || int(h) >= len(i.platform.Devices) {
		return errors.New("coretest: unknown device")
	}
	src := i.platform.Devices[h]
	info.Extensions = src.Extensions
	info.Layers = src.Layers
	info.Memory = src.Memory
	return nil
}

// Destroy implements core.Instance. Every call is counted
// so tests can check it happened exactly once.
func (i *Instance) Destroy() {
	i.Destroyed++
}
