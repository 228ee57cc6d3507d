// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"
)

// package errors
var (
	ErrInitialization    = errors.New("unable to create instance")
	ErrNoDevice          = errors.New("failed to find a suitable GPU")
	ErrInstanceDestroyed = errors.New("instance used after destruction")
)

// InitializationError is returned when the platform refuses to create
// an instance: no compatible driver, a missing layer or extension.
type InitializationError struct {
	// Op is the failing platform call, e.g. "vk.CreateInstance()"
	Op  string
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

// Unwrap returns the cause
func (e *InitializationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInitialization) hold
func (e *InitializationError) Is(target error) bool {
	return target == ErrInitialization
}

// NoDeviceReason tells the two "no device" outcomes apart
type NoDeviceReason int

// Reasons for NoDeviceError
const (
	NoDevicesAvailable NoDeviceReason = iota
	NoSuitableDevice
)

func (r NoDeviceReason) String() string {
	switch r {
	case NoDevicesAvailable:
		return "no available devices"
	case NoSuitableDevice:
		return "no discrete GPU"
	}
	return "unknown"
}

// NoDeviceError is returned by SelectDevice when nothing matches.
type NoDeviceError struct {
	Reason NoDeviceReason

	// Scanned is the number of devices inspected
	Scanned int
}

func (e *NoDeviceError) Error() string {
	return fmt.Sprintf("%s: %s (%d scanned)", ErrNoDevice, e.Reason, e.Scanned)
}

// Is makes errors.Is(err, ErrNoDevice) hold
func (e *NoDeviceError) Is(target error) bool {
	return target == ErrNoDevice
}
