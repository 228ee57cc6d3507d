// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/vkinfo/core"
)

// loadSDL loads the Vulkan library through SDL and returns its
// vkGetInstanceProcAddr. release must be called after every
// instance created from it has been destroyed.
func loadSDL() (unsafe.Pointer, func(), error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, nil, &core.InitializationError{Op: "sdl.Init()", Err: err}
	}

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		sdl.Quit()
		return nil, nil, &core.InitializationError{Op: "sdl.VulkanLoadLibrary()", Err: err}
	}

	release := func() {
		sdl.VulkanUnloadLibrary()
		sdl.Quit()
	}
	return sdl.VulkanGetVkGetInstanceProcAddr(), release, nil
}
