// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a packed API version: variant:3 major:7 minor:10 patch:12.
// Devices written before the variant field existed report it as zero,
// so the layout is compatible with the older major:10 packing for
// any version seen in practice.
type Version uint32

// MakeVersion packs a version
func MakeVersion(major, minor, patch uint32) Version {
	return Version(major<<22 | minor<<12 | patch)
}

// Variant returns the variant number, zero for Vulkan
func (v Version) Variant() uint32 {
	return uint32(v) >> 29
}

// Major returns the major version number
func (v Version) Major() uint32 {
	return (uint32(v) >> 22) & 0x7f
}

// Minor returns the minor version number
func (v Version) Minor() uint32 {
	return (uint32(v) >> 12) & 0x3ff
}

// Patch returns the patch version number
func (v Version) Patch() uint32 {
	return uint32(v) & 0xfff
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// ParseVersion parses "major.minor.patch", minor and patch
// may be left out
func ParseVersion(s string) (Version, error) {
	var parts [3]uint32
	fields := strings.Split(s, ".")
	if len(fields) == 0 || len(fields) > 3 {
		return 0, fmt.Errorf("invalid version %q", s)
	}
	limits := [3]uint64{0x7f, 0x3ff, 0xfff}
	for idx, field := range fields {
		n, err := strconv.ParseUint(field, 10, 32)
		if err != nil || n > limits[idx] {
			return 0, fmt.Errorf("invalid version %q", s)
		}
		parts[idx] = uint32(n)
	}
	return MakeVersion(parts[0], parts[1], parts[2]), nil
}

// MarshalText encodes the version as "major.minor.patch"
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
