// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package report renders the outcome of a device probe for humans
// or for scripts.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/devblok/vkinfo/core"
)

// Status of a probe run
type Status string

// Statuses reported
const (
	StatusOK                   Status = "ok"
	StatusNoDevices            Status = "no_devices"
	StatusNoSuitableDevice     Status = "no_suitable_device"
	StatusInitializationFailed Status = "initialization_failed"
	StatusError                Status = "error"
)

// Report is everything a run found out
type Report struct {
	Status   Status                    `json:"status"`
	Error    string                    `json:"error,omitempty"`
	Selected *core.PhysicalDeviceInfo  `json:"selected,omitempty"`
	Index    int                       `json:"index"`
	Devices  []core.PhysicalDeviceInfo `json:"devices,omitempty"`
}

// FromResult builds a report out of what SelectDevice returned
func FromResult(sel core.Selection, err error) Report {
	if err == nil {
		info := sel.Info
		return Report{
			Status:   StatusOK,
			Selected: &info,
			Index:    sel.Index,
		}
	}

	rep := Report{Index: -1, Error: err.Error()}
	var noDevice *core.NoDeviceError
	switch {
	case errors.As(err, &noDevice) && noDevice.Reason == core.NoDevicesAvailable:
		rep.Status = StatusNoDevices
	case errors.As(err, &noDevice):
		rep.Status = StatusNoSuitableDevice
	case errors.Is(err, core.ErrInitialization):
		rep.Status = StatusInitializationFailed
	default:
		rep.Status = StatusError
	}
	return rep
}

// New creates a Reporter writing format to w, messages are
// printed in the language of tag
func New(w io.Writer, format string, tag language.Tag) *Reporter {
	return &Reporter{
		w:       w,
		format:  format,
		printer: message.NewPrinter(tag),
	}
}

// Reporter renders reports
type Reporter struct {
	w       io.Writer
	format  string
	printer *message.Printer
}

// Render writes the report. In text mode the device table
// is printed first when the report carries devices.
func (r *Reporter) Render(rep Report) error {
	if r.format == core.FormatJSON {
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	if len(rep.Devices) > 0 {
		r.table(rep.Devices, rep.Index)
	}

	switch rep.Status {
	case StatusOK:
		d := rep.Selected
		r.println(msgSelected, d.Name)
		vendorID := strconv.FormatUint(uint64(d.VendorID), 10)
		if vendor := d.Vendor(); vendor != "" {
			r.println(msgVendorNamed, vendorID, vendor)
		} else {
			r.println(msgVendor, vendorID)
		}
		r.println(msgAPIVersion, strconv.FormatUint(uint64(d.APIVersion), 10), d.APIVersion.String())
	case StatusNoDevices:
		r.println(msgNoDevices)
		r.println(msgNoSuitable)
	case StatusNoSuitableDevice:
		r.println(msgNoSuitable)
	case StatusInitializationFailed:
		r.println(msgUnableToCreate)
	default:
		fmt.Fprintln(r.w, rep.Error)
	}
	return nil
}

func (r *Reporter) println(key string, args ...interface{}) {
	fmt.Fprintln(r.w, r.printer.Sprintf(key, args...))
}

func (r *Reporter) table(devices []core.PhysicalDeviceInfo, selected int) {
	table := tablewriter.NewWriter(r.w)
	table.SetHeader([]string{"", "#", "Name", "Type", "Vendor", "API", "Driver", "Memory"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for idx, d := range devices {
		marker := ""
		if idx == selected {
			marker = "*"
		}
		vendor := d.Vendor()
		if vendor == "" {
			vendor = fmt.Sprintf("0x%04x", d.VendorID)
		}
		memory := ""
		if d.Memory > 0 {
			memory = r.printer.Sprintf(msgMemory, d.Memory>>20)
		}
		table.Append([]string{
			marker,
			strconv.Itoa(idx),
			d.Name,
			d.Type.String(),
			vendor,
			d.APIVersion.String(),
			d.Driver(),
			memory,
		})
	}
	table.Render()
}
