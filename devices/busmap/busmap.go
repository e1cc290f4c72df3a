// Copyright 2019 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package busmap scans an I²C bus and renders the 7-bit address map to
// the terminal (stdout) using ANSI color codes.
//
// Useful to eyeball which devices answer on a freshly wired bus.
package busmap // import "periph.io/x/tiva/devices/busmap"

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/periph/conn/i2c"
)

// Addresses outside this window are reserved by the I²C specification
// (general call, CBUS, 10-bit prefixes, ...).
const (
	firstValid = 0x08
	lastValid  = 0x77
)

// Dev renders the 7-bit address space as an 8x16 grid of colored
// blocks: green for a device that answered, gray for silence, dark
// for reserved addresses.
type Dev struct {
	w     io.Writer
	found [128]bool
	buf   bytes.Buffer
}

// New returns a Dev that displays at the console.
func New() *Dev {
	return NewWriter(colorable.NewColorableStdout())
}

// NewWriter returns a Dev that displays to an arbitrary writer.
func NewWriter(w io.Writer) *Dev {
	return &Dev{w: w}
}

func (d *Dev) String() string {
	return "BusMap"
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so the display is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Mark records whether a device answered at addr.
func (d *Dev) Mark(addr uint16, present bool) error {
	if addr > 0x7F {
		return fmt.Errorf("busmap: address %#02x out of 7-bit range", addr)
	}
	d.found[addr] = present
	return nil
}

// Refresh redraws the whole map.
func (d *Dev) Refresh() error {
	// Minimize allocations per call; the map may be redrawn in a loop.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[0m    0 1 2 3 4 5 6 7 8 9 a b c d e f\n")
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&d.buf, "%02x: ", row*16)
		for col := 0; col < 16; col++ {
			addr := uint16(row*16 + col)
			c := color.NRGBA{0x30, 0x30, 0x30, 255}
			switch {
			case d.found[addr]:
				c = color.NRGBA{0x00, 0xC0, 0x00, 255}
			case addr >= firstValid && addr <= lastValid:
				c = color.NRGBA{0x70, 0x70, 0x70, 255}
			}
			_, _ = io.WriteString(&d.buf, ansi256.Default.Block(c))
			_ = d.buf.WriteByte(' ')
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Scan probes every valid 7-bit address on the bus with a one byte
// read and returns the addresses that acknowledged.
//
// Any transaction error counts as "nothing there": an address NACK is
// the normal answer of an empty address, and distinguishing bus
// faults is not worth it during a survey.
func Scan(b i2c.Bus) []uint16 {
	var out []uint16
	var probe [1]byte
	for addr := uint16(firstValid); addr <= lastValid; addr++ {
		if err := b.Tx(addr, nil, probe[:]); err == nil {
			out = append(out, addr)
		}
	}
	return out
}

// ScanTo runs Scan and records the result on d.
func ScanTo(d *Dev, b i2c.Bus) []uint16 {
	found := Scan(b)
	for _, a := range found {
		_ = d.Mark(a, true)
	}
	return found
}

var _ fmt.Stringer = &Dev{}
