// Copyright 2019 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm4c

import (
	"fmt"

	"periph.io/x/periph/conn/pin"
)

// PinMode is the electrical drive mode of a GPIO pin.
type PinMode uint8

const (
	// PushPull drives the line both high and low.
	PushPull PinMode = iota
	// OpenDrain only drives the line low and floats it high.
	OpenDrain
)

func (m PinMode) String() string {
	if m == OpenDrain {
		return "open-drain"
	}
	return "push-pull"
}

// Pin identifies one GPIO pin by port letter and bit number, plus the
// drive mode it has been configured with.
type Pin struct {
	Port byte  // 'A'..'Q'
	N    uint8 // 0..7
	Mode PinMode

	fn string
}

// GPIO returns a Pin on the given port in push-pull mode.
func GPIO(port byte, n uint8) Pin {
	return Pin{Port: port, N: n}
}

// AsOpenDrain returns the same pin configured as open-drain.
func (p Pin) AsOpenDrain() Pin {
	p.Mode = OpenDrain
	return p
}

// String implements pin.Pin.
func (p Pin) String() string {
	return p.Name()
}

// Name implements pin.Pin.
func (p Pin) Name() string {
	return fmt.Sprintf("P%c%d", p.Port, p.N)
}

// Number implements pin.Pin.
func (p Pin) Number() int {
	return int(p.Port-'A')*8 + int(p.N)
}

// Function implements pin.Pin.
func (p Pin) Function() string {
	return p.fn
}

// Halt implements conn.Resource.
func (p Pin) Halt() error {
	return nil
}

var _ pin.Pin = Pin{}

// same reports whether two pins are the same physical pin, whatever
// their configured mode.
func (p Pin) same(o Pin) bool {
	return p.Port == o.Port && p.N == o.N
}

// Legal SCL/SDA routings per family and bus instance, from the
// datasheet signal tables. The TM4C129x parts route no pins to I2C3.
var (
	sclPins = map[Variant][4][]Pin{
		TM4C123x: {
			{GPIO('B', 2)},
			{GPIO('A', 6)},
			{GPIO('E', 4)},
			{GPIO('D', 0)},
		},
		TM4C129x: {
			{GPIO('B', 2)},
			{GPIO('G', 0)},
			{GPIO('L', 1), GPIO('P', 5), GPIO('N', 5)},
			{},
		},
	}
	sdaPins = map[Variant][4][]Pin{
		TM4C123x: {
			{GPIO('B', 3)},
			{GPIO('A', 7)},
			{GPIO('E', 5)},
			{GPIO('D', 1)},
		},
		TM4C129x: {
			{GPIO('B', 3)},
			{GPIO('G', 1)},
			{GPIO('L', 0), GPIO('N', 4)},
			{},
		},
	}
)

// validatePins checks that scl and sda are actually routable to bus n
// on this family and that sda is open-drain. The check happens once at
// construction; transactions trust it afterwards.
func validatePins(v Variant, n int, scl, sda Pin) error {
	if n < 0 || n > 3 {
		return fmt.Errorf("tm4c: no I2C%d on this chip", n)
	}
	if !pinIn(sclPins[v][n], scl) {
		return fmt.Errorf("tm4c: %s cannot be SCL for I2C%d", scl, n)
	}
	if !pinIn(sdaPins[v][n], sda) {
		return fmt.Errorf("tm4c: %s cannot be SDA for I2C%d", sda, n)
	}
	if sda.Mode != OpenDrain {
		return fmt.Errorf("tm4c: SDA pin %s must be open-drain", sda)
	}
	return nil
}

func pinIn(s []Pin, p Pin) bool {
	for _, e := range s {
		if e.same(p) {
			return true
		}
	}
	return false
}
