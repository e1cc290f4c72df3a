// Copyright 2019 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm4c

import (
	"errors"
	"fmt"

	"periph.io/x/periph"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/physic"
)

// Present reports whether a TM4C chip was detected at host init.
func Present() bool {
	return drv.present
}

// ChipIdentity returns the identity decoded at host init.
func ChipIdentity() (Identity, bool) {
	return drv.id, drv.present
}

// RegisterBuses registers an i2creg opener for every I²C block the
// detected chip family routes pins to, using the default (first
// listed) pin assignment and a 100kHz bus clock. Call it once, after
// freezing the clocks.
//
// Buses register as "I2C0".."I2C3". Applications with non-default pin
// routing should call NewI2C directly instead.
func RegisterBuses(clk *Clocks, pc *PowerControl) error {
	if !drv.present {
		return errors.New("tm4c: no TM4C detected")
	}
	v := drv.id.Variant
	for n := 0; n < 4; n++ {
		if len(sclPins[v][n]) == 0 {
			continue
		}
		scl := sclPins[v][n][0]
		sda := sdaPins[v][n][0].AsOpenDrain()
		n := n
		opener := func() (i2c.BusCloser, error) {
			return NewI2C(v, n, scl, sda, 100*physic.KiloHertz, clk, pc)
		}
		if err := i2creg.Register(fmt.Sprintf("I2C%d", n), nil, n, opener); err != nil {
			return err
		}
	}
	return nil
}

// driver implements periph.Driver.
type driver struct {
	id      Identity
	present bool
}

func (d *driver) String() string {
	return "tm4c"
}

func (d *driver) Prerequisites() []string {
	return nil
}

func (d *driver) After() []string {
	return nil
}

func (d *driver) Init() (bool, error) {
	io, err := mapSysctl()
	if err != nil {
		return false, err
	}
	id, err := decodeIdentity(io.read(sysDID0), io.read(sysDID1))
	if err != nil {
		return false, err
	}
	d.id = id
	d.present = true
	return true, nil
}

var drv driver

func init() {
	periph.MustRegister(&drv)
}

var _ periph.Driver = &driver{}
