// Copyright 2019 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tm4csmoketest verifies that an I²C master block can drive a
// real device, by writing and reading back a pattern in a 24C02 style
// EEPROM wired to the bus.
//
// The test is destructive for the first 8 bytes of the EEPROM.
package tm4csmoketest

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"time"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/mmr"
)

// SmokeTest is imported by the smoke test runner.
type SmokeTest struct {
}

// Name implements the SmokeTest interface.
func (s *SmokeTest) Name() string {
	return "tm4c"
}

// Description implements the SmokeTest interface.
func (s *SmokeTest) Description() string {
	return "Writes and reads back an EEPROM through a TM4C I2C master"
}

// Run implements the SmokeTest interface.
func (s *SmokeTest) Run(f *flag.FlagSet, args []string) error {
	busName := f.String("bus", "", "I2C bus to use, e.g. I2C0")
	addr := f.Int("addr", 0x50, "EEPROM device address")
	if err := f.Parse(args); err != nil {
		return err
	}
	if f.NArg() != 0 {
		f.Usage()
		return errors.New("unrecognized arguments")
	}
	if *addr < 0x08 || *addr > 0x77 {
		return errors.New("-addr must be a valid 7-bit device address")
	}

	bus, err := i2creg.Open(*busName)
	if err != nil {
		return err
	}
	defer bus.Close()
	return testEEPROM(bus, uint16(*addr))
}

// writeCycle is the worst case self-timed write cycle of small I²C
// EEPROMs.
const writeCycle = 5 * time.Millisecond

func testEEPROM(bus i2c.Bus, addr uint16) error {
	d := mmr.Dev8{Conn: &i2c.Dev{Bus: bus, Addr: addr}, Order: binary.LittleEndian}
	for reg := uint8(0); reg < 8; reg++ {
		want := reg ^ 0xA5
		if err := d.WriteUint8(reg, want); err != nil {
			return fmt.Errorf("write %#02x: %v", reg, err)
		}
		// The device NACKs everything while its write cycle runs.
		time.Sleep(writeCycle)
		got, err := d.ReadUint8(reg)
		if err != nil {
			return fmt.Errorf("read %#02x: %v", reg, err)
		}
		if got != want {
			return fmt.Errorf("register %#02x: wrote %#02x, read %#02x", reg, want, got)
		}
	}
	return nil
}
