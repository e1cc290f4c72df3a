// Copyright 2019 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// tm4c-i2c prints out information about the TM4C chip it runs on and
// optionally scans one of its I²C buses.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/host"
	"periph.io/x/tiva/devices/busmap"
	"periph.io/x/tiva/hostextra/tm4c"
)

func printIdentity(id tm4c.Identity) {
	fmt.Printf("  Family:        %s\n", id.Variant)
	fmt.Printf("  Revision:      %c%d\n", 'A'+id.Major, id.Minor)
	fmt.Printf("  Part:          %#02x\n", id.PartNo)
	fmt.Printf("  Pins:          %d\n", id.PinCount)
	fmt.Printf("  Package:       %s\n", id.Package)
	fmt.Printf("  Temp range:    %s\n", id.TempRange)
	fmt.Printf("  RoHS:          %t\n", id.RohsCompliant)
	fmt.Printf("  Qualification: %s\n", id.Qualification)
}

func scan(busName string, freq physic.Frequency) error {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return err
	}
	defer bus.Close()
	if freq != 0 {
		if err := bus.SetSpeed(freq); err != nil {
			return err
		}
	}
	fmt.Printf("Scanning %s...\n", bus)
	d := busmap.New()
	found := busmap.ScanTo(d, bus)
	if err := d.Refresh(); err != nil {
		return err
	}
	if err := d.Halt(); err != nil {
		return err
	}
	fmt.Printf("%d device(s) found\n", len(found))
	for _, a := range found {
		fmt.Printf("  %#02x\n", a)
	}
	return nil
}

func mainImpl() error {
	verbose := flag.Bool("v", false, "verbose mode")
	busName := flag.String("b", "", "I2C bus to scan (default: first registered)")
	doScan := flag.Bool("scan", false, "scan the bus and draw the address map")
	freq := flag.Int("f", 0, "bus frequency in kHz (default: 100)")
	flag.Parse()
	if !*verbose {
		log.SetOutput(ioutil.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	id, ok := tm4c.ChipIdentity()
	if !ok {
		return errors.New("no TM4C detected")
	}
	fmt.Printf("Chip:\n")
	printIdentity(id)
	if !*doScan {
		return nil
	}

	sys, err := tm4c.OpenSysctl()
	if err != nil {
		return err
	}
	defer sys.Close()
	clk, err := sys.Freeze(tm4c.ClockSetup{})
	if err != nil {
		return err
	}
	log.Printf("system clock: %s", clk.SysClk)
	if err := tm4c.RegisterBuses(&clk, sys.Power); err != nil {
		return err
	}
	return scan(*busName, physic.Frequency(*freq)*physic.KiloHertz)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "tm4c-i2c: %s.\n", err)
		os.Exit(1)
	}
}
