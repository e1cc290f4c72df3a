// Copyright 2019 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// tm4c-smoketest runs the TM4C I²C smoke test against an EEPROM on one
// of the chip's buses.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"periph.io/x/periph/host"
	"periph.io/x/tiva/hostextra/tm4c"
	"periph.io/x/tiva/hostextra/tm4c/tm4csmoketest"
)

func mainImpl() error {
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if !*verbose {
		log.SetOutput(ioutil.Discard)
	}
	log.SetFlags(log.Lmicroseconds)

	if _, err := host.Init(); err != nil {
		return err
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
	if err := tm4c.RegisterBuses(&clk, sys.Power); err != nil {
		return err
	}

	s := &tm4csmoketest.SmokeTest{}
	f := flag.NewFlagSet(s.Name(), flag.ExitOnError)
	if err := s.Run(f, flag.Args()); err != nil {
		return err
	}
	fmt.Printf("%s: OK\n", s.Name())
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "tm4c-smoketest: %s.\n", err)
		os.Exit(1)
	}
}
