// Copyright 2019 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm4c

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/periph/conn/physic"
)

// Domain is a peripheral clock/power domain.
type Domain int

// Clock domains controllable through PowerControl. Only the domains
// this package drives are listed; the hardware has many more.
const (
	DomainI2C0 Domain = iota
	DomainI2C1
	DomainI2C2
	DomainI2C3
	DomainTimer0
	DomainTimer1
	DomainTimer2
	DomainTimer3
	DomainTimer4
	DomainTimer5
	DomainGPIOA
	DomainGPIOB
	DomainGPIOC
	DomainGPIOD
	DomainGPIOE
	DomainGPIOF
)

// gates returns the clock gate, software reset and peripheral ready
// register offsets plus the bit position for the domain.
func (d Domain) gates() (rcgc, sr, pr uint32, bit uint) {
	switch {
	case d >= DomainI2C0 && d <= DomainI2C3:
		return sysRCGCI2C, sysSRI2C, sysPRI2C, uint(d - DomainI2C0)
	case d >= DomainTimer0 && d <= DomainTimer5:
		return sysRCGCTIMER, sysSRTIMER, sysPRTIMER, uint(d - DomainTimer0)
	default:
		return sysRCGCGPIO, sysSRGPIO, sysPRGPIO, uint(d - DomainGPIOA)
	}
}

// PowerControl gates access to the run-time clock gating and reset
// registers. Holding one is the permission token peripheral
// constructors require: it proves SYSCTL was claimed and is live.
type PowerControl struct {
	io sysIO
}

// PowerOn enables the clock to a domain and waits until the
// peripheral reports ready. The datasheet requires a delay of 3
// system clocks between gating a clock on and touching the module;
// waiting on the ready bit covers it.
func (p *PowerControl) PowerOn(d Domain) {
	rcgc, _, pr, bit := d.gates()
	p.io.write(rcgc, p.io.read(rcgc)|1<<bit)
	for p.io.read(pr)&(1<<bit) == 0 {
	}
}

// PowerOff gates the clock to a domain off.
func (p *PowerControl) PowerOff(d Domain) {
	rcgc, _, _, bit := d.gates()
	p.io.write(rcgc, p.io.read(rcgc)&^(1<<bit))
}

// Reset pulses the software reset of a domain and waits until the
// peripheral reports ready again.
func (p *PowerControl) Reset(d Domain) {
	_, sr, pr, bit := d.gates()
	p.io.write(sr, p.io.read(sr)|1<<bit)
	// Hold reset for a few cycles before releasing.
	for i := 0; i < 4; i++ {
		p.io.read(sr)
	}
	p.io.write(sr, p.io.read(sr)&^(1<<bit))
	for p.io.read(pr)&(1<<bit) == 0 {
	}
}

// Clocks is the frozen clock configuration. Peripheral drivers read
// SysClk to derive their own timing divisors.
type Clocks struct {
	// SysClk is the system (bus) clock.
	SysClk physic.Frequency
	// Osc is the oscillator the system clock was derived from.
	Osc physic.Frequency
}

// ClockSetup selects the system oscillator and clock path. The zero
// value runs the chip directly off the 16MHz precision internal
// oscillator.
type ClockSetup struct {
	// Crystal is the main oscillator crystal frequency. Zero selects
	// the precision internal oscillator instead.
	Crystal physic.Frequency
	// UsePLL derives the system clock from the 400MHz PLL.
	UsePLL bool
	// PLLOutput is the desired system clock when UsePLL is set, e.g.
	// 80*physic.MegaHertz.
	PLLOutput physic.Frequency
	// Div divides the oscillator down to the system clock when UsePLL
	// is not set. Zero or one means no division.
	Div int
}

// RCC/RCC2/RIS fields used by Freeze.
const (
	rccMOSCDis     = 1 << 0
	rccOscSrcPIOSC = 1 << 4
	rccBypass      = 1 << 11
	rccUseSysDiv   = 1 << 22
	rccSysDivShift = 23

	rcc2Use     = 1 << 31
	rcc2Div400  = 1 << 30
	rcc2Bypass  = 1 << 11
	rcc2PwrDn   = 1 << 13
	rcc2DivLSB  = 1 << 22
	rcc2DivMSBs = 23

	risPLLLock = 1 << 6

	pllVCO = 400 * physic.MegaHertz
)

// Freeze fixes the clock configuration and returns a record of it so
// other modules can calibrate themselves. It must be called exactly
// once, before any peripheral constructor that takes a *Clocks.
func (s *Sysctl) Freeze(c ClockSetup) (Clocks, error) {
	osc := c.Crystal
	rcc := uint32(rccBypass)
	if osc == 0 {
		osc = 16 * physic.MegaHertz
		rcc |= rccOscSrcPIOSC | rccMOSCDis
	}
	if !c.UsePLL {
		div := c.Div
		if div < 1 {
			div = 1
		}
		if div > 16 {
			return Clocks{}, fmt.Errorf("tm4c: system clock divider %d out of range", div)
		}
		if div > 1 {
			rcc |= rccUseSysDiv | uint32(div-1)<<rccSysDivShift
		}
		s.io.write(sysRCC, rcc)
		return Clocks{SysClk: osc / physic.Frequency(div), Osc: osc}, nil
	}
	if c.PLLOutput <= 0 {
		return Clocks{}, errors.New("tm4c: PLLOutput is required with UsePLL")
	}
	div := int((pllVCO + c.PLLOutput/2) / c.PLLOutput)
	if div < 5 || div > 128 {
		return Clocks{}, fmt.Errorf("tm4c: cannot derive %s from the 400MHz PLL", c.PLLOutput)
	}
	// Run bypassed off the oscillator while the PLL spins up.
	s.io.write(sysRCC, rcc)
	rcc2 := uint32(rcc2Use | rcc2Div400 | rcc2Bypass)
	n := uint32(div - 1)
	rcc2 |= (n >> 1) << rcc2DivMSBs
	if n&1 != 0 {
		rcc2 |= rcc2DivLSB
	}
	s.io.write(sysRCC2, rcc2)
	for s.io.read(sysRIS)&risPLLLock == 0 {
	}
	s.io.write(sysRCC2, rcc2&^rcc2Bypass)
	return Clocks{SysClk: pllVCO / physic.Frequency(div), Osc: osc}, nil
}

// Sysctl is the claimed system control block.
type Sysctl struct {
	// Power gates the peripheral clock and reset controls.
	Power *PowerControl

	io sysIO
}

// Identity reads and decodes the device identification registers.
func (s *Sysctl) Identity() (Identity, error) {
	return decodeIdentity(s.io.read(sysDID0), s.io.read(sysDID1))
}

// OpenSysctl claims the SYSCTL block. There is exactly one per chip;
// a second call fails until the first claim is released with Close.
func OpenSysctl() (*Sysctl, error) {
	mu.Lock()
	defer mu.Unlock()
	if sysctlClaimed {
		return nil, errors.New("tm4c: SYSCTL is already claimed")
	}
	io, err := mapSysctl()
	if err != nil {
		return nil, err
	}
	sysctlClaimed = true
	return newSysctl(io), nil
}

// Close releases the claim. The hardware keeps whatever state it is
// in.
func (s *Sysctl) Close() error {
	mu.Lock()
	defer mu.Unlock()
	sysctlClaimed = false
	return nil
}

func newSysctl(io sysIO) *Sysctl {
	return &Sysctl{Power: &PowerControl{io: io}, io: io}
}

var (
	mu            sync.Mutex
	sysctlClaimed bool
	i2cClaimed    [4]bool
	timerClaimed  [6]bool
)
