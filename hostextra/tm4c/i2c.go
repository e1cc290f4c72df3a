// Copyright 2019 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm4c

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/physic"
)

// I2C is one on-chip I²C master block driven in blocking polled mode.
//
// It implements i2c.Bus. The transaction methods serialize through an
// internal mutex, so a single I2C may be shared between goroutines;
// each transaction still blocks its caller until the bus settles.
type I2C struct {
	mu     sync.Mutex
	regs   i2cIO
	n      int
	scl    Pin
	sda    Pin
	sysclk physic.Frequency
}

// NewI2C configures I²C block n as a bus master.
//
// The pins must be routable to that block on the given chip family and
// sda must be open-drain. pc proves the SYSCTL block is claimed; the
// domain is powered and reset here, so the block comes up in a known
// state. freq is the target bus clock, typically 100*physic.KiloHertz
// or 400*physic.KiloHertz; beyond rejecting non-positive values no
// range validation is performed and an unreasonable frequency yields
// an unreasonable bit clock.
func NewI2C(v Variant, n int, scl, sda Pin, freq physic.Frequency, clk *Clocks, pc *PowerControl) (*I2C, error) {
	if err := validatePins(v, n, scl, sda); err != nil {
		return nil, err
	}
	if freq <= 0 {
		return nil, fmt.Errorf("tm4c: invalid bus frequency %s", freq)
	}
	mu.Lock()
	if i2cClaimed[n] {
		mu.Unlock()
		return nil, fmt.Errorf("tm4c: I2C%d is already claimed", n)
	}
	i2cClaimed[n] = true
	mu.Unlock()
	regs, err := mapI2C(n)
	if err != nil {
		mu.Lock()
		i2cClaimed[n] = false
		mu.Unlock()
		return nil, err
	}
	pc.PowerOn(DomainI2C0 + Domain(n))
	pc.Reset(DomainI2C0 + Domain(n))
	scl.fn = fmt.Sprintf("I2C%d_SCL", n)
	sda.fn = fmt.Sprintf("I2C%d_SDA", n)
	i := &I2C{regs: regs, n: n, scl: scl, sda: sda, sysclk: clk.SysClk}
	i.init(clk.SysClk, freq)
	return i, nil
}

// init sets the master function enable bit, clearing everything else,
// and programs the bit clock divisor.
func (i *I2C) init(sysclk, freq physic.Frequency) {
	i.regs.writeMCR(mcrMFE)
	i.regs.writeMTPR(timerPeriod(sysclk, freq))
}

func (i *I2C) String() string {
	return fmt.Sprintf("I2C%d", i.n)
}

// SetSpeed implements i2c.Bus.
//
// The peripheral keeps no record of the system clock, so the divisor
// is recomputed from the clocks recorded at construction.
func (i *I2C) SetSpeed(f physic.Frequency) error {
	if f <= 0 {
		return fmt.Errorf("tm4c: invalid bus frequency %s", f)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.regs.writeMTPR(timerPeriod(i.sysclk, f))
	return nil
}

// Tx implements i2c.Bus as a write followed by a read with a repeated
// START between the two phases. Nil w or r skips that phase.
func (i *I2C) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7F {
		return errors.New("tm4c: only 7-bit addresses are supported")
	}
	return i.WriteRead(uint8(addr), w, r)
}

// SCL returns the clock line.
func (i *I2C) SCL() Pin {
	return i.scl
}

// SDA returns the data line.
func (i *I2C) SDA() Pin {
	return i.sda
}

// Free releases the block and returns the bus number and the pins so
// they can be reused. The hardware is not reset; a fresh NewI2C powers
// and resets the domain again.
func (i *I2C) Free() (int, Pin, Pin) {
	mu.Lock()
	i2cClaimed[i.n] = false
	mu.Unlock()
	return i.n, i.scl, i.sda
}

// Close implements i2c.BusCloser.
func (i *I2C) Close() error {
	i.Free()
	return nil
}

// Write sends bytes to the device at addr in one transaction.
//
// An empty p completes immediately without touching the bus.
func (i *I2C) Write(addr uint8, p []byte) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.write(addr, p)
}

// Read fills p from the device at addr in one transaction.
//
// An empty p completes immediately without touching the bus.
func (i *I2C) Read(addr uint8, p []byte) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.read(addr, p)
}

// WriteRead sends w then fills r in a single transaction, switching
// direction with a repeated START so the bus is never released in
// between.
func (i *I2C) WriteRead(addr uint8, w, r []byte) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	switch {
	case len(w) == 0 && len(r) == 0:
		return nil
	case len(r) == 0:
		return i.write(addr, w)
	case len(w) == 0:
		return i.read(addr, r)
	}
	i.regs.writeMSA(uint32(addr) << 1)
	i.regs.writeMDR(uint32(w[0]))
	if err := i.wait(mcsBusBusy); err != nil {
		return err
	}
	i.regs.writeMCS(mcsRun | mcsStart)
	if err := i.wait(mcsBusy); err != nil {
		return err
	}
	// No STOP on the last outgoing byte: the read phase takes over the
	// bus with a repeated START.
	for _, b := range w[1:] {
		i.regs.writeMDR(uint32(b))
		i.regs.writeMCS(mcsRun)
		if err := i.wait(mcsBusy); err != nil {
			return err
		}
	}
	i.regs.writeMSA(uint32(addr)<<1 | msaReceive)
	if len(r) == 1 {
		i.regs.writeMCS(mcsRun | mcsStart | mcsStop)
		if err := i.wait(mcsBusy); err != nil {
			return err
		}
		r[0] = uint8(i.regs.readMDR())
		return nil
	}
	i.regs.writeMCS(mcsRun | mcsStart | mcsAck)
	if err := i.wait(mcsBusy); err != nil {
		return err
	}
	r[0] = uint8(i.regs.readMDR())
	for n := 1; n < len(r)-1; n++ {
		i.regs.writeMCS(mcsRun | mcsAck)
		if err := i.wait(mcsBusy); err != nil {
			return err
		}
		r[n] = uint8(i.regs.readMDR())
	}
	i.regs.writeMCS(mcsRun | mcsStop)
	if err := i.wait(mcsBusy); err != nil {
		return err
	}
	r[len(r)-1] = uint8(i.regs.readMDR())
	return nil
}

func (i *I2C) write(addr uint8, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	i.regs.writeMSA(uint32(addr) << 1)
	if len(p) == 1 {
		i.regs.writeMDR(uint32(p[0]))
		if err := i.wait(mcsBusBusy); err != nil {
			return err
		}
		i.regs.writeMCS(mcsRun | mcsStart | mcsStop)
	} else {
		i.regs.writeMDR(uint32(p[0]))
		if err := i.wait(mcsBusBusy); err != nil {
			return err
		}
		i.regs.writeMCS(mcsRun | mcsStart)
		for _, b := range p[1 : len(p)-1] {
			if err := i.wait(mcsBusy); err != nil {
				return err
			}
			i.regs.writeMDR(uint32(b))
			i.regs.writeMCS(mcsRun)
		}
		if err := i.wait(mcsBusy); err != nil {
			return err
		}
		i.regs.writeMDR(uint32(p[len(p)-1]))
		i.regs.writeMCS(mcsRun | mcsStop)
	}
	return i.wait(mcsBusy)
}

func (i *I2C) read(addr uint8, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	i.regs.writeMSA(uint32(addr)<<1 | msaReceive)
	if err := i.wait(mcsBusBusy); err != nil {
		return err
	}
	if len(p) == 1 {
		// A single byte is never acknowledged by the master.
		i.regs.writeMCS(mcsRun | mcsStart | mcsStop)
		if err := i.wait(mcsBusy); err != nil {
			return err
		}
		p[0] = uint8(i.regs.readMDR())
		return nil
	}
	i.regs.writeMCS(mcsRun | mcsStart | mcsAck)
	if err := i.wait(mcsBusy); err != nil {
		return err
	}
	p[0] = uint8(i.regs.readMDR())
	for n := 1; n < len(p)-1; n++ {
		i.regs.writeMCS(mcsRun | mcsAck)
		if err := i.wait(mcsBusy); err != nil {
			return err
		}
		p[n] = uint8(i.regs.readMDR())
	}
	// Withholding ACK tells the slave this is the last byte.
	i.regs.writeMCS(mcsRun | mcsStop)
	if err := i.wait(mcsBusy); err != nil {
		return err
	}
	p[len(p)-1] = uint8(i.regs.readMDR())
	return nil
}

// wait blocks until the monitored MCS flag clears, classifying any
// fault the hardware raises in the meantime.
//
// There is deliberately no timeout: a silent bus hangs the caller
// forever rather than surfacing as an error. See the package doc.
func (i *I2C) wait(flag uint32) error {
	i.regs.settle()
	for {
		mcs := i.regs.readMCS()
		if mcs&mcsError != 0 {
			// ADRACK and DATACK are not mutually exclusive; the
			// hardware reporting is priority ordered.
			switch {
			case mcs&mcsAdrAck != 0:
				return ErrAddrNAK
			case mcs&mcsDatAck != 0:
				return ErrDataNAK
			default:
				return ErrBus
			}
		}
		if mcs&mcsArbLost != 0 {
			return ErrArbitrationLost
		}
		if mcs&flag == 0 {
			return nil
		}
	}
}

// timerPeriod computes the MTPR divisor for a bus frequency: one SCL
// period is 2*(1+TPR)*10 system clocks.
func timerPeriod(sysclk, freq physic.Frequency) uint32 {
	tpr := uint32((sysclk + 10*freq) / (20 * freq))
	if tpr > 0 {
		tpr--
	}
	return tpr & mtprMask
}

var _ i2c.Bus = &I2C{}
var _ i2c.BusCloser = &I2C{}
