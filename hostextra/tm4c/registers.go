// Copyright 2019 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm4c

import (
	"time"

	"periph.io/x/periph/host/pmem"
)

// Peripheral base addresses. Identical on both families; the TM4C129x
// parts add I2C4..I2C9 which are not wired here because neither HAL
// variant routes pins to them.
const (
	i2c0Base   = 0x40020000
	timer0Base = 0x40030000
	sysctlBase = 0x400FE000
)

// i2cMap is the register file of one I²C master block.
type i2cMap struct {
	msa  uint32 // 0x00 master slave address
	mcs  uint32 // 0x04 master control/status
	mdr  uint32 // 0x08 master data
	mtpr uint32 // 0x0C master timer period
	mimr uint32 // 0x10 interrupt mask
	mris uint32 // 0x14 raw interrupt status
	mmis uint32 // 0x18 masked interrupt status
	micr uint32 // 0x1C interrupt clear
	mcr  uint32 // 0x20 master configuration
}

// MCS write bits.
const (
	mcsRun   = 1 << 0
	mcsStart = 1 << 1
	mcsStop  = 1 << 2
	mcsAck   = 1 << 3
)

// MCS read bits.
const (
	mcsBusy    = 1 << 0
	mcsError   = 1 << 1
	mcsAdrAck  = 1 << 2
	mcsDatAck  = 1 << 3
	mcsArbLost = 1 << 4
	mcsIdle    = 1 << 5
	mcsBusBusy = 1 << 6
)

const (
	msaReceive = 1 << 0 // MSA bit 0: receive (read) direction
	mcrMFE     = 1 << 4 // MCR: master function enable
	mtprMask   = 0x7F   // MTPR: timer period is 7 bits wide
)

// i2cIO is the access boundary to one I²C register file. The hardware
// implementation is a pmem mapping; tests substitute a scripted fake.
type i2cIO interface {
	writeMSA(v uint32)
	readMCS() uint32
	writeMCS(v uint32)
	readMDR() uint32
	writeMDR(v uint32)
	writeMTPR(v uint32)
	writeMCR(v uint32)
	settle()
}

// i2cMem drives a memory mapped I²C block.
type i2cMem struct {
	r *i2cMap
}

func mapI2C(n int) (*i2cMem, error) {
	m := &i2cMem{}
	if err := pmem.MapAsPOD(uint64(i2c0Base+0x1000*n), &m.r); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *i2cMem) writeMSA(v uint32)  { m.r.msa = v }
func (m *i2cMem) readMCS() uint32    { return m.r.mcs }
func (m *i2cMem) writeMCS(v uint32)  { m.r.mcs = v }
func (m *i2cMem) readMDR() uint32    { return m.r.mdr }
func (m *i2cMem) writeMDR(v uint32)  { m.r.mdr = v }
func (m *i2cMem) writeMTPR(v uint32) { m.r.mtpr = v }
func (m *i2cMem) writeMCR(v uint32)  { m.r.mcr = v }

// settle waits out the hardware synchronization window after a command
// register write. The run bit can take up to 8 peripheral clocks to
// register, so an immediate status read can race the hardware and
// falsely appear idle.
func (m *i2cMem) settle() {
	time.Sleep(time.Microsecond)
}

// timerMap is the register file of one general purpose timer block.
type timerMap struct {
	cfg   uint32 // 0x00 configuration
	tamr  uint32 // 0x04 timer A mode
	tbmr  uint32 // 0x08 timer B mode
	ctl   uint32 // 0x0C control
	sync  uint32 // 0x10
	_     uint32
	imr   uint32 // 0x18 interrupt mask
	ris   uint32 // 0x1C raw interrupt status
	mis   uint32 // 0x20 masked interrupt status
	icr   uint32 // 0x24 interrupt clear
	tailr uint32 // 0x28 timer A interval load
	tbilr uint32 // 0x2C
	_     [6]uint32
	tar   uint32 // 0x48 timer A value (snapshot)
	tbr   uint32 // 0x4C
	tav   uint32 // 0x50 timer A value (writable)
	tbv   uint32 // 0x54
}

const (
	timerCfg32        = 0x0 // CFG: single 32-bit timer
	timerModePeriodic = 0x2 // TAMR
	timerCtlEnableA   = 1 << 0
	timerRISTimeoutA  = 1 << 0
	timerICRTimeoutA  = 1 << 0
)

type timerIO interface {
	writeCFG(v uint32)
	writeTAMR(v uint32)
	writeCTL(v uint32)
	readCTL() uint32
	writeTAILR(v uint32)
	writeTAV(v uint32)
	readRIS() uint32
	writeICR(v uint32)
}

type timerMem struct {
	r *timerMap
}

func mapTimer(n int) (*timerMem, error) {
	m := &timerMem{}
	if err := pmem.MapAsPOD(uint64(timer0Base+0x1000*n), &m.r); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *timerMem) writeCFG(v uint32)   { m.r.cfg = v }
func (m *timerMem) writeTAMR(v uint32)  { m.r.tamr = v }
func (m *timerMem) writeCTL(v uint32)   { m.r.ctl = v }
func (m *timerMem) readCTL() uint32     { return m.r.ctl }
func (m *timerMem) writeTAILR(v uint32) { m.r.tailr = v }
func (m *timerMem) writeTAV(v uint32)   { m.r.tav = v }
func (m *timerMem) readRIS() uint32     { return m.r.ris }
func (m *timerMem) writeICR(v uint32)   { m.r.icr = v }

// SYSCTL register offsets. The block is accessed as a word view
// because the interesting registers are scattered over 4KiB.
const (
	sysDID0      = 0x000
	sysDID1      = 0x004
	sysRIS       = 0x050
	sysRCC       = 0x060
	sysRCC2      = 0x070
	sysSRTIMER   = 0x504
	sysSRGPIO    = 0x508
	sysSRI2C     = 0x520
	sysRCGCTIMER = 0x604
	sysRCGCGPIO  = 0x608
	sysRCGCI2C   = 0x620
	sysPRTIMER   = 0xA04
	sysPRGPIO    = 0xA08
	sysPRI2C     = 0xA20
)

type sysIO interface {
	read(off uint32) uint32
	write(off, v uint32)
}

type sysMem struct {
	r *[1024]uint32
}

func mapSysctl() (*sysMem, error) {
	m := &sysMem{}
	if err := pmem.MapAsPOD(uint64(sysctlBase), &m.r); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *sysMem) read(off uint32) uint32 { return m.r[off/4] }
func (m *sysMem) write(off, v uint32)    { m.r[off/4] = v }
