// Copyright 2019 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm4c

import (
	"testing"

	"periph.io/x/periph/conn/physic"
)

func TestWriteEmpty(t *testing.T) {
	f := &i2cFakeRegs{}
	bus := &I2C{regs: f}
	if err := bus.Write(0x50, nil); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	if len(f.ops) != 0 {
		t.Fatalf("empty write touched the bus: %v", f.ops)
	}
}

func TestReadEmpty(t *testing.T) {
	f := &i2cFakeRegs{}
	bus := &I2C{regs: f}
	if err := bus.Read(0x50, nil); err != nil {
		t.Fatalf("Read() = %v", err)
	}
	if len(f.ops) != 0 {
		t.Fatalf("empty read touched the bus: %v", f.ops)
	}
}

func TestWriteReadEmpty(t *testing.T) {
	f := &i2cFakeRegs{}
	bus := &I2C{regs: f}
	if err := bus.WriteRead(0x50, nil, nil); err != nil {
		t.Fatalf("WriteRead() = %v", err)
	}
	if len(f.ops) != 0 {
		t.Fatalf("empty transaction touched the bus: %v", f.ops)
	}
}

func TestWriteSingle(t *testing.T) {
	f := &i2cFakeRegs{}
	bus := &I2C{regs: f}
	if err := bus.Write(0x50, []byte{0xAA}); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	checkWrites(t, f, "MSA", 0x50<<1)
	checkWrites(t, f, "MDR", 0xAA)
	checkWrites(t, f, "MCS", mcsRun|mcsStart|mcsStop)
}

func TestWriteMulti(t *testing.T) {
	f := &i2cFakeRegs{}
	bus := &I2C{regs: f}
	if err := bus.Write(0x50, []byte{1, 2, 3}); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	checkWrites(t, f, "MDR", 1, 2, 3)
	checkWrites(t, f, "MCS", mcsRun|mcsStart, mcsRun, mcsRun|mcsStop)
}

func TestWriteCommandCount(t *testing.T) {
	for _, n := range []int{1, 2, 5, 16} {
		f := &i2cFakeRegs{}
		bus := &I2C{regs: f}
		if err := bus.Write(0x21, make([]byte, n)); err != nil {
			t.Fatalf("Write(%d bytes) = %v", n, err)
		}
		cmds := f.writes("MCS")
		if len(cmds) != n {
			t.Fatalf("%d bytes: %d command writes", n, len(cmds))
		}
		for j, c := range cmds {
			if c&mcsStart != 0 && j != 0 {
				t.Errorf("%d bytes: START on command %d", n, j)
			}
			if c&mcsStop != 0 && j != len(cmds)-1 {
				t.Errorf("%d bytes: STOP on command %d", n, j)
			}
		}
		if cmds[0]&mcsStart == 0 {
			t.Errorf("%d bytes: first command lacks START", n)
		}
		if cmds[len(cmds)-1]&mcsStop == 0 {
			t.Errorf("%d bytes: last command lacks STOP", n)
		}
	}
}

func TestReadSingle(t *testing.T) {
	f := &i2cFakeRegs{data: []uint32{0x42}}
	bus := &I2C{regs: f}
	b := make([]byte, 1)
	if err := bus.Read(0x50, b); err != nil {
		t.Fatalf("Read() = %v", err)
	}
	if b[0] != 0x42 {
		t.Fatalf("read %#02x", b[0])
	}
	checkWrites(t, f, "MSA", 0x50<<1|msaReceive)
	// A single byte transaction never acknowledges.
	checkWrites(t, f, "MCS", mcsRun|mcsStart|mcsStop)
}

func TestReadMulti(t *testing.T) {
	f := &i2cFakeRegs{data: []uint32{0x11, 0x22, 0x33}}
	bus := &I2C{regs: f}
	b := make([]byte, 3)
	if err := bus.Read(0x50, b); err != nil {
		t.Fatalf("Read() = %v", err)
	}
	if b[0] != 0x11 || b[1] != 0x22 || b[2] != 0x33 {
		t.Fatalf("read % 02x", b)
	}
	checkWrites(t, f, "MCS", mcsRun|mcsStart|mcsAck, mcsRun|mcsAck, mcsRun|mcsStop)
}

func TestWriteRead(t *testing.T) {
	f := &i2cFakeRegs{data: []uint32{0xA1, 0xA2, 0xA3}}
	bus := &I2C{regs: f}
	b := make([]byte, 3)
	if err := bus.WriteRead(0x50, []byte{0x10, 0x20}, b); err != nil {
		t.Fatalf("WriteRead() = %v", err)
	}
	if b[0] != 0xA1 || b[1] != 0xA2 || b[2] != 0xA3 {
		t.Fatalf("read % 02x", b)
	}
	// Outgoing phase ends without STOP; the read phase reprograms the
	// address with the receive bit and repeats START.
	checkWrites(t, f, "MSA", 0x50<<1, 0x50<<1|msaReceive)
	checkWrites(t, f, "MCS",
		mcsRun|mcsStart,
		mcsRun,
		mcsRun|mcsStart|mcsAck,
		mcsRun|mcsAck,
		mcsRun|mcsStop)
}

func TestWriteReadSingleTrailing(t *testing.T) {
	f := &i2cFakeRegs{data: []uint32{0x55}}
	bus := &I2C{regs: f}
	b := make([]byte, 1)
	if err := bus.WriteRead(0x50, []byte{0x10}, b); err != nil {
		t.Fatalf("WriteRead() = %v", err)
	}
	checkWrites(t, f, "MCS", mcsRun|mcsStart, mcsRun|mcsStart|mcsStop)
}

func TestWriteReadDelegates(t *testing.T) {
	f := &i2cFakeRegs{}
	bus := &I2C{regs: f}
	if err := bus.WriteRead(0x50, []byte{0xAA}, nil); err != nil {
		t.Fatalf("WriteRead() = %v", err)
	}
	checkWrites(t, f, "MCS", mcsRun|mcsStart|mcsStop)

	f = &i2cFakeRegs{data: []uint32{0}}
	bus = &I2C{regs: f}
	if err := bus.WriteRead(0x50, nil, make([]byte, 1)); err != nil {
		t.Fatalf("WriteRead() = %v", err)
	}
	checkWrites(t, f, "MSA", 0x50<<1|msaReceive)
}

func TestRoundTrip(t *testing.T) {
	f := &i2cFakeRegs{}
	bus := &I2C{regs: f}
	if err := bus.Write(0x50, []byte{0xAA}); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	f2 := &i2cFakeRegs{data: []uint32{0xAA}}
	bus.regs = f2
	b := make([]byte, 1)
	if err := bus.Read(0x50, b); err != nil {
		t.Fatalf("Read() = %v", err)
	}
	for _, cmds := range [][]uint32{f.writes("MCS"), f2.writes("MCS")} {
		if len(cmds) != 1 || cmds[0] != mcsRun|mcsStart|mcsStop {
			t.Fatalf("commands %#x", cmds)
		}
		if cmds[0]&mcsAck != 0 {
			t.Fatalf("single byte transaction set ACK")
		}
	}
}

func TestErrorPriority(t *testing.T) {
	data := []struct {
		mcs  uint32
		want Error
	}{
		{mcsError | mcsAdrAck | mcsDatAck, ErrAddrNAK},
		{mcsError | mcsAdrAck, ErrAddrNAK},
		{mcsError | mcsDatAck, ErrDataNAK},
		{mcsError, ErrBus},
	}
	for _, line := range data {
		f := &i2cFakeRegs{status: []uint32{0, line.mcs}}
		bus := &I2C{regs: f}
		if err := bus.Write(0x50, []byte{1}); err != line.want {
			t.Fatalf("mcs %#02x: got %v, want %v", line.mcs, err, line.want)
		}
	}
}

func TestArbitrationLost(t *testing.T) {
	// Lose arbitration on the poll after the first command.
	f := &i2cFakeRegs{status: []uint32{0, mcsArbLost}}
	bus := &I2C{regs: f}
	if err := bus.Write(0x50, []byte{1, 2, 3}); err != ErrArbitrationLost {
		t.Fatalf("Write() = %v", err)
	}
	if cmds := f.writes("MCS"); len(cmds) != 1 {
		t.Fatalf("kept issuing commands after losing the bus: %#x", cmds)
	}
	// Arbitration loss wins even when the error bit is also set later.
	f = &i2cFakeRegs{status: []uint32{mcsArbLost | mcsBusy}}
	bus = &I2C{regs: f}
	if err := bus.Read(0x50, make([]byte, 2)); err != ErrArbitrationLost {
		t.Fatalf("Read() = %v", err)
	}
}

func TestBusyPolling(t *testing.T) {
	// The poller must spin while the flag is set and settle before
	// the first status read of every wait.
	f := &i2cFakeRegs{status: []uint32{mcsBusBusy, mcsBusBusy, 0, mcsBusy, 0}}
	bus := &I2C{regs: f}
	if err := bus.Write(0x50, []byte{0xAA}); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	if f.statusReads != 5 {
		t.Fatalf("%d status reads", f.statusReads)
	}
	if f.settles != 2 {
		t.Fatalf("%d settle delays", f.settles)
	}
}

func TestTimerPeriod(t *testing.T) {
	data := []struct {
		sysclk physic.Frequency
		freq   physic.Frequency
		want   uint32
	}{
		{16 * physic.MegaHertz, 100 * physic.KiloHertz, 7},
		{80 * physic.MegaHertz, 400 * physic.KiloHertz, 9},
		{80 * physic.MegaHertz, 100 * physic.KiloHertz, 39},
		{50 * physic.MegaHertz, 400 * physic.KiloHertz, 5},
		// The register is 7 bits wide; excess is truncated.
		{120 * physic.MegaHertz, physic.KiloHertz, 5999 & 0x7F},
	}
	for _, line := range data {
		if got := timerPeriod(line.sysclk, line.freq); got != line.want {
			t.Fatalf("timerPeriod(%s, %s) = %d, want %d", line.sysclk, line.freq, got, line.want)
		}
	}
}

func TestInit(t *testing.T) {
	f := &i2cFakeRegs{}
	bus := &I2C{regs: f, sysclk: 16 * physic.MegaHertz}
	bus.init(16*physic.MegaHertz, 100*physic.KiloHertz)
	checkWrites(t, f, "MCR", mcrMFE)
	checkWrites(t, f, "MTPR", 7)
}

func TestSetSpeed(t *testing.T) {
	f := &i2cFakeRegs{}
	bus := &I2C{regs: f, sysclk: 80 * physic.MegaHertz}
	if err := bus.SetSpeed(400 * physic.KiloHertz); err != nil {
		t.Fatalf("SetSpeed() = %v", err)
	}
	checkWrites(t, f, "MTPR", 9)
	if err := bus.SetSpeed(0); err == nil {
		t.Fatal("SetSpeed(0) did not fail")
	}
}

func TestTx(t *testing.T) {
	f := &i2cFakeRegs{data: []uint32{0x99}}
	bus := &I2C{regs: f}
	if err := bus.Tx(0x123, nil, nil); err == nil {
		t.Fatal("10-bit address did not fail")
	}
	b := make([]byte, 1)
	if err := bus.Tx(0x50, []byte{0x01}, b); err != nil {
		t.Fatalf("Tx() = %v", err)
	}
	if b[0] != 0x99 {
		t.Fatalf("read %#02x", b[0])
	}
	checkWrites(t, f, "MSA", 0x50<<1, 0x50<<1|msaReceive)
}

//

type regOp struct {
	reg string
	v   uint32
}

// i2cFakeRegs records every register write and serves scripted MCS
// status words, the last one repeating. An empty script reads as idle.
type i2cFakeRegs struct {
	ops         []regOp
	status      []uint32
	data        []uint32
	settles     int
	statusReads int
}

func (f *i2cFakeRegs) writeMSA(v uint32)  { f.ops = append(f.ops, regOp{"MSA", v}) }
func (f *i2cFakeRegs) writeMCS(v uint32)  { f.ops = append(f.ops, regOp{"MCS", v}) }
func (f *i2cFakeRegs) writeMDR(v uint32)  { f.ops = append(f.ops, regOp{"MDR", v}) }
func (f *i2cFakeRegs) writeMTPR(v uint32) { f.ops = append(f.ops, regOp{"MTPR", v}) }
func (f *i2cFakeRegs) writeMCR(v uint32)  { f.ops = append(f.ops, regOp{"MCR", v}) }
func (f *i2cFakeRegs) settle()            { f.settles++ }

func (f *i2cFakeRegs) readMCS() uint32 {
	f.statusReads++
	if len(f.status) == 0 {
		return 0
	}
	v := f.status[0]
	if len(f.status) > 1 {
		f.status = f.status[1:]
	}
	return v
}

func (f *i2cFakeRegs) readMDR() uint32 {
	if len(f.data) == 0 {
		return 0
	}
	v := f.data[0]
	f.data = f.data[1:]
	return v
}

func (f *i2cFakeRegs) writes(reg string) []uint32 {
	var out []uint32
	for _, op := range f.ops {
		if op.reg == reg {
			out = append(out, op.v)
		}
	}
	return out
}

func checkWrites(t *testing.T, f *i2cFakeRegs, reg string, want ...uint32) {
	t.Helper()
	got := f.writes(reg)
	if len(got) != len(want) {
		t.Fatalf("%s writes: got %#x, want %#x", reg, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s write %d: got %#x, want %#x", reg, i, got[i], want[i])
		}
	}
}
