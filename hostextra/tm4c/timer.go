// Copyright 2019 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm4c

import (
	"fmt"
	"time"

	"periph.io/x/periph/conn/physic"
)

// Timer is one general purpose timer block configured as a periodic
// 32-bit countdown.
//
// The I²C poller never uses one; it exists for callers that want to
// bound a bus transaction themselves, typically by running the
// transaction in a goroutine and watching Expired from another.
type Timer struct {
	regs   timerIO
	n      int
	sysclk uint32
}

// NewTimer claims timer block n. The domain is powered and reset
// through pc, so the block comes up disabled.
func NewTimer(n int, clk *Clocks, pc *PowerControl) (*Timer, error) {
	if n < 0 || n > 5 {
		return nil, fmt.Errorf("tm4c: no Timer%d on this chip", n)
	}
	mu.Lock()
	if timerClaimed[n] {
		mu.Unlock()
		return nil, fmt.Errorf("tm4c: Timer%d is already claimed", n)
	}
	timerClaimed[n] = true
	mu.Unlock()
	regs, err := mapTimer(n)
	if err != nil {
		mu.Lock()
		timerClaimed[n] = false
		mu.Unlock()
		return nil, err
	}
	pc.PowerOn(DomainTimer0 + Domain(n))
	pc.Reset(DomainTimer0 + Domain(n))
	return &Timer{regs: regs, n: n, sysclk: uint32(clk.SysClk / physic.Hertz)}, nil
}

func (t *Timer) String() string {
	return fmt.Sprintf("Timer%d", t.n)
}

// Start programs the countdown and enables it. It restarts a running
// timer from scratch.
func (t *Timer) Start(period time.Duration) {
	t.regs.writeCTL(t.regs.readCTL() &^ timerCtlEnableA)
	ticks := uint32(uint64(t.sysclk) * uint64(period) / uint64(time.Second))
	t.regs.writeCFG(timerCfg32)
	t.regs.writeTAMR(timerModePeriodic)
	t.regs.writeTAV(ticks)
	t.regs.writeTAILR(ticks)
	t.regs.writeICR(timerICRTimeoutA)
	t.regs.writeCTL(t.regs.readCTL() | timerCtlEnableA)
}

// Expired reports whether the countdown has reached zero since the
// last call, clearing the condition when it has. The timer is
// periodic, so it keeps running.
func (t *Timer) Expired() bool {
	if t.regs.readRIS()&timerRISTimeoutA == 0 {
		return false
	}
	t.regs.writeICR(timerICRTimeoutA)
	return true
}

// Stop disables the countdown.
func (t *Timer) Stop() {
	t.regs.writeCTL(t.regs.readCTL() &^ timerCtlEnableA)
}

// Free releases the block so it can be claimed again.
func (t *Timer) Free() int {
	mu.Lock()
	timerClaimed[t.n] = false
	mu.Unlock()
	return t.n
}
