// Copyright 2019 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tm4c drives the on-chip peripherals of TI TM4C123x and
// TM4C129x microcontrollers.
//
// The I²C master blocks are driven in blocking polled mode: every wait
// is a busy loop on the master control/status register with no
// timeout. A slave that stretches the clock forever, or a stuck bus,
// stalls the calling goroutine indefinitely; wrap calls with a Timer
// if bounded latency is needed.
//
// After an error the bus is left as-is. No STOP is issued on the
// caller's behalf, so the bus may be in an indeterminate state and the
// caller should run its own recovery sequence before the next
// transaction.
//
// Datasheets
//
// http://www.ti.com/lit/ds/symlink/tm4c123gh6pm.pdf
//
// http://www.ti.com/lit/ds/symlink/tm4c1294ncpdt.pdf
package tm4c
