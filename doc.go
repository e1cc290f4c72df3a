// Copyright 2019 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tiva is for documentation only. Host support for TI Tiva C
// Series microcontrollers.
//
// Supported chips
//
// The TM4C123x (Blizzard) and TM4C129x (Snowflake) families are
// supported by a single parameterized driver in hostextra/tm4c. The
// family is detected at runtime from the SYSCTL device identification
// registers.
//
// What is included
//
// hostextra/tm4c drives the on-chip I²C master blocks through their
// memory mapped registers, controls peripheral clock gating and reset
// through SYSCTL, and exposes the general purpose countdown timers.
// devices/busmap renders an I²C address scan to the terminal.
//
// All bus access is blocking and polled. There is no interrupt or DMA
// path.
package tiva
