// Copyright 2019 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm4c

// Error classifies an I²C bus fault reported by the master block.
//
// Every value is terminal for the transaction that observed it:
// nothing is retried and no STOP is issued on the caller's behalf.
type Error int

const (
	// ErrBus is a NACK or line level fault not otherwise classified.
	ErrBus Error = iota + 1
	// ErrArbitrationLost means another master won contention for the
	// bus during the transaction.
	ErrArbitrationLost
	// ErrAddrNAK means the address byte was not acknowledged. Usually
	// there is no device at that address.
	ErrAddrNAK
	// ErrDataNAK means the address was acknowledged but a data byte
	// was not.
	ErrDataNAK
)

func (e Error) Error() string {
	switch e {
	case ErrBus:
		return "tm4c: i2c bus error"
	case ErrArbitrationLost:
		return "tm4c: i2c arbitration lost"
	case ErrAddrNAK:
		return "tm4c: i2c address not acknowledged"
	case ErrDataNAK:
		return "tm4c: i2c data not acknowledged"
	}
	return "tm4c: unknown i2c error"
}
