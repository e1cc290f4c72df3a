// Copyright 2019 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm4c

import "fmt"

// Variant is the chip family, decoded from the device class field.
type Variant int

const (
	// TM4C123x is the Blizzard class (e.g. TM4C123GH6PM, LM4F120H5QR).
	TM4C123x Variant = iota
	// TM4C129x is the Snowflake class (e.g. TM4C1294NCPDT).
	TM4C129x
)

func (v Variant) String() string {
	if v == TM4C129x {
		return "TM4C129x"
	}
	return "TM4C123x"
}

// PinCount is the decoded package pin count.
type PinCount int

// Values for PinCount. Zero means unknown.
const (
	Pins28  PinCount = 28
	Pins48  PinCount = 48
	Pins64  PinCount = 64
	Pins100 PinCount = 100
	Pins144 PinCount = 144
	Pins157 PinCount = 157
	Pins168 PinCount = 168
)

// TempRange is the qualified operating temperature range.
type TempRange int

const (
	// TempUnknown is a reserved encoding.
	TempUnknown TempRange = iota
	// TempCommercial is 0°C to +70°C.
	TempCommercial
	// TempIndustrial is -40°C to +85°C.
	TempIndustrial
	// TempExtended is -40°C to +105°C.
	TempExtended
)

func (t TempRange) String() string {
	switch t {
	case TempCommercial:
		return "commercial"
	case TempIndustrial:
		return "industrial"
	case TempExtended:
		return "extended"
	}
	return "unknown"
}

// Package is the physical package type.
type Package int

const (
	// PackageUnknown is a reserved encoding.
	PackageUnknown Package = iota
	// PackageSOIC is a small-outline IC.
	PackageSOIC
	// PackageLQFP is a low-profile quad flat pack.
	PackageLQFP
	// PackageBGA is a ball grid array.
	PackageBGA
)

func (p Package) String() string {
	switch p {
	case PackageSOIC:
		return "SOIC"
	case PackageLQFP:
		return "LQFP"
	case PackageBGA:
		return "BGA"
	}
	return "unknown"
}

// Qualification is the production qualification status.
type Qualification int

const (
	// EngineeringSample parts carry no reliability commitment.
	EngineeringSample Qualification = iota
	// PilotProduction parts come from a qualification pilot run.
	PilotProduction
	// FullyQualified parts are production qualified.
	FullyQualified
	// QualificationUnknown is a reserved encoding.
	QualificationUnknown
)

func (q Qualification) String() string {
	switch q {
	case EngineeringSample:
		return "engineering sample"
	case PilotProduction:
		return "pilot production"
	case FullyQualified:
		return "fully qualified"
	}
	return "unknown"
}

// Identity is the decoded content of the DID0 and DID1 device
// identification registers.
type Identity struct {
	Variant       Variant
	Major         uint8 // die revision, 0 is 'A'
	Minor         uint8 // metal layer revision
	PartNo        uint8 // raw part number field
	PinCount      PinCount
	TempRange     TempRange
	Package       Package
	RohsCompliant bool
	Qualification Qualification
}

func (id *Identity) String() string {
	return fmt.Sprintf("%s rev %c%d part %#02x", id.Variant, 'A'+id.Major, id.Minor, id.PartNo)
}

// decodeIdentity interprets raw DID0/DID1 words. The version fields
// are validated first; Stellaris LM3S parts use version 0 and are not
// supported.
func decodeIdentity(did0, did1 uint32) (Identity, error) {
	id := Identity{}
	if v := (did0 >> 28) & 0x7; v != 0x1 {
		return id, fmt.Errorf("tm4c: unsupported DID0 version %#x", v)
	}
	if v := (did1 >> 28) & 0xF; v != 0x1 {
		return id, fmt.Errorf("tm4c: unsupported DID1 version %#x", v)
	}
	switch (did0 >> 16) & 0xFF {
	case 0x05:
		id.Variant = TM4C123x
	case 0x0A:
		id.Variant = TM4C129x
	default:
		return id, fmt.Errorf("tm4c: unknown device class %#02x", (did0>>16)&0xFF)
	}
	id.Major = uint8(did0 >> 8)
	id.Minor = uint8(did0)
	id.PartNo = uint8(did1 >> 16)
	switch (did1 >> 13) & 0x7 {
	case 0:
		id.PinCount = Pins28
	case 1:
		id.PinCount = Pins48
	case 2:
		id.PinCount = Pins100
	case 3:
		id.PinCount = Pins64
	case 4:
		id.PinCount = Pins144
	case 5:
		id.PinCount = Pins157
	case 6:
		id.PinCount = Pins168
	}
	switch (did1 >> 5) & 0x7 {
	case 0:
		id.TempRange = TempCommercial
	case 1:
		id.TempRange = TempIndustrial
	case 2:
		id.TempRange = TempExtended
	default:
		id.TempRange = TempUnknown
	}
	switch (did1 >> 3) & 0x3 {
	case 0:
		id.Package = PackageSOIC
	case 1:
		id.Package = PackageLQFP
	case 2:
		id.Package = PackageBGA
	default:
		id.Package = PackageUnknown
	}
	id.RohsCompliant = did1&(1<<2) != 0
	switch did1 & 0x3 {
	case 0:
		id.Qualification = EngineeringSample
	case 1:
		id.Qualification = PilotProduction
	case 2:
		id.Qualification = FullyQualified
	default:
		id.Qualification = QualificationUnknown
	}
	return id, nil
}
