// Package scalar implements a fixed-width, exception-aware number format.
//
// A Scalar is a pair {frac, exp} of 32-bit signed integers. A finite,
// non-zero value is frac × 2^exp with |frac| normalised into [2^29, 2^30).
// The reserved exponent SentinelExp marks exceptional values, which are
// multiplexed through the fraction field:
//
//	frac == 0                    Zero (the only zero)
//	frac == ±1                   ±Infinite (overflow, x/0)
//	frac == ±2                   ±Vanished (underflow, distinct from Zero)
//	frac == UndefinedBase+cause  Undefined, tagged with the contradiction that produced it
//
// Every operation on Scalars returns exactly one valid Scalar; arithmetic
// never fails and never panics. Exceptional results are ordinary values.
//
// The zero value of Scalar is not a valid encoding (it decodes as
// Undefined(Malformed)). Use Zero.
package scalar

import "math"

// Encoding constants. These values are shared with the accelerator kernels
// and must not change independently of them.
const (
	// FracBits is the number of significant bits in a normal fraction.
	FracBits = 30

	// FracMin is the smallest normal fraction magnitude (2^29).
	FracMin = 1 << (FracBits - 1)

	// FracLimit is one past the largest normal fraction magnitude (2^30).
	FracLimit = 1 << FracBits

	// MinExp and MaxExp bound the exponent of normal values.
	MinExp = -(1 << 28)
	MaxExp = 1 << 28

	// SentinelExp marks an exceptional value.
	SentinelExp = math.MinInt32

	FracZero        = 0
	FracInfinite    = 1
	FracVanished    = 2
	UndefinedBase   = 16
	undefinedMaxTag = UndefinedBase + int32(numCauses)
)

// Class is the classification of a Scalar.
type Class uint8

// Classes, in no particular order.
const (
	ClassZero Class = iota
	ClassNormal
	ClassVanished
	ClassInfinite
	ClassUndefined
)

func (c Class) String() string {
	switch c {
	case ClassZero:
		return "zero"
	case ClassNormal:
		return "normal"
	case ClassVanished:
		return "vanished"
	case ClassInfinite:
		return "infinite"
	case ClassUndefined:
		return "undefined"
	}
	return "unknown"
}

// Cause identifies the algebraic contradiction behind an Undefined value.
type Cause int32

// Undefined causes. The numeric values are part of the published encoding.
const (
	ZeroDivZero Cause = iota + 1
	InfMinusInf
	InfTimesZero
	InfDivInf
	InfTimesVanished
	VanishedDivVanished
	VanishedMinusVanished
	SqrtNegative
	NotANumber
	Malformed

	numCauses = int(Malformed)
)

var causeNames = [...]string{
	ZeroDivZero:           "0/0",
	InfMinusInf:           "inf-inf",
	InfTimesZero:          "inf*0",
	InfDivInf:             "inf/inf",
	InfTimesVanished:      "inf*vanished",
	VanishedDivVanished:   "vanished/vanished",
	VanishedMinusVanished: "vanished-vanished",
	SqrtNegative:          "sqrt(negative)",
	NotANumber:            "nan",
	Malformed:             "malformed",
}

func (c Cause) String() string {
	if c < 1 || int(c) > numCauses {
		return "unknown"
	}
	return causeNames[c]
}

// Causes returns every Undefined cause in encoding order.
func Causes() []Cause {
	causes := make([]Cause, 0, numCauses)
	for c := Cause(1); int(c) <= numCauses; c++ {
		causes = append(causes, c)
	}
	return causes
}

// Scalar is an immutable exception-aware number. See the package
// documentation for the encoding.
type Scalar struct {
	frac int32
	exp  int32
}

// Canonical exceptional values.
var (
	Zero             = Scalar{FracZero, SentinelExp}
	PositiveInfinite = Scalar{FracInfinite, SentinelExp}
	NegativeInfinite = Scalar{-FracInfinite, SentinelExp}
	PositiveVanished = Scalar{FracVanished, SentinelExp}
	NegativeVanished = Scalar{-FracVanished, SentinelExp}

	One = Scalar{FracMin, -(FracBits - 1)}
	Two = Scalar{FracMin, -(FracBits - 2)}
)

// Undefined returns the Undefined value tagged with cause.
// Unknown causes are mapped to Malformed.
func Undefined(cause Cause) Scalar {
	if cause < 1 || int(cause) > numCauses {
		cause = Malformed
	}
	return Scalar{UndefinedBase + int32(cause), SentinelExp}
}

// Infinite returns the Infinite value with the given sign.
func Infinite(negative bool) Scalar {
	if negative {
		return NegativeInfinite
	}
	return PositiveInfinite
}

// Vanished returns the Vanished value with the given sign.
func Vanished(negative bool) Scalar {
	if negative {
		return NegativeVanished
	}
	return PositiveVanished
}

// FromParts builds a Scalar from its raw fraction and exponent fields.
// No validation is done: malformed patterns classify as Undefined(Malformed).
func FromParts(frac, exp int32) Scalar {
	return Scalar{frac: frac, exp: exp}
}

// Parts returns the raw fraction and exponent fields.
func (s Scalar) Parts() (frac, exp int32) {
	return s.frac, s.exp
}

// Class classifies s. Malformed bit patterns classify as ClassUndefined.
func (s Scalar) Class() Class {
	if s.exp == SentinelExp {
		switch s.frac {
		case FracZero:
			return ClassZero
		case FracInfinite, -FracInfinite:
			return ClassInfinite
		case FracVanished, -FracVanished:
			return ClassVanished
		}
		return ClassUndefined
	}
	if s.exp < MinExp || s.exp > MaxExp {
		return ClassUndefined
	}
	m := s.frac
	if m < 0 {
		m = -m
	}
	if m < FracMin || m >= FracLimit {
		return ClassUndefined
	}
	return ClassNormal
}

// Cause returns the cause of an Undefined value, and 0 for any other class.
func (s Scalar) Cause() Cause {
	if s.Class() != ClassUndefined {
		return 0
	}
	if s.exp == SentinelExp && s.frac >= UndefinedBase+1 && s.frac <= undefinedMaxTag {
		return Cause(s.frac - UndefinedBase)
	}
	return Malformed
}

// Valid reports whether s is a canonical encoding. Results of arithmetic
// are always valid.
func (s Scalar) Valid() bool {
	return s.Class() != ClassUndefined || s == Undefined(s.Cause())
}

// Canonical returns s with malformed bit patterns replaced by
// Undefined(Malformed). Decoders use it so that any 64-bit input yields a
// valid Scalar.
func (s Scalar) Canonical() Scalar {
	return s.canon()
}

// canon maps malformed bit patterns onto Undefined(Malformed).
func (s Scalar) canon() Scalar {
	if s.Class() == ClassUndefined {
		return Undefined(s.Cause())
	}
	return s
}

// IsZero reports whether s is the canonical Zero.
func (s Scalar) IsZero() bool { return s.Class() == ClassZero }

// IsNormal reports whether s is a finite non-zero representable value.
func (s Scalar) IsNormal() bool { return s.Class() == ClassNormal }

// IsVanished reports whether s underflowed.
func (s Scalar) IsVanished() bool { return s.Class() == ClassVanished }

// IsInfinite reports whether s overflowed or resulted from x/0.
func (s Scalar) IsInfinite() bool { return s.Class() == ClassInfinite }

// IsUndefined reports whether s is Undefined, with any cause.
func (s Scalar) IsUndefined() bool { return s.Class() == ClassUndefined }

// IsFinite reports whether s is Zero or normal.
func (s Scalar) IsFinite() bool {
	c := s.Class()
	return c == ClassZero || c == ClassNormal
}

// Sign returns -1, 0 or +1. Vanished and Infinite values carry a sign;
// Zero and Undefined return 0.
func (s Scalar) Sign() int {
	switch s.Class() {
	case ClassZero, ClassUndefined:
		return 0
	}
	if s.frac < 0 {
		return -1
	}
	return 1
}

func (s Scalar) negative() bool { return s.frac < 0 }
