// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package scalar provides the public API for the exception-aware Scalar
// number format.
//
// A Scalar is a 30-bit signed fraction with a 32-bit exponent. Overflow,
// underflow and every algebraic contradiction are explicit values:
//   - Infinite: magnitude too large to represent, signed
//   - Vanished: non-zero magnitude too small to represent, signed
//   - Undefined: a contradiction such as 0/0, tagged with its Cause
//
// Arithmetic is closed and deterministic: every operation on any pair of
// Scalars returns a Scalar, bit-identical on every platform.
//
// Example:
//
//	a := scalar.FromInt(3)
//	b := scalar.Zero
//	fmt.Println(a.Div(b))      // +inf
//	fmt.Println(b.Div(b))      // undefined(0/0)
package scalar

import (
	"math/big"

	"github.com/born-ml/exact/internal/scalar"
)

// Scalar is an immutable exception-aware number.
type Scalar = scalar.Scalar

// Class is the classification of a Scalar.
type Class = scalar.Class

// Class constants.
const (
	ClassZero      Class = scalar.ClassZero
	ClassNormal    Class = scalar.ClassNormal
	ClassVanished  Class = scalar.ClassVanished
	ClassInfinite  Class = scalar.ClassInfinite
	ClassUndefined Class = scalar.ClassUndefined
)

// Cause identifies the contradiction behind an Undefined value.
type Cause = scalar.Cause

// Undefined causes.
const (
	ZeroDivZero           Cause = scalar.ZeroDivZero
	InfMinusInf           Cause = scalar.InfMinusInf
	InfTimesZero          Cause = scalar.InfTimesZero
	InfDivInf             Cause = scalar.InfDivInf
	InfTimesVanished      Cause = scalar.InfTimesVanished
	VanishedDivVanished   Cause = scalar.VanishedDivVanished
	VanishedMinusVanished Cause = scalar.VanishedMinusVanished
	SqrtNegative          Cause = scalar.SqrtNegative
	NotANumber            Cause = scalar.NotANumber
	Malformed             Cause = scalar.Malformed
)

// Canonical values.
var (
	Zero             = scalar.Zero
	One              = scalar.One
	Two              = scalar.Two
	PositiveInfinite = scalar.PositiveInfinite
	NegativeInfinite = scalar.NegativeInfinite
	PositiveVanished = scalar.PositiveVanished
	NegativeVanished = scalar.NegativeVanished
)

// ErrSyntax is returned by Parse for malformed text.
var ErrSyntax = scalar.ErrSyntax

// FromInt converts an integer, truncating to 30 significant bits.
func FromInt(v int64) Scalar { return scalar.FromInt(v) }

// FromFloat64 converts a float64. NaN becomes Undefined(NotANumber).
func FromFloat64(v float64) Scalar { return scalar.FromFloat64(v) }

// FromBig converts an arbitrary-precision float.
func FromBig(f *big.Float) Scalar { return scalar.FromBig(f) }

// Parse reads the textual form produced by Scalar.String.
func Parse(text string) (Scalar, error) { return scalar.Parse(text) }

// Undefined returns the Undefined value tagged with cause.
func Undefined(cause Cause) Scalar { return scalar.Undefined(cause) }

// Infinite returns signed Infinite.
func Infinite(negative bool) Scalar { return scalar.Infinite(negative) }

// Vanished returns signed Vanished.
func Vanished(negative bool) Scalar { return scalar.Vanished(negative) }

// Max returns the larger of a and b in the total order.
func Max(a, b Scalar) Scalar { return scalar.Max(a, b) }

// Min returns the smaller of a and b in the total order.
func Min(a, b Scalar) Scalar { return scalar.Min(a, b) }

// Causes returns every Undefined cause in encoding order.
func Causes() []Cause { return scalar.Causes() }
