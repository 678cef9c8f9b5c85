package scalar

import (
	"math"
	"math/big"
	"math/bits"
)

// pack builds a Scalar from a sign, a magnitude of any width and a wide
// exponent. Used by conversions; arithmetic goes through normal.
func pack(neg bool, mag uint64, exp int64) Scalar {
	if mag == 0 {
		return Zero
	}
	l := bits.Len64(mag)
	if l > FracBits {
		mag >>= uint(l - FracBits)
		exp += int64(l - FracBits)
	} else {
		mag <<= uint(FracBits - l)
		exp -= int64(FracBits - l)
	}
	if exp > MaxExp {
		return Infinite(neg)
	}
	if exp < MinExp {
		return Vanished(neg)
	}
	frac := int32(mag)
	if neg {
		frac = -frac
	}
	return Scalar{frac, int32(exp)}
}

// FromInt returns the Scalar nearest to v, truncating beyond 30 significant bits.
func FromInt(v int64) Scalar {
	if v < 0 {
		return pack(true, uint64(-(v+1))+1, 0)
	}
	return pack(false, uint64(v), 0)
}

// FromFloat64 converts v. NaN maps to Undefined(NotANumber), ±Inf to
// ±Infinite, both zeros to Zero.
func FromFloat64(v float64) Scalar {
	switch {
	case math.IsNaN(v):
		return Undefined(NotANumber)
	case math.IsInf(v, 0):
		return Infinite(v < 0)
	case v == 0:
		return Zero
	}
	frac, exp := math.Frexp(math.Abs(v))
	mag := uint64(math.Ldexp(frac, 53))
	return pack(v < 0, mag, int64(exp)-53)
}

// Float64 converts s for display and test oracles. Vanished maps to a
// signed zero and Undefined to NaN; normal values outside the float64 range
// saturate to ±Inf or ±0.
func (s Scalar) Float64() float64 {
	switch s.Class() {
	case ClassZero:
		return 0
	case ClassUndefined:
		return math.NaN()
	case ClassInfinite:
		return math.Inf(s.Sign())
	case ClassVanished:
		return math.Copysign(0, float64(s.Sign()))
	}
	return math.Ldexp(float64(s.frac), int(s.exp))
}

// Big returns s as an exact arbitrary-precision value with FracBits of
// precision. ok is false for Vanished and Undefined, which have no exact value.
func (s Scalar) Big() (f *big.Float, ok bool) {
	f = new(big.Float).SetPrec(FracBits)
	switch s.Class() {
	case ClassZero:
		return f, true
	case ClassInfinite:
		return f.SetInf(s.negative()), true
	case ClassNormal:
		f.SetInt64(int64(s.frac))
		return f.SetMantExp(f, int(s.exp)), true
	}
	return f, false
}

// FromBig converts f, truncating its mantissa to FracBits.
func FromBig(f *big.Float) Scalar {
	if f == nil {
		return Undefined(Malformed)
	}
	if f.IsInf() {
		return Infinite(f.Signbit())
	}
	if f.Sign() == 0 {
		return Zero
	}
	mant := new(big.Float)
	exp := f.MantExp(mant)
	mant.Abs(mant)
	mant.SetMantExp(mant, FracBits)
	m, _ := mant.Uint64()
	return pack(f.Sign() < 0, m, int64(exp)-FracBits)
}
