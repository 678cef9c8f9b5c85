package scalar

import "math/bits"

// The helpers below operate on normal operands only and use 32-bit
// intermediates exclusively (plus bits.Mul32 and bits.Sub32), so they can be reproduced
// instruction for instruction by the integer-only accelerator kernels.
// Magnitudes are truncated toward zero.

// normal packs a sign, a non-zero magnitude and an exponent into a Scalar,
// normalising the magnitude into [FracMin, FracLimit) and mapping exponents
// outside [MinExp, MaxExp] onto Infinite or Vanished.
func normal(neg bool, mag uint32, exp int32) Scalar {
	shift := int32(bits.LeadingZeros32(mag)) - (32 - FracBits)
	if shift > 0 {
		mag <<= uint32(shift)
	} else if shift < 0 {
		mag >>= uint32(-shift)
	}
	exp -= shift
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
	return Scalar{frac, exp}
}

// magnitude splits a normal Scalar into its sign and fraction magnitude.
func (s Scalar) magnitude() (neg bool, mag uint32) {
	if s.frac < 0 {
		return true, uint32(-s.frac)
	}
	return false, uint32(s.frac)
}

// normalWide is normal for the two-word magnitude hi×2^exp + lo×2^(exp-32).
// Bits below the fraction width are truncated. hi and lo must not both be 0.
func normalWide(neg bool, hi, lo uint32, exp int32) Scalar {
	if hi == 0 {
		hi, lo, exp = lo, 0, exp-32
	}
	if shift := int32(bits.LeadingZeros32(hi)) - (32 - FracBits); shift > 0 {
		hi = hi<<uint32(shift) | lo>>uint32(32-shift)
		exp -= shift
	}
	return normal(neg, hi, exp)
}

// align shifts m right by d bits into two words, the binary point sitting
// between hi and lo. sticky is 1 when non-zero bits fell off the low word.
func align(m uint32, d int32) (hi, lo, sticky uint32) {
	switch {
	case d == 0:
		return m, 0, 0
	case d < 32:
		return m >> uint32(d), m << uint32(32-d), 0
	case d < 64:
		s := uint32(d - 32)
		if m&(1<<s-1) != 0 {
			sticky = 1
		}
		return 0, m >> s, sticky
	}
	return 0, 0, 1
}

// addNormal aligns the smaller operand into two words so that bits shifted
// past the fraction still take part in a cancelling subtraction. A sticky
// borrow stands in for anything below the low word.
func addNormal(a, b Scalar) Scalar {
	an, am := a.magnitude()
	bn, bm := b.magnitude()
	ae, be := a.exp, b.exp
	if be > ae || (be == ae && bm > am) {
		an, am, ae, bn, bm, be = bn, bm, be, an, am, ae
	}
	shi, slo, sticky := align(bm, ae-be)
	if an == bn {
		return normalWide(an, am+shi, slo, ae)
	}
	lo, borrow := bits.Sub32(0, slo, sticky)
	hi, _ := bits.Sub32(am, shi, borrow)
	if hi == 0 && lo == 0 {
		return Zero
	}
	return normalWide(an, hi, lo, ae)
}

func mulNormal(a, b Scalar) Scalar {
	an, am := a.magnitude()
	bn, bm := b.magnitude()
	// am*bm lies in [2^58, 2^60); keep its top bits.
	hi, lo := bits.Mul32(am, bm)
	mag := hi<<(32-FracBits+1) | lo>>(FracBits-1)
	return normal(an != bn, mag, a.exp+b.exp+(FracBits-1))
}

func divNormal(a, b Scalar) Scalar {
	an, am := a.magnitude()
	bn, bm := b.magnitude()
	// Restoring division: q = floor(am * 2^30 / bm), in (2^29, 2^31).
	var q uint32
	r := am
	for i := 0; i <= FracBits; i++ {
		q <<= 1
		if r >= bm {
			r -= bm
			q |= 1
		}
		r <<= 1
	}
	return normal(an != bn, q, a.exp-b.exp-FracBits)
}

// Add returns a + b.
//
// When both operands are Undefined the left one wins; this tie-break is
// applied by every binary operation.
func (a Scalar) Add(b Scalar) Scalar {
	ca, cb := a.Class(), b.Class()
	switch {
	case ca == ClassUndefined:
		return a.canon()
	case cb == ClassUndefined:
		return b.canon()
	case ca == ClassZero:
		return b
	case cb == ClassZero:
		return a
	case ca == ClassInfinite:
		if cb == ClassInfinite && a.negative() != b.negative() {
			return Undefined(InfMinusInf)
		}
		return a
	case cb == ClassInfinite:
		return b
	case ca == ClassVanished && cb == ClassVanished:
		if a.negative() != b.negative() {
			return Undefined(VanishedMinusVanished)
		}
		return a
	case ca == ClassVanished:
		return b
	case cb == ClassVanished:
		return a
	}
	return addNormal(a, b)
}

// Sub returns a - b.
func (a Scalar) Sub(b Scalar) Scalar {
	if b.IsUndefined() {
		if a.IsUndefined() {
			return a.canon()
		}
		return b.canon()
	}
	return a.Add(b.Neg())
}

// Mul returns a × b. The product is Zero if and only if one of the
// operands is Zero; underflow yields Vanished.
func (a Scalar) Mul(b Scalar) Scalar {
	ca, cb := a.Class(), b.Class()
	switch {
	case ca == ClassUndefined:
		return a.canon()
	case cb == ClassUndefined:
		return b.canon()
	case ca == ClassZero || cb == ClassZero:
		if ca == ClassInfinite || cb == ClassInfinite {
			return Undefined(InfTimesZero)
		}
		return Zero
	case ca == ClassInfinite || cb == ClassInfinite:
		if ca == ClassVanished || cb == ClassVanished {
			return Undefined(InfTimesVanished)
		}
		return Infinite(a.negative() != b.negative())
	case ca == ClassVanished || cb == ClassVanished:
		return Vanished(a.negative() != b.negative())
	}
	return mulNormal(a, b)
}

// Div returns a / b. A non-zero value divided by Zero is Infinite with the
// sign of the dividend.
func (a Scalar) Div(b Scalar) Scalar {
	ca, cb := a.Class(), b.Class()
	switch {
	case ca == ClassUndefined:
		return a.canon()
	case cb == ClassUndefined:
		return b.canon()
	case cb == ClassZero:
		if ca == ClassZero {
			return Undefined(ZeroDivZero)
		}
		return Infinite(a.negative())
	case ca == ClassZero:
		return Zero
	case ca == ClassInfinite:
		if cb == ClassInfinite {
			return Undefined(InfDivInf)
		}
		return Infinite(a.negative() != b.negative())
	case cb == ClassInfinite:
		return Vanished(a.negative() != b.negative())
	case ca == ClassVanished:
		if cb == ClassVanished {
			return Undefined(VanishedDivVanished)
		}
		return Vanished(a.negative() != b.negative())
	case cb == ClassVanished:
		return Infinite(a.negative() != b.negative())
	}
	return divNormal(a, b)
}

// Neg returns -s. Zero and Undefined are returned unchanged.
func (s Scalar) Neg() Scalar {
	switch s.Class() {
	case ClassUndefined:
		return s.canon()
	case ClassZero:
		return s
	}
	return Scalar{-s.frac, s.exp}
}

// Abs returns the magnitude of s. Undefined is returned unchanged.
func (s Scalar) Abs() Scalar {
	if s.Sign() < 0 {
		return s.Neg()
	}
	return s.canon()
}

// Sqrt returns the square root of s. Any negative operand, including
// -Vanished and -Infinite, yields Undefined(SqrtNegative).
func (s Scalar) Sqrt() Scalar {
	switch s.Class() {
	case ClassUndefined:
		return s.canon()
	case ClassZero:
		return s
	}
	if s.negative() {
		return Undefined(SqrtNegative)
	}
	if !s.IsNormal() {
		return s
	}
	m := uint64(s.frac)
	e := s.exp
	if e&1 != 0 {
		m <<= 1
		e--
	}
	r := isqrt(m << FracBits)
	return normal(false, uint32(r), (e-FracBits)/2)
}

// isqrt returns floor(sqrt(n)).
func isqrt(n uint64) uint64 {
	var res uint64
	bit := uint64(1) << 62
	for bit > n {
		bit >>= 2
	}
	for bit != 0 {
		if n >= res+bit {
			n -= res + bit
			res = res>>1 + bit
		} else {
			res >>= 1
		}
		bit >>= 2
	}
	return res
}

// Shift returns s × 2^n. Only normal values move; leaving the exponent
// range yields Infinite or Vanished.
func (s Scalar) Shift(n int) Scalar {
	if !s.IsNormal() {
		return s.canon()
	}
	e := int64(s.exp) + int64(n)
	if e > MaxExp {
		return Infinite(s.negative())
	}
	if e < MinExp {
		return Vanished(s.negative())
	}
	return Scalar{s.frac, int32(e)}
}

// Square returns s × s.
func (s Scalar) Square() Scalar {
	return s.Mul(s)
}
