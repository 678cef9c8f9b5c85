package scalar_test

import (
	"math"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/born-ml/exact/internal/scalar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	smallest = scalar.FromParts(scalar.FracMin, scalar.MinExp)
	largest  = scalar.FromParts(scalar.FracLimit-1, scalar.MaxExp)
)

// interesting returns one or more values of every class, including a
// malformed bit pattern.
func interesting() []scalar.Scalar {
	out := []scalar.Scalar{
		scalar.Zero,
		scalar.One, scalar.One.Neg(), scalar.Two,
		scalar.FromInt(3), scalar.FromInt(-7), scalar.FromFloat64(0.1), scalar.FromFloat64(-1e-9),
		smallest, smallest.Neg(), largest, largest.Neg(),
		scalar.PositiveVanished, scalar.NegativeVanished,
		scalar.PositiveInfinite, scalar.NegativeInfinite,
		scalar.FromParts(0, 0), // malformed
		scalar.FromParts(12345, scalar.SentinelExp),
	}
	for _, c := range scalar.Causes() {
		out = append(out, scalar.Undefined(c))
	}
	return out
}

func randomScalar(r *rand.Rand) scalar.Scalar {
	switch r.IntN(8) {
	case 0:
		return scalar.FromParts(int32(r.Uint32()), int32(r.Uint32()))
	case 1:
		ex := interesting()
		return ex[r.IntN(len(ex))]
	case 2:
		frac := int32(scalar.FracMin + r.IntN(scalar.FracMin))
		if r.IntN(2) == 0 {
			frac = -frac
		}
		exp := int32(scalar.MinExp + r.IntN(64))
		if r.IntN(2) == 0 {
			exp = int32(scalar.MaxExp - r.IntN(64))
		}
		return scalar.FromParts(frac, exp)
	}
	return scalar.FromFloat64(r.NormFloat64() * math.Pow(10, float64(r.IntN(20)-10)))
}

func TestArithmeticMatchesIntegers(t *testing.T) {
	tests := []struct {
		name string
		got  scalar.Scalar
		want int64
	}{
		{"add", scalar.FromInt(5).Add(scalar.FromInt(3)), 8},
		{"sub", scalar.FromInt(5).Sub(scalar.FromInt(8)), -3},
		{"mul", scalar.FromInt(-6).Mul(scalar.FromInt(7)), -42},
		{"div", scalar.FromInt(84).Div(scalar.FromInt(4)), 21},
		{"neg", scalar.FromInt(9).Neg(), -9},
		{"abs", scalar.FromInt(-9).Abs(), 9},
		{"sqrt", scalar.FromInt(144).Sqrt(), 12},
		{"shift", scalar.FromInt(3).Shift(4), 48},
		{"large", scalar.FromInt(1 << 40).Mul(scalar.FromInt(3)), 3 << 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, scalar.FromInt(tt.want), tt.got, "got %v", tt.got)
		})
	}
}

func TestCancellationIsCanonicalZero(t *testing.T) {
	x := scalar.FromFloat64(1.2345)
	assert.Equal(t, scalar.Zero, x.Sub(x))
	assert.Equal(t, scalar.Zero, x.Add(x.Neg()))
	assert.Equal(t, scalar.Zero, scalar.Zero.Neg())
}

func TestVanishingIdentity(t *testing.T) {
	p := smallest.Mul(smallest)
	assert.True(t, p.IsVanished(), "m×m = %v", p)
	assert.False(t, p.IsZero())
	assert.Equal(t, scalar.PositiveVanished, p)
	assert.Equal(t, scalar.NegativeVanished, smallest.Neg().Mul(smallest))

	assert.Equal(t, scalar.PositiveVanished, scalar.PositiveVanished.Add(scalar.Zero))
	assert.Equal(t, scalar.PositiveVanished, scalar.Zero.Add(scalar.PositiveVanished))
	assert.Equal(t, smallest, smallest.Add(scalar.PositiveVanished))
	assert.True(t, smallest.Shift(-1).IsVanished())
	assert.True(t, smallest.Div(scalar.Two).IsVanished())
}

func TestProductIsZeroOnlyForZeroOperand(t *testing.T) {
	values := interesting()
	for _, a := range values {
		for _, b := range values {
			p := a.Mul(b)
			if p.IsZero() {
				assert.True(t, a.IsZero() || b.IsZero(), "%v × %v = 0", a, b)
			}
			if (a.IsZero() || b.IsZero()) && !a.IsUndefined() && !b.IsUndefined() && !a.IsInfinite() && !b.IsInfinite() {
				assert.True(t, p.IsZero(), "%v × %v = %v", a, b, p)
			}
		}
	}
}

func TestOverflow(t *testing.T) {
	assert.Equal(t, scalar.PositiveInfinite, largest.Mul(scalar.Two))
	assert.Equal(t, scalar.NegativeInfinite, largest.Neg().Add(largest.Neg()))
	assert.Equal(t, scalar.PositiveInfinite, scalar.One.Div(scalar.Zero))
	assert.Equal(t, scalar.NegativeInfinite, scalar.FromInt(-4).Div(scalar.Zero))
	assert.Equal(t, scalar.PositiveInfinite, largest.Shift(1))
}

func TestUndefinedCausesAreDistinct(t *testing.T) {
	zeroDivZero := scalar.Zero.Div(scalar.Zero)
	infMinusInf := scalar.PositiveInfinite.Sub(scalar.PositiveInfinite)
	infTimesZero := scalar.PositiveInfinite.Mul(scalar.Zero)

	assert.Equal(t, scalar.ZeroDivZero, zeroDivZero.Cause())
	assert.Equal(t, scalar.InfMinusInf, infMinusInf.Cause())
	assert.Equal(t, scalar.InfTimesZero, infTimesZero.Cause())

	seen := map[uint64]scalar.Scalar{}
	for _, s := range []scalar.Scalar{zeroDivZero, infMinusInf, infTimesZero} {
		require.True(t, s.IsUndefined())
		_, dup := seen[s.Bits()]
		assert.False(t, dup, "bit pattern of %v reused", s)
		seen[s.Bits()] = s

		parsed, err := scalar.Parse(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)

		var decoded scalar.Scalar
		data, err := s.MarshalBinary()
		require.NoError(t, err)
		require.NoError(t, decoded.UnmarshalBinary(data))
		assert.Equal(t, s, decoded)
	}
	assert.Equal(t, "undefined(0/0)", zeroDivZero.String())
	assert.Equal(t, "undefined(inf-inf)", infMinusInf.String())
	assert.Equal(t, "undefined(inf*0)", infTimesZero.String())
}

func TestExceptionalTable(t *testing.T) {
	inf, ninf := scalar.PositiveInfinite, scalar.NegativeInfinite
	v, nv := scalar.PositiveVanished, scalar.NegativeVanished
	x := scalar.FromInt(3)
	tests := []struct {
		name string
		got  scalar.Scalar
		want scalar.Scalar
	}{
		{"inf+x", inf.Add(x), inf},
		{"inf+inf", inf.Add(inf), inf},
		{"inf-inf", inf.Add(ninf), scalar.Undefined(scalar.InfMinusInf)},
		{"v-v", v.Add(nv), scalar.Undefined(scalar.VanishedMinusVanished)},
		{"v+v", v.Add(v), v},
		{"v+x", v.Add(x), x},
		{"inf*v", inf.Mul(v), scalar.Undefined(scalar.InfTimesVanished)},
		{"inf*-x", inf.Mul(x.Neg()), ninf},
		{"v*x", v.Mul(x.Neg()), nv},
		{"0*v", scalar.Zero.Mul(v), scalar.Zero},
		{"inf/inf", inf.Div(ninf), scalar.Undefined(scalar.InfDivInf)},
		{"v/v", v.Div(v), scalar.Undefined(scalar.VanishedDivVanished)},
		{"x/inf", x.Div(inf), v},
		{"x/v", x.Div(nv), ninf},
		{"0/inf", scalar.Zero.Div(inf), scalar.Zero},
		{"sqrt(-x)", x.Neg().Sqrt(), scalar.Undefined(scalar.SqrtNegative)},
		{"sqrt(-v)", nv.Sqrt(), scalar.Undefined(scalar.SqrtNegative)},
		{"sqrt(v)", v.Sqrt(), v},
		{"nan", scalar.FromFloat64(math.NaN()), scalar.Undefined(scalar.NotANumber)},
		{"malformed", scalar.FromParts(0, 0).Add(x), scalar.Undefined(scalar.Malformed)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got, "got %v want %v", tt.got, tt.want)
		})
	}
}

func TestUndefinedTieBreakIsLeftmost(t *testing.T) {
	left := scalar.Undefined(scalar.InfDivInf)
	right := scalar.Undefined(scalar.ZeroDivZero)
	ops := map[string]func(a, b scalar.Scalar) scalar.Scalar{
		"add": scalar.Scalar.Add,
		"sub": scalar.Scalar.Sub,
		"mul": scalar.Scalar.Mul,
		"div": scalar.Scalar.Div,
	}
	for name, op := range ops {
		assert.Equal(t, left, op(left, right), name)
		assert.Equal(t, right, op(right, left), name)
		assert.Equal(t, right, op(scalar.One, right), name)
	}
}

func TestClosure(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	binary := []func(a, b scalar.Scalar) scalar.Scalar{
		scalar.Scalar.Add, scalar.Scalar.Sub, scalar.Scalar.Mul, scalar.Scalar.Div, scalar.Max, scalar.Min,
	}
	unary := []func(a scalar.Scalar) scalar.Scalar{
		scalar.Scalar.Neg, scalar.Scalar.Abs, scalar.Scalar.Sqrt, scalar.Scalar.Square,
		func(a scalar.Scalar) scalar.Scalar { return a.Shift(r.IntN(200) - 100) },
	}
	values := interesting()
	for i := 0; i < 20000; i++ {
		values = append(values, randomScalar(r))
	}
	for i, a := range values {
		b := values[(i*7919+13)%len(values)]
		for _, op := range binary {
			res := op(a, b)
			if a.Valid() && b.Valid() {
				require.True(t, res.Valid(), "op(%v, %v) = %#v", a, b, res)
			}
			require.True(t, res.Valid() || res == a || res == b)
		}
		for _, op := range unary {
			res := op(a)
			if a.Valid() {
				require.True(t, res.Valid(), "op(%v) = %#v", a, res)
			}
		}
	}
}

func TestArithmeticAlwaysCanonical(t *testing.T) {
	bad := scalar.FromParts(7, 7)
	for _, s := range []scalar.Scalar{bad.Add(scalar.One), scalar.One.Mul(bad), bad.Neg(), bad.Sqrt(), bad.Abs()} {
		assert.Equal(t, scalar.Undefined(scalar.Malformed), s)
	}
}

func TestCompareTotalOrder(t *testing.T) {
	ordered := []scalar.Scalar{
		scalar.Undefined(scalar.ZeroDivZero),
		scalar.Undefined(scalar.InfMinusInf),
		scalar.NegativeInfinite,
		largest.Neg(),
		scalar.FromInt(-2),
		smallest.Neg(),
		scalar.NegativeVanished,
		scalar.Zero,
		scalar.PositiveVanished,
		smallest,
		scalar.FromFloat64(0.5),
		scalar.One,
		largest,
		scalar.PositiveInfinite,
	}
	for i := range ordered {
		for j := range ordered {
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			assert.Equal(t, want, ordered[i].Compare(ordered[j]), "%v vs %v", ordered[i], ordered[j])
		}
	}

	r := rand.New(rand.NewPCG(3, 4))
	shuffled := make([]scalar.Scalar, 500)
	for i := range shuffled {
		shuffled[i] = randomScalar(r).Add(scalar.Zero)
	}
	sort.Slice(shuffled, func(i, j int) bool { return shuffled[i].Less(shuffled[j]) })
	for i := 1; i < len(shuffled); i++ {
		require.LessOrEqual(t, shuffled[i-1].Compare(shuffled[i]), 0)
		require.Equal(t, shuffled[i-1] == shuffled[i], shuffled[i-1].Equal(shuffled[i]))
	}
}

func TestFloat64RoundTrip(t *testing.T) {
	for _, v := range []float64{1, -1, 0.5, 3.75, math.Ldexp(1, -100), -123456, 1 << 29} {
		s := scalar.FromFloat64(v)
		assert.Equal(t, v, s.Float64(), "%v", v)
	}
	assert.InDelta(t, 0.1, scalar.FromFloat64(0.1).Float64(), 1e-9)
	assert.True(t, math.IsNaN(scalar.Undefined(scalar.InfDivInf).Float64()))
	assert.True(t, math.IsInf(scalar.NegativeInfinite.Float64(), -1))
}

func TestBigIsExact(t *testing.T) {
	s := scalar.FromFloat64(1).Div(scalar.FromInt(3))
	f, ok := s.Big()
	require.True(t, ok)
	assert.Equal(t, s, scalar.FromBig(f))

	_, ok = scalar.PositiveVanished.Big()
	assert.False(t, ok)
}

func TestTextRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	values := interesting()
	for i := 0; i < 2000; i++ {
		values = append(values, randomScalar(r))
	}
	for _, s := range values {
		s = s.Add(scalar.Zero) // canonicalise
		text, err := s.MarshalText()
		require.NoError(t, err)
		var back scalar.Scalar
		require.NoError(t, back.UnmarshalText(text))
		require.Equal(t, s, back, "round trip of %s", text)
	}
}

func TestParseErrors(t *testing.T) {
	for _, text := range []string{"", "abc", "undefined(what)", "1.2.3"} {
		_, err := scalar.Parse(text)
		assert.ErrorIs(t, err, scalar.ErrSyntax, text)
	}
	assert.Equal(t, scalar.FromInt(-12), scalar.MustParse(" -12 "))
}

func TestSqrtPrecision(t *testing.T) {
	got := scalar.Two.Sqrt().Float64()
	assert.InDelta(t, math.Sqrt2, got, 1e-8)
	got = scalar.FromFloat64(1e-12).Sqrt().Float64()
	assert.InDelta(t, 1e-6, got, 1e-14)
}
