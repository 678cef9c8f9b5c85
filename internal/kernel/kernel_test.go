package kernel_test

import (
	"math"
	"strings"
	"testing"

	"github.com/born-ml/exact/internal/kernel"
	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantsTable(t *testing.T) {
	byName := make(map[string]int32)
	for _, c := range kernel.Constants() {
		_, dup := byName[c.Name]
		require.False(t, dup, "duplicate constant %s", c.Name)
		byName[c.Name] = c.Value
	}
	assert.Equal(t, int32(scalar.FracBits), byName["FRAC_BITS"])
	assert.Equal(t, int32(math.MinInt32), byName["SENTINEL_EXP"])
	assert.Equal(t, int32(17), byName["UNDEF_ZERO_DIV_ZERO"])
	assert.Equal(t, int32(scalar.UndefinedBase+len(scalar.Causes())), byName["UNDEFINED_MAX"])

	// Every cause has a distinct published pattern.
	seen := make(map[int32]bool)
	for _, c := range scalar.Causes() {
		frac, _ := scalar.Undefined(c).Parts()
		assert.False(t, seen[frac], "cause %v", c)
		seen[frac] = true
		assert.Contains(t, patterns(byName), frac, "cause %v has no constant", c)
	}
}

// patterns returns the values of every UNDEF_ constant.
func patterns(byName map[string]int32) []int32 {
	var out []int32
	for name, v := range byName {
		if strings.HasPrefix(name, "UNDEF_") {
			out = append(out, v)
		}
	}
	return out
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "30i", kernel.Constant{Name: "X", Value: 30}.Literal("i"))
	assert.Equal(t, "-268435456", kernel.Constant{Name: "X", Value: -1 << 28}.Literal(""))
	assert.Equal(t, "(-2147483647 - 1)", kernel.Constant{Name: "X", Value: math.MinInt32}.Literal(""))
}

func TestWGSLParity(t *testing.T) {
	src := kernel.WGSL()
	require.NoError(t, kernel.VerifySource(kernel.LangWGSL, src))
	assert.Contains(t, src, "fn main(")
	assert.Contains(t, src, "@workgroup_size(16, 16)")
	assert.NotContains(t, src, "{{")
}

func TestVerifySourceRejects(t *testing.T) {
	src := kernel.WGSL()

	wrong := strings.Replace(src, "const FRAC_BITS: i32 = 30i;", "const FRAC_BITS: i32 = 31i;", 1)
	require.NotEqual(t, src, wrong)
	assert.ErrorContains(t, kernel.VerifySource(kernel.LangWGSL, wrong), "FRAC_BITS")

	missing := strings.Replace(src, "const MAX_EXP:", "const OTHER_EXP:", 1)
	assert.ErrorContains(t, kernel.VerifySource(kernel.LangWGSL, missing), "MAX_EXP")

	floaty := src + "\nvar<private> x: f32;\n"
	assert.ErrorContains(t, kernel.VerifySource(kernel.LangWGSL, floaty), "f32")

	var c strings.Builder
	for _, k := range kernel.Constants() {
		c.WriteString("#define " + kernel.CPrefix + k.Name + " " + k.Literal("") + "\n")
	}
	require.NoError(t, kernel.VerifySource(kernel.LangC, c.String()))
	assert.Error(t, kernel.VerifySource(kernel.LangC, c.String()+"static double d;\n"))
	assert.Error(t, kernel.VerifySource(kernel.LangC, src), "WGSL declarations do not satisfy C")
}

func TestSplitJoin(t *testing.T) {
	x := must.M1(tensor.Parse(tensor.Shape{2, 3}, []string{
		"1.5", "-inf", "+vanished", "0", "undefined(inf*0)", "-3",
	}))
	frac, exp := kernel.Split(x)
	require.Len(t, frac, 6)
	back := must.M1(kernel.Join(x.Shape(), frac, exp))
	assert.True(t, back.Equal(x))

	// A pattern that is not normalised decodes as Undefined(Malformed).
	frac[0], exp[0] = 3, 0
	bad := must.M1(kernel.Join(x.Shape(), frac, exp))
	assert.Equal(t, scalar.Undefined(scalar.Malformed), bad.At(0, 0))

	_, err := kernel.Join(x.Shape(), frac, exp[:2])
	assert.Error(t, err)
	_, err = kernel.Join(tensor.Shape{4, 4}, frac, exp)
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)
}

func TestNewRequest(t *testing.T) {
	a := tensor.Ones(tensor.Shape{2, 3})
	b := tensor.Ones(tensor.Shape{3, 4})
	req, err := kernel.NewRequest(a, b)
	require.NoError(t, err)
	assert.Equal(t, [3]int{2, 3, 4}, [3]int{req.M, req.K, req.N})
	require.NoError(t, req.Validate())
	assert.Equal(t, 4*2*(6+12+8), req.Bytes())

	res := req.NewResult()
	for i := range res.CFrac {
		res.CFrac[i], res.CExp[i] = scalar.FromInt(3).Parts()
	}
	c := must.M1(res.Tensor(req))
	assert.Equal(t, tensor.Shape{2, 4}, c.Shape())
	assert.Equal(t, 8, c.CountClass(scalar.ClassNormal))

	_, err = kernel.NewRequest(a, a)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
	_, err = kernel.NewRequest(tensor.Ones(tensor.Shape{3}), b)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

	req.AFrac = req.AFrac[:1]
	assert.Error(t, req.Validate())
	assert.Error(t, (&kernel.Request{M: 0, K: 1, N: 1}).Validate())
}

func TestUnavailable(t *testing.T) {
	err := kernel.Unavailable("no device %d", 3)
	assert.ErrorIs(t, err, kernel.ErrUnavailable)
	assert.Contains(t, err.Error(), "no device 3")
}
