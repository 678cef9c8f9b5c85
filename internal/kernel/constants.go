package kernel

import (
	"fmt"
	"math"

	"github.com/born-ml/exact/internal/scalar"
)

// Constant is a named integer shared by the Go arithmetic and every kernel
// source.
type Constant struct {
	Name  string
	Value int32
}

// Literal renders the value as a C or WGSL integer expression. The most
// negative int32 has no literal form in either language, so it is written
// as a subtraction.
func (c Constant) Literal(suffix string) string {
	if c.Value == math.MinInt32 {
		return fmt.Sprintf("(-%d%s - 1%s)", math.MaxInt32, suffix, suffix)
	}
	return fmt.Sprintf("%d%s", c.Value, suffix)
}

var causeIdents = map[scalar.Cause]string{
	scalar.ZeroDivZero:           "ZERO_DIV_ZERO",
	scalar.InfMinusInf:           "INF_MINUS_INF",
	scalar.InfTimesZero:          "INF_TIMES_ZERO",
	scalar.InfDivInf:             "INF_DIV_INF",
	scalar.InfTimesVanished:      "INF_TIMES_VANISHED",
	scalar.VanishedDivVanished:   "VANISHED_DIV_VANISHED",
	scalar.VanishedMinusVanished: "VANISHED_MINUS_VANISHED",
	scalar.SqrtNegative:          "SQRT_NEGATIVE",
	scalar.NotANumber:            "NOT_A_NUMBER",
	scalar.Malformed:             "MALFORMED",
}

// Constants returns the encoding constants in declaration order. Undefined
// causes are published as complete fraction patterns (UNDEF_*), so a kernel
// never computes a tag.
func Constants() []Constant {
	out := []Constant{
		{"FRAC_BITS", scalar.FracBits},
		{"FRAC_MIN", scalar.FracMin},
		{"FRAC_LIMIT", scalar.FracLimit},
		{"MIN_EXP", scalar.MinExp},
		{"MAX_EXP", scalar.MaxExp},
		{"SENTINEL_EXP", scalar.SentinelExp},
		{"FRAC_ZERO", scalar.FracZero},
		{"FRAC_INFINITE", scalar.FracInfinite},
		{"FRAC_VANISHED", scalar.FracVanished},
		{"UNDEFINED_BASE", scalar.UndefinedBase},
	}
	causes := scalar.Causes()
	for _, c := range causes {
		frac, _ := scalar.Undefined(c).Parts()
		out = append(out, Constant{"UNDEF_" + causeIdents[c], frac})
	}
	out = append(out, Constant{"UNDEFINED_MAX", scalar.UndefinedBase + int32(len(causes))})
	return out
}
