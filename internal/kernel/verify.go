package kernel

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Language selects how a kernel source declares the shared constants.
type Language int

const (
	// LangWGSL declares `const NAME: i32 = VALUE;`.
	LangWGSL Language = iota
	// LangC declares `#define EXACT_NAME VALUE` (CUDA headers).
	LangC
)

// CPrefix prefixes every constant name in C sources.
const CPrefix = "EXACT_"

var (
	wgslConst = regexp.MustCompile(`(?m)^const ([A-Z_]+): i32 = (.+);`)
	cDefine   = regexp.MustCompile(`(?m)^#define ` + CPrefix + `([A-Z_]+)[ \t]+(.+)$`)

	// Any floating-point type, in either language.
	floatToken = regexp.MustCompile(`\b(f16|f32|f64|half\w*|float\w*|double\w*|__half\w*|__nv_bfloat\w*|bfloat\w*)\b`)
)

// VerifySource checks that src declares every entry of Constants with the
// same value and mentions no floating-point type. Extra declarations are
// allowed.
func VerifySource(lang Language, src string) error {
	if tok := floatToken.FindString(src); tok != "" {
		return errors.Errorf("kernel: source mentions floating-point type %q", tok)
	}
	re := wgslConst
	if lang == LangC {
		re = cDefine
	}
	declared := make(map[string]string)
	for _, m := range re.FindAllStringSubmatch(src, -1) {
		declared[m[1]] = strings.TrimSpace(m[2])
	}
	for _, c := range Constants() {
		expr, ok := declared[c.Name]
		if !ok {
			return errors.Errorf("kernel: source does not declare %s", c.Name)
		}
		v, err := evalLiteral(expr)
		if err != nil {
			return errors.WithMessagef(err, "kernel: constant %s", c.Name)
		}
		if v != int64(c.Value) {
			return errors.Errorf("kernel: constant %s = %d in source, want %d", c.Name, v, c.Value)
		}
	}
	return nil
}

// evalLiteral evaluates the integer expressions produced by
// Constant.Literal: an optionally parenthesized literal, or a difference
// of two literals, with an optional "i" or "u" suffix.
func evalLiteral(expr string) (int64, error) {
	expr = strings.TrimSpace(expr)
	for strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		expr = strings.TrimSpace(expr[1 : len(expr)-1])
	}
	if lhs, rhs, found := strings.Cut(expr, " - "); found {
		l, err := evalLiteral(lhs)
		if err != nil {
			return 0, err
		}
		r, err := evalLiteral(rhs)
		if err != nil {
			return 0, err
		}
		return l - r, nil
	}
	expr = strings.TrimRight(expr, "iuU")
	v, err := strconv.ParseInt(expr, 0, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "unsupported literal %q", expr)
	}
	return v, nil
}
