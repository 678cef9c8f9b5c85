package kernel

import (
	"strings"
	"sync"
	"text/template"
)

// WorkgroupSize is the edge of the square WGSL workgroup.
const WorkgroupSize = 16

// wgslTemplate is the Scalar matmul compute shader. Every helper mirrors its
// counterpart in package scalar step for step. The hardware has no 64-bit
// integers, so the 32x32 -> 64 bit product is assembled from 16-bit halves.
const wgslTemplate = `// Scalar matrix multiplication: C = A @ B.
// A is [M, K], B is [K, N], C is [M, N], each split into frac and exp arrays.

{{range .Constants}}const {{.Name}}: i32 = {{.Literal "i"}};
{{end}}
const CLASS_ZERO: u32 = 0u;
const CLASS_NORMAL: u32 = 1u;
const CLASS_VANISHED: u32 = 2u;
const CLASS_INFINITE: u32 = 3u;
const CLASS_UNDEFINED: u32 = 4u;

struct Scalar {
    frac: i32,
    exp: i32,
}

struct Params {
    M: u32,
    K: u32,
    N: u32,
    pad: u32,
}

@group(0) @binding(0) var<storage, read> a_frac: array<i32>;
@group(0) @binding(1) var<storage, read> a_exp: array<i32>;
@group(0) @binding(2) var<storage, read> b_frac: array<i32>;
@group(0) @binding(3) var<storage, read> b_exp: array<i32>;
@group(0) @binding(4) var<storage, read_write> c_frac: array<i32>;
@group(0) @binding(5) var<storage, read_write> c_exp: array<i32>;
@group(0) @binding(6) var<uniform> params: Params;

fn classify(s: Scalar) -> u32 {
    if (s.exp == SENTINEL_EXP) {
        if (s.frac == FRAC_ZERO) {
            return CLASS_ZERO;
        }
        if (s.frac == FRAC_INFINITE || s.frac == -FRAC_INFINITE) {
            return CLASS_INFINITE;
        }
        if (s.frac == FRAC_VANISHED || s.frac == -FRAC_VANISHED) {
            return CLASS_VANISHED;
        }
        return CLASS_UNDEFINED;
    }
    if (s.exp < MIN_EXP || s.exp > MAX_EXP) {
        return CLASS_UNDEFINED;
    }
    let m = abs(s.frac);
    if (m < FRAC_MIN || m >= FRAC_LIMIT) {
        return CLASS_UNDEFINED;
    }
    return CLASS_NORMAL;
}

fn canon_undefined(s: Scalar) -> Scalar {
    if (s.exp == SENTINEL_EXP && s.frac > UNDEFINED_BASE && s.frac <= UNDEFINED_MAX) {
        return s;
    }
    return Scalar(UNDEF_MALFORMED, SENTINEL_EXP);
}

fn make_undefined(frac: i32) -> Scalar {
    return Scalar(frac, SENTINEL_EXP);
}

fn signed_sentinel(neg: bool, frac: i32) -> Scalar {
    if (neg) {
        return Scalar(-frac, SENTINEL_EXP);
    }
    return Scalar(frac, SENTINEL_EXP);
}

fn is_neg(s: Scalar) -> bool {
    return s.frac < 0;
}

fn pack_normal(neg: bool, mag: u32, ex: i32) -> Scalar {
    let shift = i32(countLeadingZeros(mag)) - (32 - FRAC_BITS);
    var m = mag;
    if (shift > 0) {
        m = m << u32(shift);
    } else if (shift < 0) {
        m = m >> u32(-shift);
    }
    let e = ex - shift;
    if (e > MAX_EXP) {
        return signed_sentinel(neg, FRAC_INFINITE);
    }
    if (e < MIN_EXP) {
        return signed_sentinel(neg, FRAC_VANISHED);
    }
    var f = i32(m);
    if (neg) {
        f = -f;
    }
    return Scalar(f, e);
}

// mul_wide returns (hi, lo) of the 64-bit product a * b.
fn mul_wide(a: u32, b: u32) -> vec2<u32> {
    let a0 = a & 0xffffu;
    let a1 = a >> 16u;
    let b0 = b & 0xffffu;
    let b1 = b >> 16u;
    let p00 = a0 * b0;
    let p01 = a0 * b1;
    let p10 = a1 * b0;
    let p11 = a1 * b1;
    let mid = (p00 >> 16u) + (p01 & 0xffffu) + (p10 & 0xffffu);
    let lo = (p00 & 0xffffu) | (mid << 16u);
    let hi = p11 + (p01 >> 16u) + (p10 >> 16u) + (mid >> 16u);
    return vec2<u32>(hi, lo);
}

// pack_wide packs the two-word magnitude hi * 2^ex + lo * 2^(ex - 32).
fn pack_wide(neg: bool, hi_in: u32, lo_in: u32, ex_in: i32) -> Scalar {
    var hi = hi_in;
    var lo = lo_in;
    var ex = ex_in;
    if (hi == 0u) {
        hi = lo;
        lo = 0u;
        ex = ex - 32;
    }
    let shift = i32(countLeadingZeros(hi)) - (32 - FRAC_BITS);
    if (shift > 0) {
        hi = (hi << u32(shift)) | (lo >> u32(32 - shift));
        ex = ex - shift;
    }
    return pack_normal(neg, hi, ex);
}

fn add_normal(a: Scalar, b: Scalar) -> Scalar {
    var an = is_neg(a);
    var am = u32(abs(a.frac));
    var ae = a.exp;
    var bn = is_neg(b);
    var bm = u32(abs(b.frac));
    var be = b.exp;
    if (be > ae || (be == ae && bm > am)) {
        let tn = an;
        let tm = am;
        let te = ae;
        an = bn;
        am = bm;
        ae = be;
        bn = tn;
        bm = tm;
        be = te;
    }
    // Align bm into (shi, slo); sticky marks bits lost below slo.
    let d = ae - be;
    var shi = 0u;
    var slo = 0u;
    var sticky = 0u;
    if (d == 0) {
        shi = bm;
    } else if (d < 32) {
        shi = bm >> u32(d);
        slo = bm << u32(32 - d);
    } else if (d < 64) {
        let s = u32(d - 32);
        slo = bm >> s;
        if ((bm & ((1u << s) - 1u)) != 0u) {
            sticky = 1u;
        }
    } else {
        sticky = 1u;
    }
    if (an == bn) {
        return pack_wide(an, am + shi, slo, ae);
    }
    let lo = 0u - slo - sticky;
    let borrow = select(0u, 1u, slo != 0u || sticky != 0u);
    let hi = am - shi - borrow;
    if (hi == 0u && lo == 0u) {
        return Scalar(FRAC_ZERO, SENTINEL_EXP);
    }
    return pack_wide(an, hi, lo, ae);
}

fn mul_normal(a: Scalar, b: Scalar) -> Scalar {
    let w = mul_wide(u32(abs(a.frac)), u32(abs(b.frac)));
    let mag = (w.x << u32(32 - FRAC_BITS + 1)) | (w.y >> u32(FRAC_BITS - 1));
    return pack_normal(is_neg(a) != is_neg(b), mag, a.exp + b.exp + (FRAC_BITS - 1));
}

fn scalar_add(a: Scalar, b: Scalar) -> Scalar {
    let ca = classify(a);
    let cb = classify(b);
    if (ca == CLASS_UNDEFINED) {
        return canon_undefined(a);
    }
    if (cb == CLASS_UNDEFINED) {
        return canon_undefined(b);
    }
    if (ca == CLASS_ZERO) {
        return b;
    }
    if (cb == CLASS_ZERO) {
        return a;
    }
    if (ca == CLASS_INFINITE) {
        if (cb == CLASS_INFINITE && is_neg(a) != is_neg(b)) {
            return make_undefined(UNDEF_INF_MINUS_INF);
        }
        return a;
    }
    if (cb == CLASS_INFINITE) {
        return b;
    }
    if (ca == CLASS_VANISHED && cb == CLASS_VANISHED) {
        if (is_neg(a) != is_neg(b)) {
            return make_undefined(UNDEF_VANISHED_MINUS_VANISHED);
        }
        return a;
    }
    if (ca == CLASS_VANISHED) {
        return b;
    }
    if (cb == CLASS_VANISHED) {
        return a;
    }
    return add_normal(a, b);
}

fn scalar_mul(a: Scalar, b: Scalar) -> Scalar {
    let ca = classify(a);
    let cb = classify(b);
    if (ca == CLASS_UNDEFINED) {
        return canon_undefined(a);
    }
    if (cb == CLASS_UNDEFINED) {
        return canon_undefined(b);
    }
    if (ca == CLASS_ZERO || cb == CLASS_ZERO) {
        if (ca == CLASS_INFINITE || cb == CLASS_INFINITE) {
            return make_undefined(UNDEF_INF_TIMES_ZERO);
        }
        return Scalar(FRAC_ZERO, SENTINEL_EXP);
    }
    if (ca == CLASS_INFINITE || cb == CLASS_INFINITE) {
        if (ca == CLASS_VANISHED || cb == CLASS_VANISHED) {
            return make_undefined(UNDEF_INF_TIMES_VANISHED);
        }
        return signed_sentinel(is_neg(a) != is_neg(b), FRAC_INFINITE);
    }
    if (ca == CLASS_VANISHED || cb == CLASS_VANISHED) {
        return signed_sentinel(is_neg(a) != is_neg(b), FRAC_VANISHED);
    }
    return mul_normal(a, b);
}

@compute @workgroup_size({{.WorkgroupSize}}, {{.WorkgroupSize}})
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let row = global_id.y;
    let col = global_id.x;

    if (row >= params.M || col >= params.N) {
        return;
    }

    var acc = Scalar(FRAC_ZERO, SENTINEL_EXP);
    for (var k: u32 = 0u; k < params.K; k = k + 1u) {
        let a_idx = row * params.K + k;
        let b_idx = k * params.N + col;
        let prod = scalar_mul(Scalar(a_frac[a_idx], a_exp[a_idx]), Scalar(b_frac[b_idx], b_exp[b_idx]));
        acc = scalar_add(acc, prod);
    }

    let c_idx = row * params.N + col;
    c_frac[c_idx] = acc.frac;
    c_exp[c_idx] = acc.exp;
}
`

var renderWGSL = sync.OnceValues(func() (string, error) {
	tmpl, err := template.New("matmul.wgsl").Parse(wgslTemplate)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	err = tmpl.Execute(&sb, struct {
		Constants     []Constant
		WorkgroupSize int
	}{Constants(), WorkgroupSize})
	return sb.String(), err
})

// WGSL returns the Scalar matmul compute shader with the encoding constants
// filled in. Entry point "main", bindings 0-5 are the a/b/c frac and exp
// arrays, binding 6 the {M, K, N, pad} uniform.
func WGSL() string {
	src, err := renderWGSL()
	if err != nil {
		// The template is a compile-time constant; failing to render it is a
		// programming error.
		panic(err)
	}
	return src
}
