package scalar

import (
	"encoding/binary"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// EncodedSize is the width of the binary encoding: frac then exp, both
// little-endian int32.
const EncodedSize = 8

// ErrSyntax is returned by Parse for text that is not a Scalar.
var ErrSyntax = errors.New("scalar: invalid syntax")

const (
	textPosInf      = "+inf"
	textNegInf      = "-inf"
	textPosVanished = "+vanished"
	textNegVanished = "-vanished"
	textUndefined   = "undefined("

	// Beyond this exponent normals are rendered with a hexadecimal mantissa
	// and binary exponent; decimal expansion would take O(|exp|) digits.
	decimalExpLimit = 4096
)

// String renders s. Each exceptional state has its own spelling so the
// originating contradiction stays visible, e.g. "undefined(0/0)" and
// "undefined(inf-inf)". Normal values use the shortest decimal that parses
// back to the same Scalar.
func (s Scalar) String() string {
	switch s.Class() {
	case ClassZero:
		return "0"
	case ClassInfinite:
		if s.negative() {
			return textNegInf
		}
		return textPosInf
	case ClassVanished:
		if s.negative() {
			return textNegVanished
		}
		return textPosVanished
	case ClassUndefined:
		return textUndefined + s.Cause().String() + ")"
	}
	f, _ := s.Big()
	if s.exp < -decimalExpLimit || s.exp > decimalExpLimit {
		return f.Text('p', 0)
	}
	return f.Text('g', -1)
}

// Parse is the inverse of String. Decimal and hexadecimal ("0x.8p+3") input
// is rounded to the nearest value with FracBits of precision.
func Parse(text string) (Scalar, error) {
	text = strings.TrimSpace(text)
	switch text {
	case textPosInf, "inf":
		return PositiveInfinite, nil
	case textNegInf:
		return NegativeInfinite, nil
	case textPosVanished, "vanished":
		return PositiveVanished, nil
	case textNegVanished:
		return NegativeVanished, nil
	}
	if name, ok := strings.CutPrefix(text, textUndefined); ok {
		name, ok = strings.CutSuffix(name, ")")
		if ok {
			for _, c := range Causes() {
				if c.String() == name {
					return Undefined(c), nil
				}
			}
		}
		return Undefined(Malformed), errors.Wrapf(ErrSyntax, "unknown undefined cause in %q", text)
	}
	f, _, err := big.ParseFloat(text, 0, FracBits, big.ToNearestEven)
	if err != nil {
		return Undefined(Malformed), errors.Wrapf(ErrSyntax, "parsing %q: %v", text, err)
	}
	return FromBig(f), nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(text string) Scalar {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (s Scalar) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scalar) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Bits returns the 64-bit encoding of s: frac in the low word, exp in the high word.
func (s Scalar) Bits() uint64 {
	return uint64(uint32(s.exp))<<32 | uint64(uint32(s.frac))
}

// FromBits is the inverse of Bits.
func FromBits(b uint64) Scalar {
	return Scalar{frac: int32(uint32(b)), exp: int32(uint32(b >> 32))}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s Scalar) MarshalBinary() ([]byte, error) {
	buf := make([]byte, EncodedSize)
	binary.LittleEndian.PutUint64(buf, s.Bits())
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Malformed patterns
// are accepted and classify as Undefined(Malformed).
func (s *Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != EncodedSize {
		return errors.Errorf("scalar: binary encoding must be %d bytes, got %d", EncodedSize, len(data))
	}
	*s = FromBits(binary.LittleEndian.Uint64(data))
	return nil
}
