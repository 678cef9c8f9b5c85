package scalar

// tier places s on the total order:
//
//	Undefined < -Infinite < -normal < -Vanished < Zero < +Vanished < +normal < +Infinite
func (s Scalar) tier() int {
	switch s.Class() {
	case ClassUndefined:
		return 0
	case ClassZero:
		return 4
	case ClassInfinite:
		if s.negative() {
			return 1
		}
		return 7
	case ClassVanished:
		if s.negative() {
			return 3
		}
		return 5
	}
	if s.negative() {
		return 2
	}
	return 6
}

// Compare returns -1, 0 or +1 according to the total order of Scalars.
//
// Undefined values sort below everything else, ordered among themselves by
// cause. Two canonical Scalars compare equal if and only if their encodings
// are identical.
func (a Scalar) Compare(b Scalar) int {
	ta, tb := a.tier(), b.tier()
	switch {
	case ta < tb:
		return -1
	case ta > tb:
		return 1
	}
	switch ta {
	case 0:
		return cmp(int64(a.Cause()), int64(b.Cause()))
	case 2, 6:
		c := cmp(int64(a.exp), int64(b.exp))
		if c == 0 {
			_, am := a.magnitude()
			_, bm := b.magnitude()
			c = cmp(int64(am), int64(bm))
		}
		if ta == 2 {
			return -c
		}
		return c
	}
	return 0
}

func cmp(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Less reports whether a sorts before b.
func (a Scalar) Less(b Scalar) bool { return a.Compare(b) < 0 }

// LessEqual reports whether a sorts before or equal to b.
func (a Scalar) LessEqual(b Scalar) bool { return a.Compare(b) <= 0 }

// Greater reports whether a sorts after b.
func (a Scalar) Greater(b Scalar) bool { return a.Compare(b) > 0 }

// Equal reports whether a and b are equal in the total order.
func (a Scalar) Equal(b Scalar) bool { return a.Compare(b) == 0 }

// Max returns the larger of a and b in the total order, preferring a on ties.
func Max(a, b Scalar) Scalar {
	if b.Greater(a) {
		return b
	}
	return a
}

// Min returns the smaller of a and b in the total order, preferring a on ties.
func Min(a, b Scalar) Scalar {
	if b.Less(a) {
		return b
	}
	return a
}
