package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// VTime defines a point or a duration on the simulated timeline. It is a
// fixed-point count of ticks, so comparisons and additions are exact.
type VTime uint64

const (
	// Zero is the start of the simulated timeline.
	Zero VTime = 0

	// Infinity marks a time that is never reached. A model whose time
	// advance is Infinity is passive.
	Infinity VTime = math.MaxUint64
)

// IsInfinite returns true if the time is the Infinity sentinel.
func (t VTime) IsInfinite() bool {
	return t == Infinity
}

// Add returns t + d. The result saturates at Infinity.
func (t VTime) Add(d VTime) VTime {
	if t == Infinity || d == Infinity {
		return Infinity
	}

	if t > Infinity-d {
		return Infinity
	}

	return t + d
}

// Sub returns the duration from u to t. Subtracting a later time is a
// programming error and panics. Infinity minus any finite time is Infinity.
func (t VTime) Sub(u VTime) VTime {
	if u > t {
		panic(fmt.Sprintf("sim: cannot subtract %s from %s", u, t))
	}

	if t == Infinity {
		return Infinity
	}

	return t - u
}

// String prints the number of ticks, or "inf".
func (t VTime) String() string {
	if t == Infinity {
		return "inf"
	}

	return strconv.FormatUint(uint64(t), 10)
}

// ParseVTime parses a decimal tick count or the word "inf".
func ParseVTime(s string) (VTime, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "inf") || strings.EqualFold(s, "infinity") {
		return Infinity, nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sim: invalid time %q: %w", s, err)
	}

	return VTime(v), nil
}

// MinVTime returns the earlier of two times.
func MinVTime(a, b VTime) VTime {
	if a < b {
		return a
	}

	return b
}
