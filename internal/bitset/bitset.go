// Package bitset provides the candidate-value set used by the solver.
// A Mask holds up to 128 values (1..128) in two machine words, enough for
// grids up to order 11 (121 values per cell).
package bitset

import (
	"math/bits"
	"strconv"
	"strings"
)

// Mask is a set of values in 1..128. The zero Mask is the empty set.
// Masks are small value types and compare with ==.
type Mask struct {
	lo, hi uint64
}

// From returns the singleton set {v}. v must be in 1..128.
func From(v int) Mask {
	if v <= 64 {
		return Mask{lo: 1 << (v - 1)}
	}
	return Mask{hi: 1 << (v - 65)}
}

// Full returns the set {1..n}. n must be in 0..128.
func Full(n int) Mask {
	if n <= 0 {
		return Mask{}
	}
	if n <= 64 {
		if n == 64 {
			return Mask{lo: ^uint64(0)}
		}
		return Mask{lo: 1<<n - 1}
	}
	if n == 128 {
		return Mask{lo: ^uint64(0), hi: ^uint64(0)}
	}
	return Mask{lo: ^uint64(0), hi: 1<<(n-64) - 1}
}

// Contains reports whether v is in the set.
func (m Mask) Contains(v int) bool {
	if v <= 64 {
		return m.lo&(1<<(v-1)) != 0
	}
	return m.hi&(1<<(v-65)) != 0
}

// With returns m ∪ {v}.
func (m Mask) With(v int) Mask {
	if v <= 64 {
		m.lo |= 1 << (v - 1)
	} else {
		m.hi |= 1 << (v - 65)
	}
	return m
}

// Without returns m ∖ {v}.
func (m Mask) Without(v int) Mask {
	if v <= 64 {
		m.lo &^= 1 << (v - 1)
	} else {
		m.hi &^= 1 << (v - 65)
	}
	return m
}

// Union returns m ∪ o.
func (m Mask) Union(o Mask) Mask {
	return Mask{lo: m.lo | o.lo, hi: m.hi | o.hi}
}

// Intersect returns m ∩ o.
func (m Mask) Intersect(o Mask) Mask {
	return Mask{lo: m.lo & o.lo, hi: m.hi & o.hi}
}

// Diff returns m ∖ o.
func (m Mask) Diff(o Mask) Mask {
	return Mask{lo: m.lo &^ o.lo, hi: m.hi &^ o.hi}
}

// Count returns the number of values in the set.
func (m Mask) Count() int {
	return bits.OnesCount64(m.lo) + bits.OnesCount64(m.hi)
}

// IsEmpty reports whether the set is empty.
func (m Mask) IsEmpty() bool {
	return m.lo == 0 && m.hi == 0
}

// IsSingleton reports whether the set holds exactly one value.
func (m Mask) IsSingleton() bool {
	if m.hi == 0 {
		return m.lo != 0 && m.lo&(m.lo-1) == 0
	}
	return m.lo == 0 && m.hi&(m.hi-1) == 0
}

// Min returns the smallest value in the set, or 0 if the set is empty.
func (m Mask) Min() int {
	if m.lo != 0 {
		return bits.TrailingZeros64(m.lo) + 1
	}
	if m.hi != 0 {
		return bits.TrailingZeros64(m.hi) + 65
	}
	return 0
}

// Pop returns the smallest value and the set with that value removed.
// Pop on the empty set returns (0, empty).
func (m Mask) Pop() (int, Mask) {
	if m.lo != 0 {
		v := bits.TrailingZeros64(m.lo) + 1
		m.lo &= m.lo - 1
		return v, m
	}
	if m.hi != 0 {
		v := bits.TrailingZeros64(m.hi) + 65
		m.hi &= m.hi - 1
		return v, m
	}
	return 0, m
}

// ForEach calls fn for every value in ascending order.
func (m Mask) ForEach(fn func(v int)) {
	for w := m.lo; w != 0; w &= w - 1 {
		fn(bits.TrailingZeros64(w) + 1)
	}
	for w := m.hi; w != 0; w &= w - 1 {
		fn(bits.TrailingZeros64(w) + 65)
	}
}

// String renders the set as {v1 v2 ...} for debugging.
func (m Mask) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	m.ForEach(func(v int) {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		b.WriteString(strconv.Itoa(v))
	})
	b.WriteByte('}')
	return b.String()
}
