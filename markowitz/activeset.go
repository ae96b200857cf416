// SPDX-License-Identifier: MIT

package markowitz

// activeSet is a fixed-capacity set of variable indices kept in ascending
// order. Positional access (the i-th member) is how both solving stages walk
// the IN and OUT partitions, and the fixed order is what makes every
// "last scanned candidate wins" tie-break deterministic.
//
// Sizes stay in the low hundreds, so linear insert/remove/find is fine.
type activeSet struct {
	items []int
}

// newActiveSet allocates an empty set able to hold capacity indices.
func newActiveSet(capacity int) *activeSet {
	return &activeSet{items: make([]int, 0, capacity)}
}

// Len returns the number of members.
func (s *activeSet) Len() int { return len(s.items) }

// At returns the i-th smallest member.
func (s *activeSet) At(i int) int { return s.items[i] }

// Add inserts x keeping ascending order. Adding a member twice is a no-op.
// Panics when the set is full.
func (s *activeSet) Add(x int) {
	pos := len(s.items)
	for i, v := range s.items {
		if v == x {
			return
		}
		if v > x {
			pos = i
			break
		}
	}
	if len(s.items) == cap(s.items) {
		panic("markowitz: activeSet capacity exceeded")
	}
	s.items = s.items[:len(s.items)+1]
	copy(s.items[pos+1:], s.items[pos:])
	s.items[pos] = x
}

// Remove deletes x and reports whether it was present.
func (s *activeSet) Remove(x int) bool {
	i := s.Find(x)
	if i < 0 {
		return false
	}
	s.RemoveAt(i)

	return true
}

// RemoveAt deletes the i-th member, shifting the tail left.
func (s *activeSet) RemoveAt(i int) {
	copy(s.items[i:], s.items[i+1:])
	s.items = s.items[:len(s.items)-1]
}

// Find returns the position of x, or -1 when absent.
func (s *activeSet) Find(x int) int {
	for i, v := range s.items {
		if v == x {
			return i
		}
		if v > x {
			break
		}
	}

	return -1
}

// Members returns a copy of the members in ascending order.
func (s *activeSet) Members() []int {
	out := make([]int, len(s.items))
	copy(out, s.items)

	return out
}
