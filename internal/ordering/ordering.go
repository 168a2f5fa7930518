// Package ordering keeps sibling sets densely numbered: every member's
// order equals its index in the set.
package ordering

import "sort"

// Ordered is implemented by entities that carry a sibling position.
type Ordered interface {
	GetOrder() int
	SetOrder(order int)
}

// Reorder assigns order = index to every member of seq, which must be the
// complete sibling set in its desired final order. Only the members whose
// order actually changed are returned, so callers can limit writes.
func Reorder[T Ordered](seq []T) []T {
	var changed []T
	for i, e := range seq {
		if e.GetOrder() != i {
			e.SetOrder(i)
			changed = append(changed, e)
		}
	}
	return changed
}

// NextOrder returns one past the largest order among siblings, or 0 when
// there are none.
func NextOrder[T Ordered](siblings []T) int {
	if len(siblings) == 0 {
		return 0
	}
	max := siblings[0].GetOrder()
	for _, s := range siblings[1:] {
		if o := s.GetOrder(); o > max {
			max = o
		}
	}
	return max + 1
}

// SortByOrder sorts seq in place by ascending order. Ties keep their
// relative position.
func SortByOrder[T Ordered](seq []T) {
	sort.SliceStable(seq, func(i, j int) bool {
		return seq[i].GetOrder() < seq[j].GetOrder()
	})
}

// IsDense reports whether the orders of seq are exactly 0..len(seq)-1 in
// sequence.
func IsDense[T Ordered](seq []T) bool {
	for i, e := range seq {
		if e.GetOrder() != i {
			return false
		}
	}
	return true
}

// SnapshotIndices returns a sorted, de-duplicated copy of indices. Delete
// loops should resolve targets from the snapshot before mutating the
// sequence so that earlier removals don't shift later targets.
func SnapshotIndices(indices []int) []int {
	if len(indices) == 0 {
		return nil
	}
	out := append([]int(nil), indices...)
	sort.Ints(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

// Move returns a new sequence with the elements at the source indices moved
// to dest. The moved elements keep their relative order. dest is an offset
// into the original sequence: elements removed from in front of it pull it
// back, so moving the first of three elements to 2 lands it in the middle.
// Out-of-range and duplicate source indices are ignored; dest is clamped.
func Move[T any](seq []T, source []int, dest int) []T {
	if dest < 0 {
		dest = 0
	}
	if dest > len(seq) {
		dest = len(seq)
	}

	selected := make(map[int]bool, len(source))
	for _, idx := range source {
		if idx >= 0 && idx < len(seq) {
			selected[idx] = true
		}
	}

	moved := make([]T, 0, len(selected))
	rest := make([]T, 0, len(seq)-len(selected))
	insertAt := dest
	for i, e := range seq {
		if selected[i] {
			moved = append(moved, e)
			if i < dest {
				insertAt--
			}
			continue
		}
		rest = append(rest, e)
	}

	out := make([]T, 0, len(seq))
	out = append(out, rest[:insertAt]...)
	out = append(out, moved...)
	out = append(out, rest[insertAt:]...)
	return out
}
