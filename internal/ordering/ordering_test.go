package ordering

import (
	"slices"
	"testing"
)

type node struct {
	id    string
	order int
}

func (n *node) GetOrder() int      { return n.order }
func (n *node) SetOrder(order int) { n.order = order }

func nodes(orders ...int) []*node {
	out := make([]*node, len(orders))
	for i, o := range orders {
		out[i] = &node{id: string(rune('a' + i)), order: o}
	}
	return out
}

func ids(seq []*node) []string {
	out := make([]string, len(seq))
	for i, n := range seq {
		out[i] = n.id
	}
	return out
}

func TestReorder_ReturnsOnlyChanged(t *testing.T) {
	seq := nodes(0, 1, 5, 2)

	changed := Reorder(seq)

	if got, want := ids(changed), []string{"c", "d"}; !slices.Equal(got, want) {
		t.Fatalf("changed = %v, want %v", got, want)
	}
	if !IsDense(seq) {
		t.Fatalf("expected dense orders after Reorder, got %d %d %d %d", seq[0].order, seq[1].order, seq[2].order, seq[3].order)
	}
	if again := Reorder(seq); len(again) != 0 {
		t.Fatalf("second Reorder changed %v", ids(again))
	}
}

func TestNextOrder(t *testing.T) {
	if got := NextOrder([]*node(nil)); got != 0 {
		t.Fatalf("NextOrder(empty) = %d, want 0", got)
	}
	if got := NextOrder(nodes(0, 7, 2)); got != 8 {
		t.Fatalf("NextOrder = %d, want 8", got)
	}
}

func TestSortByOrder_Stable(t *testing.T) {
	seq := nodes(2, 0, 2, 1)
	SortByOrder(seq)
	if got, want := ids(seq), []string{"b", "d", "a", "c"}; !slices.Equal(got, want) {
		t.Fatalf("sorted = %v, want %v", got, want)
	}
}

func TestSnapshotIndices(t *testing.T) {
	if got := SnapshotIndices(nil); got != nil {
		t.Fatalf("SnapshotIndices(nil) = %v", got)
	}
	in := []int{4, 1, 4, 0, 1}
	got := SnapshotIndices(in)
	if want := []int{0, 1, 4}; !slices.Equal(got, want) {
		t.Fatalf("SnapshotIndices = %v, want %v", got, want)
	}
	if in[0] != 4 {
		t.Fatalf("input was modified: %v", in)
	}
}

func TestMove(t *testing.T) {
	cases := []struct {
		name   string
		source []int
		dest   int
		want   string
	}{
		{"first to middle", []int{0}, 2, "bac"},
		{"first to end", []int{0}, 3, "bca"},
		{"last to front", []int{2}, 0, "cab"},
		{"same position before", []int{1}, 1, "abc"},
		{"same position after", []int{1}, 2, "abc"},
		{"two to one", []int{0, 2}, 1, "acb"},
		{"dest clamped high", []int{0}, 99, "bca"},
		{"dest clamped low", []int{2}, -4, "cab"},
		{"out of range ignored", []int{7, -1}, 0, "abc"},
		{"duplicates ignored", []int{0, 0}, 3, "bca"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seq := []string{"a", "b", "c"}
			got := Move(seq, tc.source, tc.dest)
			joined := ""
			for _, s := range got {
				joined += s
			}
			if joined != tc.want {
				t.Fatalf("Move(%v, %d) = %q, want %q", tc.source, tc.dest, joined, tc.want)
			}
			if seq[0] != "a" || seq[1] != "b" || seq[2] != "c" {
				t.Fatalf("input modified: %v", seq)
			}
		})
	}
}

func TestMoveThenReorder_Dense(t *testing.T) {
	seq := nodes(0, 1, 2, 3)
	moved := Move(seq, []int{3}, 0)
	changed := Reorder(moved)

	if got, want := ids(moved), []string{"d", "a", "b", "c"}; !slices.Equal(got, want) {
		t.Fatalf("moved = %v, want %v", got, want)
	}
	if len(changed) != 4 {
		t.Fatalf("changed %d members, want 4", len(changed))
	}
	if !IsDense(moved) {
		t.Fatalf("orders not dense after move")
	}
}
