package grapheme

// columnIndex is a Fenwick tree over per-cluster display widths.
// It answers "column of index i" and "index at column c" in O(log n) and
// absorbs a width change at one index in O(log n).
type columnIndex struct {
	tree []int // 1-based
	n    int
}

func newColumnIndex(widths []int) columnIndex {
	n := len(widths)
	ci := columnIndex{tree: make([]int, n+1), n: n}
	for i, w := range widths {
		ci.tree[i+1] += w
		if parent := (i + 1) + ((i + 1) & -(i + 1)); parent <= n {
			ci.tree[parent] += ci.tree[i+1]
		}
	}
	return ci
}

// add adds delta to the width stored at index i (0-based).
func (ci *columnIndex) add(i, delta int) {
	if delta == 0 {
		return
	}
	for k := i + 1; k <= ci.n; k += k & -k {
		ci.tree[k] += delta
	}
}

// prefix returns the sum of widths in [0, i).
func (ci *columnIndex) prefix(i int) int {
	sum := 0
	for k := i; k > 0; k -= k & -k {
		sum += ci.tree[k]
	}
	return sum
}

// search returns the largest k with prefix(k) <= col.
// Widths are never negative, so prefix is monotonic.
func (ci *columnIndex) search(col int) int {
	pos := 0
	step := 1
	for step*2 <= ci.n {
		step *= 2
	}
	for ; step > 0; step /= 2 {
		if next := pos + step; next <= ci.n && ci.tree[next] <= col {
			pos = next
			col -= ci.tree[next]
		}
	}
	return pos
}

func (ci columnIndex) clone() columnIndex {
	tree := make([]int, len(ci.tree))
	copy(tree, ci.tree)
	return columnIndex{tree: tree, n: ci.n}
}
