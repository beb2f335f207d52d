package grapheme

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSingleGrapheme is returned when a value written to one buffer
	// position is not exactly one grapheme cluster, or would merge with a
	// neighbouring cluster.
	ErrNotSingleGrapheme = errors.New("not a single grapheme cluster")
	// ErrLengthMismatch is returned when a replacement would change the
	// buffer length.
	ErrLengthMismatch = errors.New("replacement length mismatch")
	// ErrOutOfRange is returned for indices or ranges outside the buffer.
	ErrOutOfRange = errors.New("index out of range")
)

// Range is a half-open range [Start, End) of buffer indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Empty reports whether the range holds no index.
func (r Range) Empty() bool {
	return r.Len() == 0
}

// Contains reports whether i lies inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Covers reports whether o lies entirely inside r.
func (r Range) Covers(o Range) bool {
	return o.Start >= r.Start && o.End <= r.End && o.Start <= o.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Buffer is an ordered, fixed-length sequence of grapheme clusters, one per
// index, with a cached index -> display column mapping.
//
// The length is fixed at construction. Every operation replaces clusters in
// place; shifting operations take the range they shift within and pad or
// drop at its edge, so no operation grows or shrinks the buffer.
type Buffer struct {
	clusters []string
	widths   []int
	cols     columnIndex
}

// New creates a buffer holding the given clusters.
// Each entry must be exactly one grapheme cluster that does not merge with
// its neighbours.
func New(clusters []string) (*Buffer, error) {
	b := &Buffer{
		clusters: make([]string, len(clusters)),
		widths:   make([]int, len(clusters)),
	}
	copy(b.clusters, clusters)
	for i, c := range b.clusters {
		if !IsSingle(c) {
			return nil, fmt.Errorf("index %d (%q): %w", i, c, ErrNotSingleGrapheme)
		}
		if i > 0 && Joins(b.clusters[i-1], c) {
			return nil, fmt.Errorf("index %d (%q): %w", i, c, ErrNotSingleGrapheme)
		}
		b.widths[i] = Width(c)
	}
	b.cols = newColumnIndex(b.widths)
	return b, nil
}

// FromString splits s into clusters and builds a buffer from them.
func FromString(s string) (*Buffer, error) {
	return New(Split(s))
}

// Len returns the number of grapheme positions.
func (b *Buffer) Len() int {
	return len(b.clusters)
}

// At returns the cluster at index i, or "" when i is out of range.
func (b *Buffer) At(i int) string {
	if i < 0 || i >= len(b.clusters) {
		return ""
	}
	return b.clusters[i]
}

// Slice returns a copy of the clusters in r.
func (b *Buffer) Slice(r Range) []string {
	if r.Start < 0 || r.End > len(b.clusters) || r.Empty() {
		return nil
	}
	out := make([]string, r.Len())
	copy(out, b.clusters[r.Start:r.End])
	return out
}

// Clusters returns a copy of all clusters.
func (b *Buffer) Clusters() []string {
	return b.Slice(Range{0, len(b.clusters)})
}

// String returns the buffer content as text.
func (b *Buffer) String() string {
	return Join(b.clusters)
}

// Width returns the total display width in columns.
func (b *Buffer) Width() int {
	return b.cols.prefix(len(b.clusters))
}

// Set replaces the cluster at index i.
func (b *Buffer) Set(i int, cluster string) error {
	return b.ReplaceRange(Range{i, i + 1}, []string{cluster})
}

// ReplaceRange overwrites the clusters in r with the given clusters.
// len(clusters) must equal r.Len().
func (b *Buffer) ReplaceRange(r Range, clusters []string) error {
	if err := b.checkRange(r); err != nil {
		return err
	}
	if len(clusters) != r.Len() {
		return fmt.Errorf("range %s, got %d clusters: %w", r, len(clusters), ErrLengthMismatch)
	}
	if err := b.validate(r.Start, clusters); err != nil {
		return err
	}
	for k, c := range clusters {
		b.write(r.Start+k, c)
	}
	return nil
}

// InsertAt writes cluster at index and shifts the clusters in
// [index, within.End-1) one position right. The cluster at within.End-1 is
// dropped. Returns the index following the inserted cluster.
func (b *Buffer) InsertAt(index int, cluster string, within Range) (int, error) {
	if err := b.checkRange(within); err != nil {
		return index, err
	}
	if !within.Contains(index) {
		return index, fmt.Errorf("insert at %d outside %s: %w", index, within, ErrOutOfRange)
	}
	next := make([]string, within.End-index)
	next[0] = cluster
	copy(next[1:], b.clusters[index:within.End-1])
	if err := b.validate(index, next); err != nil {
		return index, err
	}
	for k, c := range next {
		b.write(index+k, c)
	}
	return index + 1, nil
}

// DeleteRange removes the clusters in r and shifts the rest of within left to
// close the gap, padding the tail of within with blank.
func (b *Buffer) DeleteRange(r Range, within Range, blank string) error {
	if err := b.checkRange(within); err != nil {
		return err
	}
	if !within.Covers(r) {
		return fmt.Errorf("delete %s outside %s: %w", r, within, ErrOutOfRange)
	}
	if r.Empty() {
		return nil
	}
	next := make([]string, 0, within.End-r.Start)
	next = append(next, b.clusters[r.End:within.End]...)
	for len(next) < within.End-r.Start {
		next = append(next, blank)
	}
	if err := b.validate(r.Start, next); err != nil {
		return err
	}
	for k, c := range next {
		b.write(r.Start+k, c)
	}
	return nil
}

// DisplayColumn returns the display column at which index i starts.
// DisplayColumn(Len()) is the total width.
func (b *Buffer) DisplayColumn(i int) int {
	if i <= 0 {
		return 0
	}
	if i > len(b.clusters) {
		i = len(b.clusters)
	}
	return b.cols.prefix(i)
}

// IndexAtColumn returns the index of the cluster covering display column col.
// A column inside a wide cluster resolves to that cluster's leading edge.
// Columns at or past the total width map to Len().
func (b *Buffer) IndexAtColumn(col int) int {
	if col <= 0 {
		return b.cols.search(0)
	}
	return b.cols.search(col)
}

// Clone returns an independent copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{
		clusters: make([]string, len(b.clusters)),
		widths:   make([]int, len(b.widths)),
		cols:     b.cols.clone(),
	}
	copy(c.clusters, b.clusters)
	copy(c.widths, b.widths)
	return c
}

func (b *Buffer) write(i int, c string) {
	if b.clusters[i] == c {
		return
	}
	w := Width(c)
	b.cols.add(i, w-b.widths[i])
	b.widths[i] = w
	b.clusters[i] = c
}

func (b *Buffer) checkRange(r Range) error {
	if r.Start < 0 || r.End > len(b.clusters) || r.Start > r.End {
		return fmt.Errorf("range %s in buffer of %d: %w", r, len(b.clusters), ErrOutOfRange)
	}
	return nil
}

// validate checks that clusters written from start keep every position a
// single cluster, including at both edges of the written region.
func (b *Buffer) validate(start int, clusters []string) error {
	prev := b.At(start - 1)
	for k, c := range clusters {
		if !IsSingle(c) || Joins(prev, c) {
			return fmt.Errorf("index %d (%q): %w", start+k, c, ErrNotSingleGrapheme)
		}
		prev = c
	}
	if after := b.At(start + len(clusters)); Joins(prev, after) {
		return fmt.Errorf("index %d (%q): %w", start+len(clusters), after, ErrNotSingleGrapheme)
	}
	return nil
}
