package editor

import "github.com/zjrosen/maskedit/internal/mask"

// moveTo places the cursor at pos. With extend set, the anchor is fixed at
// the pre-move cursor unless a selection already exists.
func (e *Editor) moveTo(pos int, extend bool) {
	if extend {
		if !e.selecting {
			e.anchor = e.cursor
			e.selecting = true
		}
		e.cursor = pos
		return
	}
	e.cursor = pos
	e.clearSelection()
}

// target computes where a movement lands. Literal positions are skipped
// except at the buffer boundaries.
func (e *Editor) target(dir Direction) int {
	n := e.buf.Len()
	cur := e.cursor
	switch dir {
	case Left:
		p := cur - 1
		for p > 0 && !e.layout.Fillable(p) {
			p--
		}
		return max(p, 0)
	case Right:
		p := cur + 1
		for p < n && !e.layout.Fillable(p) {
			p++
		}
		return min(p, n)
	case Home:
		return e.home()
	case End:
		return n
	case FieldStart:
		if f, ok := e.fieldNear(cur); ok {
			return firstSlot(f)
		}
		return cur
	case FieldEnd:
		if f, ok := e.fieldNear(cur); ok {
			return lastSlot(f) + 1
		}
		return cur
	case WordRight:
		for i := 0; i < e.layout.NumSubFields(); i++ {
			if start := firstSlot(e.layout.SubField(i)); start > cur {
				return start
			}
		}
		return n
	case WordLeft:
		best := 0
		for i := 0; i < e.layout.NumSubFields(); i++ {
			if start := firstSlot(e.layout.SubField(i)); start < cur {
				best = start
			}
		}
		return best
	case NextFillable:
		if p := e.layout.NextFillable(cur + 1); p >= 0 {
			return p
		}
		return cur
	case PrevFillable:
		if p := e.layout.PrevFillable(cur - 1); p >= 0 {
			return p
		}
		return cur
	}
	return cur
}

func firstSlot(f mask.SubField) int {
	if slots := f.Slots(); len(slots) > 0 {
		return slots[0]
	}
	return f.Range.Start
}

func lastSlot(f mask.SubField) int {
	if slots := f.Slots(); len(slots) > 0 {
		return slots[len(slots)-1]
	}
	return f.Range.End - 1
}
