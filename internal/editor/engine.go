package editor

import (
	"fmt"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/zjrosen/maskedit/internal/grapheme"
	"github.com/zjrosen/maskedit/internal/mask"
)

// insert implements InsertChar.
func (e *Editor) insert(tx *txn, cluster string) error {
	if !grapheme.IsSingle(cluster) {
		return invalidChar(cluster, e.cursor)
	}
	cluster = norm.NFC.String(cluster)

	if _, ok := e.Selection(); ok {
		e.deleteSelection(tx)
	} else {
		e.clearSelection()
	}

	if isMark(cluster) {
		return e.combine(tx, cluster)
	}

	if neg, ok := e.sym.IsSign(cluster); ok {
		if f, found := e.fieldNear(e.cursor); found && f.Sign >= 0 {
			e.setSign(tx, f, neg, true)
			return nil
		}
	}

	pos := e.cursor
	if run, i, ok := e.integerRunAt(pos); ok {
		if value, ok := e.acceptDigit(run, cluster); ok && e.insertInteger(tx, run, i, value) {
			return nil
		}
	}

	n := e.buf.Len()
	if pos >= n || !e.layout.Fillable(pos) {
		if pos < n && e.literalMatches(tx, pos, cluster) {
			e.cursor = e.skipLiterals(e.sectionEnd(pos))
			return nil
		}
		next := e.layout.NextFillable(pos)
		if next < 0 {
			return fmt.Errorf("%w: cursor %d", ErrSectionFull, pos)
		}
		pos = next
	}

	sec, _ := e.layout.SectionAt(pos)
	if sec.Class == mask.SignMarker {
		// Non-sign input on a sign slot goes to the slot after it.
		if next := e.layout.NextFillable(pos + 1); next >= 0 {
			if f, ok := e.layout.SubFieldAt(pos); ok && f.Range.Contains(next) {
				pos = next
				sec, _ = e.layout.SectionAt(pos)
			}
		}
	}

	value, ok := sec.Accept(cluster, e.sym)
	if !ok {
		if e.literalBehind(tx, pos, cluster) {
			// Typing a literal that was auto-skipped is a no-op.
			return nil
		}
		if lit := e.literalAhead(tx, pos, cluster); lit >= 0 {
			e.cursor = e.skipLiterals(e.sectionEnd(lit))
			return nil
		}
		return invalidChar(cluster, pos)
	}

	if run, i, ok := e.integerRunAt(pos); ok && i < len(run) && e.insertInteger(tx, run, i, value) {
		return nil
	}
	e.write(tx, pos, value)
	e.cursor = e.skipLiterals(pos + 1)
	return nil
}

// integerRunAt returns the integer digit positions of the numeric sub-field
// the cursor pos edits, and the slot index of pos in them. pos may also be
// the position just past the run (its end), reported as len(run), unless
// that position is a slot of another sub-field.
func (e *Editor) integerRunAt(pos int) ([]int, int, bool) {
	if f, ok := e.layout.SubFieldAt(pos); ok && f.Kind == mask.NumericField {
		if i := indexOf(f.IntDigits, pos); i >= 0 {
			return f.IntDigits, i, true
		}
	}
	if pos == 0 {
		return nil, 0, false
	}
	f, ok := e.layout.SubFieldAt(pos - 1)
	if !ok || f.Kind != mask.NumericField || len(f.IntDigits) == 0 || f.IntDigits[len(f.IntDigits)-1] != pos-1 {
		return nil, 0, false
	}
	if other, ok := e.layout.SubFieldAt(pos); ok && other.Index != f.Index {
		return nil, 0, false
	}
	return f.IntDigits, len(f.IntDigits), true
}

func (e *Editor) acceptDigit(run []int, cluster string) (string, bool) {
	sec, _ := e.layout.SectionAt(run[0])
	return sec.Accept(cluster, e.sym)
}

// insertInteger types value into an integer run at slot i. Integer digits
// are entered from the right: while the run has room the digits before the
// cursor move one slot left and the cursor stays put, so the number stays
// right-aligned. A full run shifts the digits from i right instead and
// drops the last one; a full run has nothing to insert at its end.
func (e *Editor) insertInteger(tx *txn, run []int, i int, value string) bool {
	if e.overwrite && i < len(run) {
		tx.set(run[i], value)
		e.cursor = e.afterSlot(tx, run, i+1)
		return true
	}

	var digits []string
	before := 0
	for k, p := range run {
		if c := tx.get(p); c != mask.Blank {
			digits = append(digits, c)
			if k < i {
				before++
			}
		}
	}

	if len(digits) == len(run) {
		if i >= len(run) {
			return false
		}
		for k := len(run) - 1; k > i; k-- {
			tx.set(run[k], tx.get(run[k-1]))
		}
		tx.set(run[i], value)
		e.cursor = e.afterSlot(tx, run, i+1)
		return true
	}

	digits = append(digits[:before], append([]string{value}, digits[before:]...)...)
	offset := len(run) - len(digits)
	for k, p := range run {
		if k < offset {
			tx.set(p, mask.Blank)
		} else {
			tx.set(p, digits[k-offset])
		}
	}
	e.cursor = e.afterSlot(tx, run, offset+before+1)
	return true
}

// afterSlot returns the cursor position for slot k of run. Past the last
// slot the cursor rests at the run's end while the run has room, and skips
// the following literals once it is full.
func (e *Editor) afterSlot(tx *txn, run []int, k int) int {
	if k < len(run) {
		return run[k]
	}
	end := run[len(run)-1] + 1
	for _, p := range run {
		if tx.get(p) == mask.Blank {
			return end
		}
	}
	return e.skipLiterals(end)
}

// write stores value at pos. Outside overwrite mode the characters from pos
// up to the first blank slot of the run shift right to make room; a run
// with no blank slot drops its last digit, and text slots are replaced
// when a shift would put a character into a slot that does not accept it.
func (e *Editor) write(tx *txn, pos int, value string) {
	if e.overwrite {
		tx.set(pos, value)
		return
	}
	run := e.runAt(pos)
	i := indexOf(run, pos)
	if i < 0 {
		tx.set(pos, value)
		return
	}

	sec, _ := e.layout.SectionAt(pos)
	tail := run[i:]
	if b := firstBlank(tx, tail); b >= 0 {
		tail = tail[:b+1]
	} else if !sec.Class.Digit() {
		tx.set(pos, value)
		return
	}
	if !sec.Class.Digit() && !e.shiftFits(tx, tail, 1) {
		tx.set(pos, value)
		return
	}

	for k := len(tail) - 1; k > 0; k-- {
		tx.set(tail[k], tx.get(tail[k-1]))
	}
	tx.set(pos, value)
}

func firstBlank(tx *txn, run []int) int {
	for k, p := range run {
		if tx.get(p) == mask.Blank {
			return k
		}
	}
	return -1
}

// shiftFits reports whether moving the content of run by dir slots keeps
// every character acceptable to the slot it lands in.
func (e *Editor) shiftFits(tx *txn, run []int, dir int) bool {
	for k := range run {
		from := k - dir
		if from < 0 || from >= len(run) {
			continue
		}
		c := tx.get(run[from])
		if c == mask.Blank {
			continue
		}
		sec, _ := e.layout.SectionAt(run[k])
		if _, ok := sec.Accept(c, e.sym); !ok {
			return false
		}
	}
	return true
}

// combine merges a combining mark into the filled cluster before the cursor.
func (e *Editor) combine(tx *txn, mark string) error {
	pos := e.cursor - 1
	if pos < 0 || !e.layout.Fillable(pos) || tx.get(pos) == mask.Blank {
		return invalidChar(mark, e.cursor)
	}
	merged := norm.NFC.String(tx.get(pos) + mark)
	if !grapheme.IsSingle(merged) {
		return invalidChar(mark, pos)
	}
	sec, _ := e.layout.SectionAt(pos)
	value, ok := sec.Accept(merged, e.sym)
	if !ok {
		return invalidChar(mark, pos)
	}
	tx.set(pos, value)
	return nil
}

func isMark(cluster string) bool {
	return unicode.In(grapheme.FirstRune(cluster), unicode.Mn, unicode.Me, unicode.Mc)
}

// setSign sets the sign of a numeric sub-field. With toggle set, typing the
// negative sign on a negative value makes it positive again.
func (e *Editor) setSign(tx *txn, f mask.SubField, negative, toggle bool) {
	sec, _ := e.layout.SectionAt(f.Sign)
	positive := mask.Blank
	if sec.Symbol == "+" {
		positive = e.sym.Positive
	}
	cur := tx.get(f.Sign)
	switch {
	case negative && toggle && cur == e.sym.Negative:
		tx.set(f.Sign, positive)
	case negative:
		tx.set(f.Sign, e.sym.Negative)
	default:
		tx.set(f.Sign, positive)
	}
}

// backspace implements Backspace.
func (e *Editor) backspace(tx *txn) error {
	if _, ok := e.Selection(); ok {
		e.deleteSelection(tx)
		return nil
	}
	e.clearSelection()

	pos := e.cursor - 1
	if pos < 0 {
		return nil
	}
	if !e.layout.Fillable(pos) {
		// Step over the literals; the next backspace deletes.
		if prev := e.layout.PrevFillable(pos); prev >= 0 {
			e.cursor = prev + 1
		} else {
			e.cursor = e.home()
		}
		return nil
	}
	if e.deleteAt(tx, pos) {
		// Digits left of the gap moved right, so the cursor keeps its place.
		return nil
	}
	e.cursor = pos
	return nil
}

// deleteForward implements DeleteForward.
func (e *Editor) deleteForward(tx *txn) error {
	if _, ok := e.Selection(); ok {
		e.deleteSelection(tx)
		return nil
	}
	e.clearSelection()

	pos := e.cursor
	if pos >= e.buf.Len() {
		return nil
	}
	if !e.layout.Fillable(pos) {
		if next := e.layout.NextFillable(pos); next >= 0 {
			e.cursor = next
		}
		return nil
	}
	if e.deleteAt(tx, pos) {
		run, i, _ := e.integerRunAt(pos)
		e.cursor = e.afterSlot(tx, run, i+1)
	}
	return nil
}

// deleteAt blanks pos and closes the gap. In an integer run the digits
// before pos shift right, keeping the number right-aligned, and the result
// is true; any other run shifts its rest left.
func (e *Editor) deleteAt(tx *txn, pos int) bool {
	if run, i, ok := e.integerRunAt(pos); ok && i < len(run) {
		if tx.get(pos) == mask.Blank {
			return false
		}
		for k := i; k > 0; k-- {
			tx.set(run[k], tx.get(run[k-1]))
		}
		tx.set(run[0], mask.Blank)
		return true
	}

	run := e.runAt(pos)
	i := indexOf(run, pos)
	if i < 0 {
		tx.set(pos, mask.Blank)
		return false
	}
	tail := run[i:]
	sec, _ := e.layout.SectionAt(pos)
	if !sec.Class.Digit() && !e.shiftFits(tx, tail, -1) {
		tx.set(pos, mask.Blank)
		return false
	}
	for k := 0; k < len(tail)-1; k++ {
		tx.set(tail[k], tx.get(tail[k+1]))
	}
	tx.set(tail[len(tail)-1], mask.Blank)
	return false
}

// deleteSelection blanks the fillable positions of the selection without
// shifting, collapses the selection and puts the cursor at its start.
func (e *Editor) deleteSelection(tx *txn) {
	r, ok := e.Selection()
	if ok {
		for p := r.Start; p < r.End; p++ {
			if e.layout.Fillable(p) {
				tx.set(p, mask.Blank)
			}
		}
		e.cursor = r.Start
	}
	e.clearSelection()
}

func (e *Editor) blankAll(tx *txn) {
	for p := 0; p < e.buf.Len(); p++ {
		if e.layout.Fillable(p) {
			tx.set(p, mask.Blank)
		}
	}
}

// runAt returns the positions that shift together with pos: the integer or
// fraction digits of a numeric sub-field, or all slots of any other
// sub-field. A sign slot is its own run.
func (e *Editor) runAt(pos int) []int {
	f, ok := e.layout.SubFieldAt(pos)
	if !ok {
		return []int{pos}
	}
	if run, ok := f.Run(pos); ok {
		return run
	}
	return []int{pos}
}

// fieldNear returns the sub-field at pos, or the one just before it when pos
// is on a literal or at the end.
func (e *Editor) fieldNear(pos int) (mask.SubField, bool) {
	if f, ok := e.layout.SubFieldAt(pos); ok {
		return f, true
	}
	if prev := e.layout.PrevFillable(pos - 1); prev >= 0 {
		return e.layout.SubFieldAt(prev)
	}
	return mask.SubField{}, false
}

// literalMatches reports whether typing cluster at the literal position pos
// should skip past the literal section.
func (e *Editor) literalMatches(tx *txn, pos int, cluster string) bool {
	sec, ok := e.layout.SectionAt(pos)
	if !ok || !sec.Class.Skippable() {
		return false
	}
	return tx.get(pos) == cluster || sec.Literal == cluster
}

// literalAhead returns the position of the next skippable literal after pos
// matching cluster, or -1. The search stops at the end of the buffer.
func (e *Editor) literalAhead(tx *txn, pos int, cluster string) int {
	for p := pos + 1; p < e.buf.Len(); p++ {
		if !e.layout.Fillable(p) && e.literalMatches(tx, p, cluster) {
			return p
		}
	}
	return -1
}

// literalBehind reports whether cluster matches one of the literals between
// the previous fillable position and pos.
func (e *Editor) literalBehind(tx *txn, pos int, cluster string) bool {
	for p := pos - 1; p >= 0 && !e.layout.Fillable(p); p-- {
		if e.literalMatches(tx, p, cluster) {
			return true
		}
	}
	return false
}

// skipLiterals moves pos forward over literal positions.
func (e *Editor) skipLiterals(pos int) int {
	for pos < e.buf.Len() && !e.layout.Fillable(pos) {
		pos++
	}
	return pos
}

func (e *Editor) sectionEnd(pos int) int {
	sec, ok := e.layout.SectionAt(pos)
	if !ok {
		return pos
	}
	return sec.Range.End
}

func indexOf(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}
