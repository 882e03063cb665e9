package emu

import "sort"

// WordBytes is the size of one memory word in bytes. Only byte addresses
// that are multiples of WordBytes are valid.
const WordBytes = 8

// Memory is a sparse, word-addressable 64-bit store. It is keyed
// internally by word slot (byte address / 8) and holds only non-zero
// words: writing zero to a slot removes it.
type Memory struct {
	words map[uint64]uint64
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{words: make(map[uint64]uint64)}
}

// Read returns the word at a byte address, or 0 for a never-written slot.
// A misaligned address fails with an AlignmentError.
func (m *Memory) Read(byteAddr uint64) (uint64, error) {
	if byteAddr%WordBytes != 0 {
		return 0, &AlignmentError{Addr: byteAddr}
	}
	return m.words[byteAddr/WordBytes], nil
}

// Write stores a word at a byte address. Writing 0 removes the slot, so
// only non-zero words occupy the mapping. A misaligned address fails with
// an AlignmentError.
func (m *Memory) Write(byteAddr uint64, value uint64) error {
	if byteAddr%WordBytes != 0 {
		return &AlignmentError{Addr: byteAddr}
	}

	slot := byteAddr / WordBytes
	if value == 0 {
		delete(m.words, slot)
	} else {
		m.words[slot] = value
	}
	return nil
}

// Peek returns the word at a byte address without the possibility of
// failure; ok is false when the address is misaligned. It backs the
// evaluated-effect reflection queries, which must mirror execution's
// alignment checking without erroring.
func (m *Memory) Peek(byteAddr uint64) (uint64, bool) {
	if byteAddr%WordBytes != 0 {
		return 0, false
	}
	return m.words[byteAddr/WordBytes], true
}

// Used returns the occupied word slots (not byte addresses), in no
// particular order.
func (m *Memory) Used() []uint64 {
	slots := make([]uint64, 0, len(m.words))
	for slot := range m.words {
		slots = append(slots, slot)
	}
	return slots
}

// Range is a half-open interval [Start, End) of word slots.
type Range struct {
	Start uint64
	End   uint64
}

// ContextRanges returns the minimal ascending list of disjoint slot ranges
// covering every occupied slot, every extra point of interest, and every
// slot within the given radius of either. Windows that touch or overlap
// are merged; expansion saturates at the ends of the address space.
func (m *Memory) ContextRanges(around uint64, extras []uint64) []Range {
	points := m.Used()
	points = append(points, extras...)
	if len(points) == 0 {
		return nil
	}

	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })

	var result []Range
	cur := window(points[0], around)

	for _, p := range points[1:] {
		w := window(p, around)
		if w.Start <= cur.End {
			if w.End > cur.End {
				cur.End = w.End
			}
			continue
		}
		result = append(result, cur)
		cur = w
	}

	return append(result, cur)
}

// window is the radius-around interval of one slot, saturating rather
// than wrapping at the edges of the slot space.
func window(slot, around uint64) Range {
	start := slot - around
	if start > slot {
		start = 0
	}
	end := slot + around + 1
	if end <= slot {
		end = ^uint64(0)
	}
	return Range{Start: start, End: end}
}
