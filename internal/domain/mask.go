package domain

import (
	"math/bits"
	"strings"
)

// CardMask is a 106-bit card set stored as two fixed-width words. Bit i of
// the concatenated value corresponds to card slot i: Lo covers ids 0..63 and
// Hi covers ids 64..105. Masks are plain values; all operations return new
// masks and never mutate the receiver.
type CardMask struct {
	Hi uint64
	Lo uint64
}

// MaskOf builds a mask containing exactly the given card ids.
func MaskOf(cards ...CardID) CardMask {
	var m CardMask
	for _, id := range cards {
		m = m.With(id)
	}
	return m
}

// With returns the mask with the given card added.
func (m CardMask) With(id CardID) CardMask {
	if id < 64 {
		m.Lo |= 1 << id
	} else {
		m.Hi |= 1 << (id - 64)
	}
	return m
}

// Without returns the mask with the given card removed.
func (m CardMask) Without(id CardID) CardMask {
	if id < 64 {
		m.Lo &^= 1 << id
	} else {
		m.Hi &^= 1 << (id - 64)
	}
	return m
}

// Has reports whether the card is present.
func (m CardMask) Has(id CardID) bool {
	if id < 64 {
		return m.Lo&(1<<id) != 0
	}
	return m.Hi&(1<<(id-64)) != 0
}

// Union returns the set union of two masks.
func (m CardMask) Union(o CardMask) CardMask {
	return CardMask{Hi: m.Hi | o.Hi, Lo: m.Lo | o.Lo}
}

// Intersect returns the set intersection of two masks.
func (m CardMask) Intersect(o CardMask) CardMask {
	return CardMask{Hi: m.Hi & o.Hi, Lo: m.Lo & o.Lo}
}

// Diff returns the cards in m that are not in o.
func (m CardMask) Diff(o CardMask) CardMask {
	return CardMask{Hi: m.Hi &^ o.Hi, Lo: m.Lo &^ o.Lo}
}

// Overlaps reports whether the two masks share any card.
func (m CardMask) Overlaps(o CardMask) bool {
	return m.Hi&o.Hi != 0 || m.Lo&o.Lo != 0
}

// ContainsAll reports whether every card of o is present in m.
func (m CardMask) ContainsAll(o CardMask) bool {
	return o.Hi&^m.Hi == 0 && o.Lo&^m.Lo == 0
}

// IsEmpty reports whether no card is present.
func (m CardMask) IsEmpty() bool {
	return m.Hi == 0 && m.Lo == 0
}

// Count returns the number of cards in the set.
func (m CardMask) Count() int {
	return bits.OnesCount64(m.Hi) + bits.OnesCount64(m.Lo)
}

// Less orders masks lexicographically by (Hi, Lo). Used for deterministic
// tie-breaking and stable enumeration order.
func (m CardMask) Less(o CardMask) bool {
	if m.Hi != o.Hi {
		return m.Hi < o.Hi
	}
	return m.Lo < o.Lo
}

// Cards returns the contained ids in ascending order.
func (m CardMask) Cards() []CardID {
	out := make([]CardID, 0, m.Count())
	lo := m.Lo
	for lo != 0 {
		i := bits.TrailingZeros64(lo)
		out = append(out, CardID(i))
		lo &= lo - 1
	}
	hi := m.Hi
	for hi != 0 {
		i := bits.TrailingZeros64(hi)
		out = append(out, CardID(i+64))
		hi &= hi - 1
	}
	return out
}

// Points sums the static point values of the contained cards. Jokers count
// zero, matching their undefined value outside a meld.
func (m CardMask) Points() int {
	total := 0
	for _, id := range m.Cards() {
		total += id.Points()
	}
	return total
}

// String renders the contained card labels separated by spaces.
func (m CardMask) String() string {
	cards := m.Cards()
	labels := make([]string, len(cards))
	for i, id := range cards {
		labels[i] = id.String()
	}
	return strings.Join(labels, " ")
}
