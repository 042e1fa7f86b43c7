package cutting

// Bin is a single stock unit and the pieces already cut from it.
type Bin struct {
	capacity uint
	pieces   []uint
}

func newBin(capacity uint) Bin {
	return Bin{capacity: capacity}
}

// Capacity returns the total length of the stock unit.
func (b *Bin) Capacity() uint {
	return b.capacity
}

// Pieces returns a copy of the cut lengths in cut order.
func (b *Bin) Pieces() []uint {
	out := make([]uint, len(b.pieces))
	copy(out, b.pieces)
	return out
}

// Used returns the total length already cut from the bin.
func (b *Bin) Used() uint {
	var used uint
	for _, p := range b.pieces {
		used += p
	}
	return used
}

// RemainingLength returns the usable length left in the bin.
func (b *Bin) RemainingLength() uint {
	return b.capacity - b.Used()
}

// Cut records a piece of the given length. The bin is left untouched when the
// piece does not fit. Zero-length pieces are accepted.
func (b *Bin) Cut(length uint) error {
	if length > b.RemainingLength() {
		return ErrInsufficientLength
	}
	b.pieces = append(b.pieces, length)
	return nil
}

func (b *Bin) clone() Bin {
	return Bin{capacity: b.capacity, pieces: b.Pieces()}
}
