package cutting

import "fmt"

// BinSet owns a growing collection of equally sized bins and decides where
// each requested piece is cut from. Bins are only ever appended.
//
// A BinSet is not safe for concurrent use.
type BinSet struct {
	fixedLength uint
	bins        []Bin
}

// NewBinSet creates an empty set for stock units of fixedLength.
func NewBinSet(fixedLength uint) (*BinSet, error) {
	if fixedLength == 0 {
		return nil, ErrInvalidFixedLength
	}
	return &BinSet{fixedLength: fixedLength}, nil
}

// FixedLength returns the stock length every bin is created with.
func (s *BinSet) FixedLength() uint {
	return s.fixedLength
}

// Len returns the number of allocated bins.
func (s *BinSet) Len() int {
	return len(s.bins)
}

// Bins returns a copy of the bins in allocation order.
func (s *BinSet) Bins() []Bin {
	out := make([]Bin, len(s.bins))
	for i := range s.bins {
		out[i] = s.bins[i].clone()
	}
	return out
}

// AllocateFull appends a bin that is consumed entirely by a single piece.
func (s *BinSet) AllocateFull() {
	s.bins = append(s.bins, Bin{
		capacity: s.fixedLength,
		pieces:   []uint{s.fixedLength},
	})
}

// AllocatePartial cuts a piece no longer than the stock length from the bin
// with the tightest fit, or from a new bin when nothing fits. Ties go to the
// earliest allocated bin.
func (s *BinSet) AllocatePartial(length uint) error {
	if length > s.fixedLength {
		return fmt.Errorf("%w: %d > %d", ErrInvalidLength, length, s.fixedLength)
	}

	best := s.bestFit(length)
	if best < 0 {
		bin := newBin(s.fixedLength)
		if err := bin.Cut(length); err != nil {
			return fmt.Errorf("cut new bin: %w", err)
		}
		s.bins = append(s.bins, bin)
		return nil
	}

	if err := s.bins[best].Cut(length); err != nil {
		return fmt.Errorf("cut bin %d: %w", best+1, err)
	}
	return nil
}

// Add distributes one requested length, which may exceed the stock length,
// as zero or more full bins followed by at most one partial allocation.
func (s *BinSet) Add(length uint) error {
	remaining := length
	for remaining >= s.fixedLength {
		s.AllocateFull()
		remaining -= s.fixedLength
	}
	if remaining == 0 {
		return nil
	}
	return s.AllocatePartial(remaining)
}

// bestFit returns the index of the bin with the smallest remaining length
// that can still hold length, or -1.
func (s *BinSet) bestFit(length uint) int {
	best := -1
	var bestRemaining uint
	for i := range s.bins {
		remaining := s.bins[i].RemainingLength()
		if remaining < length {
			continue
		}
		if best < 0 || remaining < bestRemaining {
			best = i
			bestRemaining = remaining
		}
	}
	return best
}
