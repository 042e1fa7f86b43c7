package cutting

import (
	"fmt"
	"math"
	"slices"
)

type greedyPlanner struct {
	maxStockUnits uint
}

// Option configures the greedy planner.
type Option func(*greedyPlanner)

// WithMaxStockUnits caps the number of stock units a single plan may use.
// Zero disables the limit.
func WithMaxStockUnits(n uint) Option {
	return func(p *greedyPlanner) {
		p.maxStockUnits = n
	}
}

// New creates a Planner based on greedy best-fit allocation.
func New(opts ...Option) Planner {
	p := &greedyPlanner{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *greedyPlanner) Plan(req Request) (Plan, error) {
	set, err := NewBinSet(req.StockLength)
	if err != nil {
		return Plan{}, err
	}

	pieces := orderPieces(req.Pieces, req.PreserveOrder)

	var requested uint
	for _, length := range pieces {
		if p.maxStockUnits > 0 && length/req.StockLength > p.maxStockUnits {
			return Plan{}, fmt.Errorf("%w: piece %d needs more than %d stock units", ErrTooManyStockUnits, length, p.maxStockUnits)
		}
		if length > math.MaxUint-requested {
			return Plan{}, fmt.Errorf("%w: requested length", ErrLengthOverflow)
		}
		if err := set.Add(length); err != nil {
			return Plan{}, fmt.Errorf("add piece %d: %w", length, err)
		}
		if p.maxStockUnits > 0 && uint(set.Len()) > p.maxStockUnits {
			return Plan{}, fmt.Errorf("%w: limit is %d", ErrTooManyStockUnits, p.maxStockUnits)
		}
		// TotalStock multiplies the bin count by the stock length.
		if uint(set.Len()) > math.MaxUint/req.StockLength {
			return Plan{}, fmt.Errorf("%w: total stock length", ErrLengthOverflow)
		}
		requested += length
	}

	return buildPlan(set, requested), nil
}

// orderPieces returns a copy of pieces, longest first unless the caller asked
// to keep its own order.
func orderPieces(pieces []uint, preserve bool) []uint {
	out := slices.Clone(pieces)
	if preserve {
		return out
	}
	slices.SortStableFunc(out, func(a, b uint) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		default:
			return 0
		}
	})
	return out
}

func buildPlan(set *BinSet, requested uint) Plan {
	bins := set.Bins()
	plan := Plan{
		StockLength:    set.FixedLength(),
		Bins:           make([]BinResult, 0, len(bins)),
		TotalRequested: requested,
	}
	for i := range bins {
		remaining := bins[i].RemainingLength()
		plan.Bins = append(plan.Bins, BinResult{
			Capacity:  bins[i].Capacity(),
			Pieces:    bins[i].Pieces(),
			Remaining: remaining,
		})
		plan.TotalWaste += remaining
	}
	return plan
}
