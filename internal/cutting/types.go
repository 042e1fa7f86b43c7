package cutting

// Request describes one cut list to plan.
type Request struct {
	StockLength uint
	Pieces      []uint
	// PreserveOrder feeds pieces in the given order instead of longest first.
	PreserveOrder bool
}

// BinResult is the read-only view of one stock unit in a finished plan.
type BinResult struct {
	Capacity  uint   `json:"capacity"`
	Pieces    []uint `json:"pieces"`
	Remaining uint   `json:"remaining"`
}

// Plan is the outcome of distributing a cut list over stock units.
// TotalRequested and TotalWaste are derived values kept alongside the bins so
// callers do not have to recompute them for reporting.
type Plan struct {
	StockLength    uint        `json:"stockLength"`
	Bins           []BinResult `json:"bins"`
	TotalRequested uint        `json:"totalRequested"`
	TotalWaste     uint        `json:"totalWaste"`
}

// StockCount returns the number of stock units the plan consumes.
func (p Plan) StockCount() int {
	return len(p.Bins)
}

// TotalStock returns the combined length of all consumed stock units.
func (p Plan) TotalStock() uint {
	return uint(len(p.Bins)) * p.StockLength
}

// Utilization returns the used share of the consumed stock in the range [0, 1].
func (p Plan) Utilization() float64 {
	total := p.TotalStock()
	if total == 0 {
		return 0
	}
	return float64(total-p.TotalWaste) / float64(total)
}

// Clone returns a deep copy of the plan.
func (p Plan) Clone() Plan {
	out := p
	out.Bins = make([]BinResult, len(p.Bins))
	for i, b := range p.Bins {
		pieces := make([]uint, len(b.Pieces))
		copy(pieces, b.Pieces)
		b.Pieces = pieces
		out.Bins[i] = b
	}
	return out
}

// Planner describes the behaviour required from a cut list planner.
type Planner interface {
	Plan(req Request) (Plan, error)
}
