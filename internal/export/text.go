// Package export renders cut plans as plain text, PDF cut diagrams and Excel
// workbooks.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/eugenenazirov/molding-cutter/internal/cutting"
)

// ErrEmptyPlan is returned when a document is requested for a plan without stock units.
var ErrEmptyPlan = errors.New("plan has no stock units to export")

// WriteText writes the human readable cut list.
func WriteText(w io.Writer, plan cutting.Plan) error {
	if _, err := fmt.Fprintf(w, "Number of fixed length pieces: %d\n", plan.StockCount()); err != nil {
		return err
	}
	for i, bin := range plan.Bins {
		if _, err := fmt.Fprintf(w, "Piece: %d, capacity=%d, pieces=[%s], remaining=%d\n",
			i+1, bin.Capacity, joinLengths(bin.Pieces, ", "), bin.Remaining); err != nil {
			return err
		}
	}
	if plan.StockCount() > 0 {
		if _, err := fmt.Fprintf(w, "Requested: %d, waste: %d, utilization: %.1f%%\n",
			plan.TotalRequested, plan.TotalWaste, plan.Utilization()*100); err != nil {
			return err
		}
	}
	return nil
}

func joinLengths(lengths []uint, sep string) string {
	parts := make([]string, len(lengths))
	for i, l := range lengths {
		parts[i] = strconv.FormatUint(uint64(l), 10)
	}
	return strings.Join(parts, sep)
}
