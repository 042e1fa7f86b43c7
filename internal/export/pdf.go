package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/eugenenazirov/molding-cutter/internal/cutting"
)

// pieceColor is an RGB fill for one cut segment.
type pieceColor struct {
	R, G, B int
}

var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	labelWidth   = 22.0
	barHeight    = 9.0
	rowSpacing   = 5.0
)

// WritePDF renders one scaled bar per stock unit, followed by totals.
func WritePDF(w io.Writer, plan cutting.Plan) error {
	if plan.StockCount() == 0 {
		return ErrEmptyPlan
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle("Cut list", true)

	barWidth := pageWidth - marginLeft - marginRight - labelWidth
	scale := barWidth / float64(plan.StockLength)

	y := 0.0
	for i, bin := range plan.Bins {
		if i == 0 || y+barHeight > pageHeight-marginBottom {
			pdf.AddPage()
			renderHeader(pdf, plan)
			y = marginTop + headerHeight + rowSpacing
		}
		renderBin(pdf, bin, i+1, y, scale)
		y += barHeight + rowSpacing
	}

	if y+2*barHeight > pageHeight-marginBottom {
		pdf.AddPage()
		y = marginTop
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginLeft, y)
	summary := fmt.Sprintf("Stock units: %d | Requested: %d mm | Waste: %d mm | Utilization: %.1f%%",
		plan.StockCount(), plan.TotalRequested, plan.TotalWaste, plan.Utilization()*100)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, barHeight, summary, "", 0, "L", false, 0, "")

	if pdf.Err() {
		return fmt.Errorf("render PDF: %w", pdf.Error())
	}
	return pdf.Output(w)
}

func renderHeader(pdf *fpdf.Fpdf, plan cutting.Plan) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Cut list: %d x %d mm stock", plan.StockCount(), plan.StockLength)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")
}

func renderBin(pdf *fpdf.Fpdf, bin cutting.BinResult, num int, y, scale float64) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(labelWidth, barHeight, fmt.Sprintf("#%d", num), "", 0, "L", false, 0, "")

	x := marginLeft + labelWidth

	// stock background, visible where offcut remains
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x, y, float64(bin.Capacity)*scale, barHeight, "FD")

	for i, length := range bin.Pieces {
		width := float64(length) * scale
		if width <= 0 {
			continue
		}
		col := pieceColors[i%len(pieceColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.Rect(x, y, width, barHeight, "FD")

		label := fmt.Sprintf("%d", length)
		if pdf.GetStringWidth(label)+2 < width {
			pdf.SetTextColor(255, 255, 255)
			pdf.SetXY(x, y)
			pdf.CellFormat(width, barHeight, label, "", 0, "C", false, 0, "")
		}
		x += width
	}

	if bin.Remaining > 0 {
		width := float64(bin.Remaining) * scale
		label := fmt.Sprintf("%d", bin.Remaining)
		if pdf.GetStringWidth(label)+2 < width {
			pdf.SetTextColor(80, 80, 80)
			pdf.SetXY(x, y)
			pdf.CellFormat(width, barHeight, label, "", 0, "C", false, 0, "")
		}
	}
	pdf.SetTextColor(0, 0, 0)
}
