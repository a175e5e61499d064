package infra

// pdf.go — Cash cut report generation using go-pdf/fpdf.
// Generates A7-size thermal receipt-style reports with:
//   - Branch header
//   - Shift window and employee
//   - Sales breakdown by payment method
//   - Movement totals (expenses, deposits, withdrawals)
//   - Expected vs counted cash and the difference
//
// The output file is saved to storagePath/corte_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"syapos/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateCashCutPDF renders the reconciliation report for a frozen cash cut.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateCashCutPDF(cut *model.CashCut, employeeName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("corte_%d.pdf", cut.ID)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm, close to thermal receipt paper (custom size, "A7" is not in fpdf's named list)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "SyaPOS", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Corte de Caja", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Shift info ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, employeeName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Inicio  %s", cut.StartTime.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Cierre  %s", cut.EndTime.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Figures ───────────────────────────────────────────────────────────────
	colL := contentW * 0.62
	colR := contentW * 0.38

	row := func(label, value string) {
		pdf.CellFormat(colL, 4.5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(colR, 4.5, value, "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 7)
	row("Fondo inicial:", "$"+cut.InitialAmount.StringFixed(2))
	row("Ventas efectivo:", "$"+cut.CashSales.StringFixed(2))
	row("Ventas tarjeta:", "$"+cut.CardSales.StringFixed(2))
	row("Ventas credito:", "$"+cut.CreditSales.StringFixed(2))
	row("Abonos en efectivo:", "$"+cut.CashPayments.StringFixed(2))
	row("Depositos:", "$"+cut.Deposits.StringFixed(2))
	row("Gastos:", "-$"+cut.Expenses.StringFixed(2))
	row("Retiros:", "-$"+cut.Withdrawals.StringFixed(2))

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", 9)
	row("ESPERADO EN CAJA:", "$"+cut.ExpectedCashInDrawer.StringFixed(2))

	if cut.CountedCash != nil {
		pdf.SetFont("Helvetica", "", 8)
		row("Contado:", "$"+cut.CountedCash.StringFixed(2))
	}
	if cut.Difference != nil {
		pdf.SetFont("Helvetica", "B", 8)
		row("Diferencia:", "$"+cut.Difference.StringFixed(2))
	}

	if cut.Notes != nil && *cut.Notes != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.MultiCell(contentW, 4, *cut.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
