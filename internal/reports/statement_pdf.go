package reports

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/money"
)

const maxRows = 500

var colW = []float64{22, 26, 34, 70, 30}

// RenderPDF writes st as a one-period A4 statement.
func RenderPDF(w io.Writer, st Statement, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetTitle("Fintrack statement", true)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Fintrack Statement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	last := st.To.AddDate(0, 0, -1)
	pdf.Cell(0, 6, "Period: "+st.From.Format("2006-01-02")+" to "+last.Format("2006-01-02"))
	pdf.Ln(5)
	pdf.Cell(0, 6, "Account: "+st.Owner.Name+" <"+st.Owner.Email+">")
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{60.6, 60.6, 60.6}
	pdf.CellFormat(sumW[0], 10, "Income", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Expense", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Balance", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, formatAmount(st.TotalIncome), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, formatAmount(st.TotalExpense), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, formatAmount(st.Balance()), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	tableHeader(pdf)
	if len(st.Items) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 8, "No transactions in this period", "1", 1, "C", false, 0, "")
	}

	for i, it := range st.Items {
		if i >= maxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, fmt.Sprintf("truncated: %d more rows", len(st.Items)-maxRows), "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
			tableHeader(pdf)
		}

		t := it.Transaction
		pdf.CellFormat(colW[0], 8, strings.ToUpper(string(t.Type)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, t.Timestamp.UTC().Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 8, trimTo(it.Category, 18), "1", 0, "L", false, 0, "")

		x, y := pdf.GetX(), pdf.GetY()
		pdf.MultiCell(colW[3], 8, trimTo(t.Description, 80), "1", "L", false)
		usedH := pdf.GetY() - y
		pdf.SetXY(x+colW[3], y)

		pdf.CellFormat(colW[4], usedH, signedAmount(t.Amount, t.Type), "1", 1, "R", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated "+generatedAt.UTC().Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func tableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(colW[0], 8, "TYPE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW[1], 8, "DATE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW[2], 8, "CATEGORY", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colW[3], 8, "DESCRIPTION", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colW[4], 8, "AMOUNT", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(30, 30, 30)
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func signedAmount(d decimal.Decimal, typ domain.TransactionType) string {
	if typ == domain.Expense {
		return formatAmount(d.Neg())
	}
	return formatAmount(d)
}

// formatAmount renders d with two decimals and thousands separators.
func formatAmount(d decimal.Decimal) string {
	s := money.Format(d.Abs())
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i := range intPart {
		b.WriteByte(intPart[i])
		if rem := len(intPart) - i - 1; rem > 0 && rem%3 == 0 {
			b.WriteByte(',')
		}
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
