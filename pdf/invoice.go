package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"hvacdesk-backend/models"
)

// InvoiceDocument bundles everything an invoice PDF renders.
type InvoiceDocument struct {
	Company  models.Company
	Settings models.InvoiceSettings
	Invoice  models.Invoice
	Contact  models.Contact
	Items    []models.InvoiceItem
}

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders a printable invoice document.
func (g *Generator) Generate(doc InvoiceDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, doc.Company.Name, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	companyLine := strings.TrimSpace(strings.Join(nonEmpty(doc.Company.City, doc.Company.State), ", "))
	for _, line := range nonEmpty(companyLine, doc.Company.Phone, doc.Company.Email) {
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 8, fmt.Sprintf("INVOICE %s", doc.Invoice.InvoiceNumber), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("Issued: %s", formatDate(doc.Invoice.DateIssued)), "", 1, "L", false, 0, "")
	if doc.Invoice.DueDate != nil {
		pdf.CellFormat(0, 5, fmt.Sprintf("Due: %s", formatDate(*doc.Invoice.DueDate)), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 5, fmt.Sprintf("Status: %s", strings.ReplaceAll(doc.Invoice.Status, "_", " ")), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(0, 6, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	billLines := nonEmpty(
		doc.Contact.Name,
		doc.Contact.Address,
		strings.TrimSpace(strings.Join(nonEmpty(doc.Contact.City, doc.Contact.State, doc.Contact.Zip), ", ")),
		doc.Contact.Phone,
		doc.Contact.Email,
	)
	for _, line := range billLines {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
	pdf.Ln(4)

	headers := []string{"Description", "Qty", "Unit Price", "Amount"}
	colWidths := []float64{95, 20, 32, 33}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)
	for _, item := range doc.Items {
		row := []string{
			item.Description,
			fmt.Sprintf("%g", item.Quantity),
			money(item.UnitPrice),
			money(item.Amount),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}
	pdf.Ln(2)

	pdf.SetFont(g.fontName, "", 10)
	totalsRow(pdf, "Subtotal", money(doc.Invoice.SubtotalAmount))
	if doc.Invoice.DiscountAmount.Sign() > 0 {
		totalsRow(pdf, "Discount", "-"+money(doc.Invoice.DiscountAmount))
	}
	totalsRow(pdf, "Tax", money(doc.Invoice.TaxAmount))
	pdf.SetFont(g.fontName, "B", 11)
	totalsRow(pdf, "Total", money(doc.Invoice.TotalAmount))
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "", 9)
	notes := doc.Invoice.Notes
	if notes == "" {
		notes = doc.Settings.InvoiceNotesTemplate
	}
	terms := doc.Invoice.Terms
	if terms == "" {
		terms = doc.Settings.InvoiceTermsTemplate
	}
	for _, block := range []struct{ title, body string }{
		{"Notes", notes},
		{"Terms", terms},
		{"Payment Instructions", doc.Invoice.PaymentInstructions},
	} {
		if strings.TrimSpace(block.body) == "" {
			continue
		}
		pdf.SetFont(g.fontName, "B", 10)
		pdf.CellFormat(0, 6, block.title, "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 9)
		pdf.MultiCell(0, 5, block.body, "", "L", false)
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func totalsRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(147, 6, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(33, 6, value, "", 1, "R", false, 0, "")
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
