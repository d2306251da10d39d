package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// InvoiceRow is one line of the invoice register export.
type InvoiceRow struct {
	InvoiceNumber string
	ContactName   string
	DateIssued    time.Time
	DueDate       *time.Time
	Status        string
	TotalAmount   decimal.Decimal
	AmountPaid    decimal.Decimal
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds an invoice register workbook: a summary block followed by
// one row per invoice.
func (g *Generator) Generate(companyName string, from, to *time.Time, rows []InvoiceRow) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Invoices"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Company")
	set("B1", companyName)
	set("A2", "Period start")
	set("B2", formatDate(from))
	set("A3", "Period end")
	set("B3", formatDate(to))
	set("A4", "Invoice count")
	set("B4", len(rows))
	set("A5", "Total billed")
	set("B5", sumTotals(rows).StringFixed(2))
	set("A6", "Total collected")
	set("B6", sumPaid(rows).StringFixed(2))

	tableRow := 8
	headers := []string{"Invoice #", "Customer", "Date Issued", "Due Date", "Status", "Total", "Paid", "Balance"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, row := range rows {
		r := tableRow + 1 + i
		set(fmt.Sprintf("A%d", r), row.InvoiceNumber)
		set(fmt.Sprintf("B%d", r), row.ContactName)
		set(fmt.Sprintf("C%d", r), row.DateIssued.Format("2006-01-02"))
		set(fmt.Sprintf("D%d", r), formatDate(row.DueDate))
		set(fmt.Sprintf("E%d", r), row.Status)
		set(fmt.Sprintf("F%d", r), row.TotalAmount.StringFixed(2))
		set(fmt.Sprintf("G%d", r), row.AmountPaid.StringFixed(2))
		set(fmt.Sprintf("H%d", r), row.TotalAmount.Sub(row.AmountPaid).StringFixed(2))
	}

	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "B", 32)
	_ = file.SetColWidth(sheet, "C", "E", 14)
	_ = file.SetColWidth(sheet, "F", "H", 12)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func sumTotals(rows []InvoiceRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.TotalAmount)
	}
	return total
}

func sumPaid(rows []InvoiceRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.AmountPaid)
	}
	return total
}
