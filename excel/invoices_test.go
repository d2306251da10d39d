package excel_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hvacdesk-backend/excel"
)

func TestGenerate_Register(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	rows := []excel.InvoiceRow{
		{
			InvoiceNumber: "INV-1001",
			ContactName:   "Dana Whitfield",
			DateIssued:    time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			DueDate:       &due,
			Status:        "paid",
			TotalAmount:   decimal.RequireFromString("500.00"),
			AmountPaid:    decimal.RequireFromString("500.00"),
		},
		{
			InvoiceNumber: "INV-1002",
			ContactName:   "Hargrove Dental",
			DateIssued:    time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
			Status:        "partially_paid",
			TotalAmount:   decimal.RequireFromString("1200.00"),
			AmountPaid:    decimal.RequireFromString("400.00"),
		},
	}

	out, err := excel.NewGenerator().Generate("Comfort Air Mechanical", &from, &to, rows)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	file, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer file.Close()

	get := func(cell string) string {
		v, err := file.GetCellValue("Invoices", cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Comfort Air Mechanical", get("B1"))
	assert.Equal(t, "2", get("B4"))
	assert.Equal(t, "1700.00", get("B5"))
	assert.Equal(t, "900.00", get("B6"))

	assert.Equal(t, "Invoice #", get("A8"))
	assert.Equal(t, "INV-1001", get("A9"))
	assert.Equal(t, "0.00", get("H9"))
	assert.Equal(t, "INV-1002", get("A10"))
	assert.Equal(t, "800.00", get("H10"))
}

func TestGenerate_NoRows(t *testing.T) {
	out, err := excel.NewGenerator().Generate("Comfort Air Mechanical", nil, nil, nil)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer file.Close()

	v, err := file.GetCellValue("Invoices", "B4")
	require.NoError(t, err)
	assert.Equal(t, "0", v)
}
