package pdf_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hvacdesk-backend/models"
	"hvacdesk-backend/pdf"
)

func testDocument() pdf.InvoiceDocument {
	due := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	return pdf.InvoiceDocument{
		Company: models.Company{
			Name:  "Comfort Air Mechanical",
			City:  "Austin",
			State: "TX",
			Phone: "(512) 555-0142",
			Email: "office@comfortair.example",
		},
		Settings: models.DefaultInvoiceSettings("company-1"),
		Invoice: models.Invoice{
			Id:             7,
			InvoiceNumber:  "INV-1042",
			SubtotalAmount: decimal.RequireFromString("450.00"),
			TaxAmount:      decimal.RequireFromString("37.13"),
			TotalAmount:    decimal.RequireFromString("487.13"),
			DateIssued:     time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			DueDate:        &due,
			Status:         models.InvoiceStatusSent,
		},
		Contact: models.Contact{
			Name:    "Dana Whitfield",
			Address: "1408 Shoal Creek Blvd",
			City:    "Austin",
			State:   "TX",
			Zip:     "78701",
		},
		Items: []models.InvoiceItem{
			{
				Description: "Condenser coil cleaning",
				Quantity:    1,
				UnitPrice:   decimal.RequireFromString("250.00"),
				Amount:      decimal.RequireFromString("250.00"),
			},
			{
				Description: "Refrigerant recharge (R-410A)",
				Quantity:    2,
				UnitPrice:   decimal.RequireFromString("100.00"),
				Amount:      decimal.RequireFromString("200.00"),
			},
		},
	}
}

func TestGenerate_ProducesPDF(t *testing.T) {
	out, err := pdf.NewGenerator().Generate(testDocument())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerate_EmptyOptionalFields(t *testing.T) {
	doc := testDocument()
	doc.Invoice.DueDate = nil
	doc.Invoice.Notes = ""
	doc.Invoice.Terms = ""
	doc.Settings = models.InvoiceSettings{}
	doc.Items = nil

	out, err := pdf.NewGenerator().Generate(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
