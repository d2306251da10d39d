package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"hvacdesk-backend/models"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

// Walks an invoice through the lifecycle the payments endpoint drives: a $500
// invoice gets a $300 payment (partially_paid), then $200 (paid, date set),
// then the payments are deleted one by one until the status falls back.
func TestResolvePaymentStatus_Lifecycle(t *testing.T) {
	total := dec("500.00")

	status, paid := models.ResolvePaymentStatus(models.InvoiceStatusSent, dec("300.00"), total)
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, status)
	assert.False(t, paid)

	status, paid = models.ResolvePaymentStatus(status, dec("500.00"), total)
	assert.Equal(t, models.InvoiceStatusPaid, status)
	assert.True(t, paid)

	// Delete the $200 payment: back to partially paid, date cleared.
	status, paid = models.ResolvePaymentStatus(status, dec("300.00"), total)
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, status)
	assert.False(t, paid)

	// Delete the last payment: no history of the pre-payment status remains,
	// so the invoice falls back to sent.
	status, paid = models.ResolvePaymentStatus(status, decimal.Zero, total)
	assert.Equal(t, models.InvoiceStatusSent, status)
	assert.False(t, paid)
}

func TestResolvePaymentStatus_Overpayment(t *testing.T) {
	status, paid := models.ResolvePaymentStatus(models.InvoiceStatusSent, dec("600.00"), dec("500.00"))
	assert.Equal(t, models.InvoiceStatusPaid, status)
	assert.True(t, paid)
}

func TestResolvePaymentStatus_ExactTotal(t *testing.T) {
	status, paid := models.ResolvePaymentStatus(models.InvoiceStatusViewed, dec("500.00"), dec("500.00"))
	assert.Equal(t, models.InvoiceStatusPaid, status)
	assert.True(t, paid)
}

// A status that never entered the payment lifecycle is preserved when the
// paid sum is zero.
func TestResolvePaymentStatus_ZeroKeepsNonPaymentStatus(t *testing.T) {
	for _, prior := range []string{
		models.InvoiceStatusDraft,
		models.InvoiceStatusSent,
		models.InvoiceStatusViewed,
		models.InvoiceStatusOverdue,
	} {
		status, paid := models.ResolvePaymentStatus(prior, decimal.Zero, dec("100.00"))
		assert.Equal(t, prior, status, "prior=%s", prior)
		assert.False(t, paid)
	}
}

func TestResolvePaymentStatus_ZeroFallsBackToSent(t *testing.T) {
	for _, prior := range []string{models.InvoiceStatusPaid, models.InvoiceStatusPartiallyPaid} {
		status, paid := models.ResolvePaymentStatus(prior, decimal.Zero, dec("100.00"))
		assert.Equal(t, models.InvoiceStatusSent, status, "prior=%s", prior)
		assert.False(t, paid)
	}
}

// Cent-level partials must not round up to paid.
func TestResolvePaymentStatus_OneCentShort(t *testing.T) {
	status, paid := models.ResolvePaymentStatus(models.InvoiceStatusSent, dec("499.99"), dec("500.00"))
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, status)
	assert.False(t, paid)
}
