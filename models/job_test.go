package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hvacdesk-backend/models"
)

func TestIsValidJobStatus(t *testing.T) {
	for _, s := range models.ValidJobStatuses() {
		assert.True(t, models.IsValidJobStatus(s), s)
	}
	assert.False(t, models.IsValidJobStatus("done"))
	assert.False(t, models.IsValidJobStatus("COMPLETED"))
	assert.False(t, models.IsValidJobStatus(""))
}

func TestIsValidPaymentMethod(t *testing.T) {
	assert.True(t, models.IsValidPaymentMethod(models.PaymentMethodCash))
	assert.True(t, models.IsValidPaymentMethod(models.PaymentMethodOnlinePayment))
	assert.False(t, models.IsValidPaymentMethod("bitcoin"))
	assert.False(t, models.IsValidPaymentMethod(""))
}
