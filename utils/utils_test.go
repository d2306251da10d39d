package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hvacdesk-backend/utils"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.56, utils.Round2(10.556))
	assert.Equal(t, 10.55, utils.Round2(10.554))
	assert.Equal(t, 0.0, utils.Round2(0))
	assert.Equal(t, -2.35, utils.Round2(-2.346))
}

func TestDec(t *testing.T) {
	assert.Equal(t, "10.56", utils.Dec(10.556).StringFixed(2))
	assert.Equal(t, "0.00", utils.Dec(0).StringFixed(2))
	assert.Equal(t, "199.99", utils.Dec(199.99).StringFixed(2))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 42, utils.ParseIntDefault("42", 7))
	assert.Equal(t, 7, utils.ParseIntDefault("", 7))
	assert.Equal(t, 7, utils.ParseIntDefault("abc", 7))
	assert.Equal(t, 7, utils.ParseIntDefault("-3", 7))
	assert.Equal(t, 42, utils.ParseIntDefault("  42 ", 7))
}

type patchDTO struct {
	Name     *string  `json:"name"`
	Amount   *float64 `json:"amount"`
	Internal *string  `json:"-"`
	Skipped  *string
	Plain    string `json:"plain"`
}

func TestUpdatesFromPtrDTO(t *testing.T) {
	name := "  Alice  "
	amount := 10.556
	hidden := "x"
	dto := patchDTO{Name: &name, Amount: &amount, Internal: &hidden, Plain: "ignored"}

	utils.NormalizePtrDTO(&dto)
	updates := utils.UpdatesFromPtrDTO(&dto, nil)

	assert.Equal(t, "Alice", updates["name"])
	assert.Equal(t, 10.56, updates["amount"])
	assert.NotContains(t, updates, "-")
	assert.NotContains(t, updates, "plain")
	assert.Len(t, updates, 2)
}

func TestUpdatesFromPtrDTO_NilFieldsOmitted(t *testing.T) {
	updates := utils.UpdatesFromPtrDTO(&patchDTO{}, nil)
	assert.Empty(t, updates)
}

func TestUpdatesFromPtrDTO_Renames(t *testing.T) {
	name := "Bob"
	dto := patchDTO{Name: &name}
	updates := utils.UpdatesFromPtrDTO(&dto, map[string]string{"name": "customer_name"})
	assert.Equal(t, "Bob", updates["customer_name"])
	assert.NotContains(t, updates, "name")
}

func TestNormalizeDTO(t *testing.T) {
	dto := struct {
		Name   string
		Amount float64
	}{Name: "  hi  ", Amount: 3.456}
	utils.NormalizeDTO(&dto)
	assert.Equal(t, "hi", dto.Name)
	assert.Equal(t, 3.46, dto.Amount)
}
