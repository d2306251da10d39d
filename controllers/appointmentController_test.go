package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hvacdesk-backend/models"
)

func TestWithEquipmentHeader_PrefixesDescription(t *testing.T) {
	unit := models.Equipment{
		EquipmentType: "Furnace",
		Brand:         "Carrier",
		Model:         "59MN7",
		SerialNumber:  "SN-1001",
	}
	got := withEquipmentHeader("No heat, check igniter", unit)
	assert.Equal(t, "EQUIPMENT: Furnace - Carrier 59MN7\nSERIAL: SN-1001\n\nNo heat, check igniter", got)
}

func TestWithEquipmentHeader_ReplacesExistingHeader(t *testing.T) {
	old := "EQUIPMENT: AC - Trane XR14\nSERIAL: SN-OLD\n\nAnnual maintenance"
	unit := models.Equipment{
		EquipmentType: "Heat Pump",
		Brand:         "Lennox",
		Model:         "XP25",
		SerialNumber:  "SN-NEW",
	}
	got := withEquipmentHeader(old, unit)
	assert.Equal(t, "EQUIPMENT: Heat Pump - Lennox XP25\nSERIAL: SN-NEW\n\nAnnual maintenance", got)
}

func TestWithEquipmentHeader_EmptyDescription(t *testing.T) {
	unit := models.Equipment{
		EquipmentType: "Furnace",
		Brand:         "Carrier",
		Model:         "59MN7",
		SerialNumber:  "SN-1001",
	}
	assert.Equal(t, "EQUIPMENT: Furnace - Carrier 59MN7\nSERIAL: SN-1001", withEquipmentHeader("", unit))
}
