package models

import "time"

// Equipment is an installed unit (furnace, AC, heat pump...) at a contact's
// site. LastServiceDate is derived from the service record ledger and is only
// mutated as a side effect of service-record writes.
type Equipment struct {
	Id            uint    `json:"id" gorm:"primaryKey"`
	CompanyID     string  `json:"company_id" gorm:"size:64;not null;index"`
	ContactID     uint    `json:"contact_id" gorm:"not null;index"`
	Contact       Contact `json:"-" gorm:"foreignKey:ContactID;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	EquipmentType string  `json:"equipment_type" gorm:"size:100;not null"`
	Brand         string  `json:"brand" gorm:"size:100"`
	Model         string  `json:"model" gorm:"size:100"`
	SerialNumber  string  `json:"serial_number" gorm:"size:100"`
	Location      string  `json:"location" gorm:"size:100"`
	Notes         string  `json:"notes" gorm:"type:text"`

	InstallationDate   *time.Time `json:"installation_date"`
	LastServiceDate    *time.Time `json:"last_service_date"`
	WarrantyExpiration *time.Time `json:"warranty_expiration"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Equipment) TableName() string { return "equipment" }
