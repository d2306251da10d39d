package models

import "time"

// ServiceRecord is one log entry of work performed on a piece of equipment,
// optionally tied to a scheduled job. Writes cascade: creating a record
// pushes its date onto the equipment and completes the linked job; deleting
// one re-derives the equipment's last service date from what remains.
type ServiceRecord struct {
	Id          uint      `json:"id" gorm:"primaryKey"`
	CompanyID   string    `json:"company_id" gorm:"size:64;not null;index"`
	EquipmentID uint      `json:"equipment_id" gorm:"not null;index:idx_service_records_equipment_date,priority:1"`
	Equipment   Equipment `json:"-" gorm:"foreignKey:EquipmentID;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	JobID       *uint     `json:"job_id"`
	Job         *Job      `json:"-" gorm:"foreignKey:JobID;references:Id;constraint:OnDelete:SET NULL"`

	ServiceDate     time.Time `json:"service_date" gorm:"not null;index:idx_service_records_equipment_date,priority:2"`
	ServiceType     string    `json:"service_type" gorm:"size:100;not null"`
	Technician      string    `json:"technician"`
	Findings        string    `json:"findings" gorm:"type:text"`
	Recommendations string    `json:"recommendations" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
}
