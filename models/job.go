package models

import "time"

// Job statuses. A job reaches "completed" either through the job-status
// endpoint or as a side effect of logging a service record against it.
const (
	JobStatusScheduled    = "scheduled"
	JobStatusInProgress   = "in-progress"
	JobStatusCompleted    = "completed"
	JobStatusCancelled    = "cancelled"
	JobStatusPendingParts = "pending_parts"
)

var jobStatuses = []string{
	JobStatusScheduled, JobStatusInProgress, JobStatusCompleted,
	JobStatusCancelled, JobStatusPendingParts,
}

func ValidJobStatuses() []string { return jobStatuses }

func IsValidJobStatus(s string) bool {
	for _, v := range jobStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Job struct {
	Id          uint    `json:"id" gorm:"primaryKey"`
	CompanyID   string  `json:"company_id" gorm:"size:64;not null;index"`
	CustomerID  uint    `json:"customer_id" gorm:"not null;index"`
	Customer    Contact `json:"-" gorm:"foreignKey:CustomerID;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Description string  `json:"description" gorm:"type:text;not null"`
	Status      string  `json:"status" gorm:"size:50;default:scheduled"`
	Priority    string  `json:"priority" gorm:"size:50;default:medium"`
	Technician  string  `json:"technician"`
	JobType     string  `json:"job_type" gorm:"size:100"`

	ScheduledDate  time.Time  `json:"scheduled_date" gorm:"not null"`
	CompletionDate *time.Time `json:"completion_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
