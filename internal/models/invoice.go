package models

import (
	"time"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "unpaid"
	InvoicePaid   InvoiceStatus = "paid"
)

// Invoice bills a patient for one appointment. An appointment that has an
// invoice can no longer be deleted.
type Invoice struct {
	BaseModel
	AppointmentID string        `gorm:"size:36;uniqueIndex" json:"appointmentId"`
	PatientID     string        `gorm:"size:36;index" json:"patientId"`
	Amount        float64       `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status        InvoiceStatus `gorm:"size:20;default:'unpaid'" json:"status"`
	IssuedAt      time.Time     `json:"issuedAt"`

	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
	Patient     User        `gorm:"foreignKey:PatientID" json:"-"`
}
