package models

import (
	"time"
)

// AvailabilityWindow represents one recurring weekly block during which a
// doctor accepts appointments. Times are stored as "HH:MM" in 24h format.
// A doctor has at most one window per weekday; the whole set is replaced
// wholesale when the doctor updates their schedule.
type AvailabilityWindow struct {
	BaseModel
	DoctorID  string       `gorm:"size:36;index:idx_doctor_weekday,unique" json:"doctorId"`
	Weekday   time.Weekday `gorm:"index:idx_doctor_weekday,unique" json:"weekday"`
	StartTime string       `gorm:"size:5;not null" json:"startTime"`
	EndTime   string       `gorm:"size:5;not null" json:"endTime"`

	Doctor User `gorm:"foreignKey:DoctorID" json:"-"`
}
