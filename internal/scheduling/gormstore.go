package scheduling

import (
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"clinic-app-server/internal/models"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// GormStore implements the scheduling store interfaces on the application's
// gorm connection. Slot-claim unique key violations surface as
// ErrSlotConflict so the scheduler reports a lost race the same way as a
// detected one.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// WindowFor returns the doctor's availability window for the weekday, or nil
// when the doctor does not work that day.
func (s *GormStore) WindowFor(doctorID string, weekday time.Weekday) (*models.AvailabilityWindow, error) {
	var window models.AvailabilityWindow
	err := s.db.Where("doctor_id = ? AND weekday = ?", doctorID, weekday).First(&window).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &window, nil
}

// ListWindows returns all of the doctor's windows ordered by weekday.
func (s *GormStore) ListWindows(doctorID string) ([]models.AvailabilityWindow, error) {
	var windows []models.AvailabilityWindow
	err := s.db.Where("doctor_id = ?", doctorID).Order("weekday asc").Find(&windows).Error
	return windows, err
}

// Replace swaps the doctor's availability set wholesale: delete and reinsert
// inside one transaction, preserving replace-all-on-update semantics.
func (s *GormStore) Replace(doctorID string, windows []models.AvailabilityWindow) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", doctorID).Delete(&models.AvailabilityWindow{}).Error; err != nil {
			return err
		}
		for i := range windows {
			windows[i].DoctorID = doctorID
			if err := tx.Create(&windows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Get returns the appointment or ErrNotFound.
func (s *GormStore) Get(id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.db.First(&appt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// CountScheduled counts scheduled appointments at the exact triple, skipping
// excludeID when non-empty.
func (s *GormStore) CountScheduled(doctorID, date, slot, excludeID string) (int64, error) {
	query := s.db.Model(&models.Appointment{}).
		Where("doctor_id = ? AND date = ? AND slot = ? AND status = ?",
			doctorID, date, slot, models.StatusScheduled)
	if excludeID != "" {
		query = query.Where("id != ?", excludeID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (s *GormStore) Create(appt *models.Appointment) error {
	return mapClaimError(s.db.Create(appt).Error)
}

func (s *GormStore) Update(appt *models.Appointment) error {
	return mapClaimError(s.db.Save(appt).Error)
}

func (s *GormStore) Delete(id string) error {
	return s.db.Delete(&models.Appointment{}, "id = ?", id).Error
}

// HasInvoiceFor reports whether any invoice references the appointment.
func (s *GormStore) HasInvoiceFor(appointmentID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Invoice{}).Where("appointment_id = ?", appointmentID).Count(&count).Error
	return count > 0, err
}

// mapClaimError translates a duplicate slot-claim key into ErrSlotConflict.
func mapClaimError(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return ErrSlotConflict
	}
	return err
}
