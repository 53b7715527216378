package scheduling

import (
	"errors"
	"time"
)

// ErrNotFound is returned when an appointment lookup or update targets an
// identifier that does not exist.
var ErrNotFound = errors.New("appointment not found")

// ErrPatientNotFound is returned when a write names a patient identifier
// that does not exist. This is a referential violation, distinct from a
// missing appointment.
var ErrPatientNotFound = errors.New("referenced patient not found")

// Appointment maps to the appointments table.
type Appointment struct {
	ID        string    `db:"id" json:"id"`
	PatientID string    `db:"patient_id" json:"patient_id"`
	Date      time.Time `db:"date" json:"date"`
	Reason    string    `db:"reason" json:"reason,omitempty"`
	Status    string    `db:"status" json:"status,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Input carries the fields accepted on create.
type Input struct {
	PatientID string    `json:"patient_id"`
	Date      time.Time `json:"date"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
}

// Update is an explicit partial-update structure. A nil field means "leave
// untouched".
type Update struct {
	PatientID *string    `json:"patient_id"`
	Date      *time.Time `json:"date"`
	Reason    *string    `json:"reason"`
	Status    *string    `json:"status"`
}
