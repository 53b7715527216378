package scheduling

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	// Delete reports whether a row was actually removed. Absence is a
	// false result, not an error.
	Delete(ctx context.Context, id string) (bool, error)
	// ListRange returns appointments whose scheduled timestamp falls
	// inside [start, end]. Both bounds are optional and inclusive.
	ListRange(ctx context.Context, start, end *time.Time) ([]*Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error)
}
