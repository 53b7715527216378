package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/miniclinic/miniclinic/internal/domain/patient"
)

// TxRunner executes fn inside a single database transaction. The transaction
// is made visible to repositories through the context.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// PatientDirectory is the slice of the patient domain the scheduler needs
// for referential checks and relation resolution.
type PatientDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*patient.Patient, error)
}

type Service struct {
	appointments Repository
	patients     PatientDirectory
	runTx        TxRunner
}

func NewService(appointments Repository, patients PatientDirectory, runTx TxRunner) *Service {
	return &Service{appointments: appointments, patients: patients, runTx: runTx}
}

// List returns appointments inside the inclusive [start, end] range. Both
// bounds are optional; omitting both returns all appointments.
func (s *Service) List(ctx context.Context, start, end *time.Time) ([]*Appointment, error) {
	return s.appointments.ListRange(ctx, start, end)
}

func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

// Patient resolves the appointment's owning patient. A dangling reference
// yields (nil, nil), not an error; the caller decides how to surface the
// absent relation.
func (s *Service) Patient(ctx context.Context, a *Appointment) (*patient.Patient, error) {
	p, err := s.patients.GetByID(ctx, a.PatientID)
	if errors.Is(err, patient.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// Create mints an identifier and persists the appointment. The referenced
// patient must exist at write time; the check and the insert share one
// transaction.
func (s *Service) Create(ctx context.Context, in Input) (*Appointment, error) {
	if in.PatientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("date is required")
	}

	a := &Appointment{
		PatientID: in.PatientID,
		Date:      in.Date,
		Reason:    in.Reason,
		Status:    in.Status,
	}
	err := s.runTx(ctx, func(ctx context.Context) error {
		exists, err := s.patients.Exists(ctx, in.PatientID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrPatientNotFound
		}
		return s.appointments.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Update merges upd over the stored appointment. Repointing the appointment
// at another patient re-runs the referential check.
func (s *Service) Update(ctx context.Context, id string, upd Update) (*Appointment, error) {
	var result *Appointment
	err := s.runTx(ctx, func(ctx context.Context) error {
		a, err := s.appointments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if upd.PatientID != nil && *upd.PatientID != a.PatientID {
			exists, err := s.patients.Exists(ctx, *upd.PatientID)
			if err != nil {
				return err
			}
			if !exists {
				return ErrPatientNotFound
			}
			a.PatientID = *upd.PatientID
		}
		if upd.Date != nil {
			a.Date = *upd.Date
		}
		if upd.Reason != nil {
			a.Reason = *upd.Reason
		}
		if upd.Status != nil {
			a.Status = *upd.Status
		}
		if err := s.appointments.Update(ctx, a); err != nil {
			return err
		}
		result = a
		return nil
	})
	return result, err
}

// Delete removes the appointment and reports whether a row was actually
// deleted.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.appointments.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	return s.appointments.ListByPatient(ctx, patientID)
}
