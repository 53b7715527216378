package sandbox

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/miniclinic/miniclinic/internal/domain/patient"
	"github.com/miniclinic/miniclinic/internal/domain/scheduling"
	"github.com/miniclinic/miniclinic/internal/domain/workflow"
)

type fakePatientRepo struct {
	patients []*patient.Patient
}

func (f *fakePatientRepo) Create(ctx context.Context, p *patient.Patient) error {
	f.patients = append(f.patients, p)
	return nil
}

func (f *fakePatientRepo) GetByID(ctx context.Context, id string) (*patient.Patient, error) {
	for _, p := range f.patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, patient.ErrNotFound
}

func (f *fakePatientRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, err := f.GetByID(ctx, id)
	return err == nil, nil
}

func (f *fakePatientRepo) Update(ctx context.Context, p *patient.Patient) error { return nil }

func (f *fakePatientRepo) Search(ctx context.Context, filter string, limit, offset int) ([]*patient.Patient, int, error) {
	var out []*patient.Patient
	for _, p := range f.patients {
		if filter == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter)) {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (f *fakePatientRepo) LockID(ctx context.Context, id string) error { return nil }

type fakeVisitRepo struct {
	visits []*patient.Visit
}

func (f *fakeVisitRepo) ListByPatient(ctx context.Context, patientID string) ([]*patient.Visit, error) {
	return nil, nil
}

func (f *fakeVisitRepo) Create(ctx context.Context, v *patient.Visit) error {
	f.visits = append(f.visits, v)
	return nil
}

type fakeApptRepo struct {
	appointments []*scheduling.Appointment
}

func (f *fakeApptRepo) Create(ctx context.Context, a *scheduling.Appointment) error {
	f.appointments = append(f.appointments, a)
	return nil
}

func (f *fakeApptRepo) GetByID(ctx context.Context, id string) (*scheduling.Appointment, error) {
	return nil, scheduling.ErrNotFound
}

func (f *fakeApptRepo) Update(ctx context.Context, a *scheduling.Appointment) error { return nil }

func (f *fakeApptRepo) Delete(ctx context.Context, id string) (bool, error) { return false, nil }

func (f *fakeApptRepo) ListRange(ctx context.Context, start, end *time.Time) ([]*scheduling.Appointment, error) {
	return f.appointments, nil
}

func (f *fakeApptRepo) ListByPatient(ctx context.Context, patientID string) ([]*scheduling.Appointment, error) {
	return nil, nil
}

type fakeWorkflowRepo struct {
	steps []workflow.Step
}

func (f *fakeWorkflowRepo) List(ctx context.Context) ([]workflow.Step, error) {
	return f.steps, nil
}

func (f *fakeWorkflowRepo) ReplaceAll(ctx context.Context, steps []workflow.Step) error {
	f.steps = steps
	return nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestSeeder() (*Seeder, *fakePatientRepo, *fakeVisitRepo, *fakeApptRepo, *fakeWorkflowRepo) {
	patients := &fakePatientRepo{}
	visits := &fakeVisitRepo{}
	appts := &fakeApptRepo{}
	wf := &fakeWorkflowRepo{}
	s := NewSeeder(patients, visits, appts, wf, passthroughTx, zerolog.Nop())
	return s, patients, visits, appts, wf
}

func TestSeeder_Run(t *testing.T) {
	s, patients, visits, appts, wf := newTestSeeder()

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(patients.patients) != 3 {
		t.Errorf("expected 3 patients, got %d", len(patients.patients))
	}
	if len(visits.visits) != 4 {
		t.Errorf("expected 4 visits, got %d", len(visits.visits))
	}
	if len(appts.appointments) != 4 {
		t.Errorf("expected 4 appointments, got %d", len(appts.appointments))
	}
	if len(wf.steps) != 4 {
		t.Fatalf("expected 4 workflow steps, got %d", len(wf.steps))
	}
	if wf.steps[0].Name != "Registrasi" || wf.steps[3].Name != "Pembayaran" {
		t.Errorf("unexpected workflow order: %+v", wf.steps)
	}
}

// txTrackingWorkflowRepo fails unless ReplaceAll runs inside the seeder's
// transaction. The real repository takes an exclusive table lock, which
// PostgreSQL only permits inside a transaction block.
type txTrackingWorkflowRepo struct {
	fakeWorkflowRepo
	inTx     *bool
	observed bool
}

func (f *txTrackingWorkflowRepo) ReplaceAll(ctx context.Context, steps []workflow.Step) error {
	f.observed = *f.inTx
	return f.fakeWorkflowRepo.ReplaceAll(ctx, steps)
}

func TestSeeder_WritesRunInsideTransaction(t *testing.T) {
	inTx := false
	wf := &txTrackingWorkflowRepo{inTx: &inTx}
	runTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		inTx = true
		defer func() { inTx = false }()
		return fn(ctx)
	}
	s := NewSeeder(&fakePatientRepo{}, &fakeVisitRepo{}, &fakeApptRepo{}, wf, runTx, zerolog.Nop())

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wf.observed {
		t.Error("expected workflow replacement to run inside the transaction")
	}
	if len(wf.steps) != 4 {
		t.Errorf("expected 4 workflow steps, got %d", len(wf.steps))
	}
}

func TestSeeder_Idempotent(t *testing.T) {
	s, patients, _, _, _ := newTestSeeder()
	ctx := context.Background()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Run(ctx); err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}

	if len(patients.patients) != 3 {
		t.Errorf("expected second run to skip seeding, got %d patients", len(patients.patients))
	}
}
