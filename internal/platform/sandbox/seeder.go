// Package sandbox seeds demo clinic data for development environments:
// a handful of patients with visit history, upcoming appointments, and the
// standard intake workflow.
package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/miniclinic/miniclinic/internal/domain/patient"
	"github.com/miniclinic/miniclinic/internal/domain/scheduling"
	"github.com/miniclinic/miniclinic/internal/domain/workflow"
)

// TxRunner executes fn inside a single database transaction. The transaction
// is made visible to repositories through the context.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Seeder struct {
	patients     patient.Repository
	visits       patient.VisitRepository
	appointments scheduling.Repository
	workflow     workflow.Repository
	runTx        TxRunner
	logger       zerolog.Logger
}

func NewSeeder(
	patients patient.Repository,
	visits patient.VisitRepository,
	appointments scheduling.Repository,
	wf workflow.Repository,
	runTx TxRunner,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		patients:     patients,
		visits:       visits,
		appointments: appointments,
		workflow:     wf,
		runTx:        runTx,
		logger:       logger,
	}
}

// Run inserts the demo dataset. It is idempotent: when any patients already
// exist the seeder logs and returns without writing. All writes share one
// transaction, so a failed seed leaves nothing behind; the workflow swap in
// particular locks its table and must not run at top level.
func (s *Seeder) Run(ctx context.Context) error {
	_, total, err := s.patients.Search(ctx, "", 1, 0)
	if err != nil {
		return fmt.Errorf("check existing patients: %w", err)
	}
	if total > 0 {
		s.logger.Info().Int("patients", total).Msg("database already seeded, skipping")
		return nil
	}

	err = s.runTx(ctx, func(ctx context.Context) error {
		for _, p := range demoPatients() {
			if err := s.patients.Create(ctx, p); err != nil {
				return fmt.Errorf("seed patient %s: %w", p.ID, err)
			}
		}
		for _, v := range demoVisits() {
			if err := s.visits.Create(ctx, v); err != nil {
				return fmt.Errorf("seed visit %s: %w", v.ID, err)
			}
		}
		for _, a := range demoAppointments() {
			if err := s.appointments.Create(ctx, a); err != nil {
				return fmt.Errorf("seed appointment %s: %w", a.ID, err)
			}
		}
		if err := s.workflow.ReplaceAll(ctx, demoWorkflow()); err != nil {
			return fmt.Errorf("seed workflow: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Msg("demo data seeded")
	return nil
}

var jakarta = time.FixedZone("WIB", 7*3600)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func demoPatients() []*patient.Patient {
	return []*patient.Patient{
		{
			ID:          "p1",
			Name:        "Dewi Rahmawati",
			DateOfBirth: date(1989, time.July, 15),
			Gender:      "Female",
			Phone:       "+62 812-3456-7890",
			Address:     "Jl. Sudirman No. 12, Jakarta",
			Allergies:   []string{"Penicillin"},
			Tags:        []string{"BPJS", "Hipertensi"},
			Notes:       "Perlu cek tekanan darah setiap kunjungan.",
		},
		{
			ID:          "p2",
			Name:        "Budi Santoso",
			DateOfBirth: date(1975, time.November, 3),
			Gender:      "Male",
			Phone:       "+62 811-2389-555",
			Address:     "Jl. Diponegoro No. 8, Bandung",
			Allergies:   []string{},
			Tags:        []string{"Asma"},
			Notes:       "Membawa inhaler sendiri.",
		},
		{
			ID:          "p3",
			Name:        "Siti Nur Aisyah",
			DateOfBirth: date(1994, time.February, 21),
			Gender:      "Female",
			Phone:       "+62 822-9911-2200",
			Address:     "Jl. Taman Siswa No. 5, Yogyakarta",
			Allergies:   []string{"Seafood"},
			Tags:        []string{"Kehamilan"},
			Notes:       "Trimester kedua, jadwal kontrol 2 minggu sekali.",
		},
	}
}

func demoVisits() []*patient.Visit {
	rx := func(s string) *string { return &s }
	return []*patient.Visit{
		{
			ID:           "v1",
			PatientID:    "p1",
			Date:         time.Date(2025, time.January, 5, 9, 0, 0, 0, jakarta),
			Doctor:       "dr. Aditya",
			Reason:       "Kontrol hipertensi",
			Notes:        "Tekanan darah 130/85, lanjutkan obat.",
			Prescription: rx("Amlodipine 5mg"),
		},
		{
			ID:           "v2",
			PatientID:    "p1",
			Date:         time.Date(2024, time.December, 11, 9, 30, 0, 0, jakarta),
			Doctor:       "dr. Aditya",
			Reason:       "Keluhan pusing",
			Notes:        "Hasil lab normal, istirahat cukup.",
			Prescription: rx("Multivitamin"),
		},
		{
			ID:           "v3",
			PatientID:    "p2",
			Date:         time.Date(2024, time.November, 22, 13, 30, 0, 0, jakarta),
			Doctor:       "dr. Ratna",
			Reason:       "Kontrol asma",
			Notes:        "Tidak ada serangan baru.",
			Prescription: rx("Controller inhaler 2x sehari"),
		},
		{
			ID:           "v4",
			PatientID:    "p3",
			Date:         time.Date(2024, time.December, 30, 11, 0, 0, 0, jakarta),
			Doctor:       "dr. Yani",
			Reason:       "Kontrol kehamilan",
			Notes:        "Janin sehat, lanjutkan vitamin.",
			Prescription: rx("Vitamin prenatal"),
		},
	}
}

func demoAppointments() []*scheduling.Appointment {
	return []*scheduling.Appointment{
		{
			ID:        "a1",
			PatientID: "p1",
			Date:      time.Date(2025, time.January, 20, 8, 0, 0, 0, jakarta),
			Reason:    "General check",
			Status:    "scheduled",
		},
		{
			ID:        "a2",
			PatientID: "p2",
			Date:      time.Date(2025, time.January, 18, 10, 30, 0, 0, jakarta),
			Reason:    "Spirometri",
			Status:    "scheduled",
		},
		{
			ID:        "a3",
			PatientID: "p3",
			Date:      time.Date(2025, time.January, 19, 9, 15, 0, 0, jakarta),
			Reason:    "Kontrol kandungan",
			Status:    "scheduled",
		},
		{
			ID:        "a4",
			PatientID: "p2",
			Date:      time.Date(2025, time.January, 25, 14, 0, 0, 0, jakarta),
			Reason:    "Edukasi diet",
			Status:    "pending",
		},
	}
}

func demoWorkflow() []workflow.Step {
	return []workflow.Step{
		{ID: "wf-1", Name: "Registrasi"},
		{ID: "wf-2", Name: "Pemeriksaan"},
		{ID: "wf-3", Name: "Obat"},
		{ID: "wf-4", Name: "Pembayaran"},
	}
}
