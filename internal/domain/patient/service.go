package patient

import (
	"context"
	"fmt"
)

// TxRunner executes fn inside a single database transaction. The transaction
// is made visible to repositories through the context.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	patients Repository
	visits   VisitRepository
	runTx    TxRunner
}

func NewService(patients Repository, visits VisitRepository, runTx TxRunner) *Service {
	return &Service{patients: patients, visits: visits, runTx: runTx}
}

// Search returns one page of patients whose name, phone, or any tag contains
// filter (case-insensitive), plus the total match count before pagination.
// limit < 0 returns the full unpaginated set.
func (s *Service) Search(ctx context.Context, filter string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.Search(ctx, filter, limit, offset)
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*Patient, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	p := &Patient{
		Name:        in.Name,
		DateOfBirth: in.DateOfBirth,
		Gender:      in.Gender,
		Phone:       in.Phone,
		Address:     in.Address,
		Notes:       in.Notes,
		Allergies:   normalizeLabels(in.Allergies),
		Tags:        normalizeLabels(in.Tags),
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update merges upd over the stored record. Nil fields are left untouched;
// allergy and tag fields, when present, replace the stored set wholesale.
func (s *Service) Update(ctx context.Context, id string, upd Update) (*Patient, error) {
	var result *Patient
	err := s.runTx(ctx, func(ctx context.Context) error {
		if err := s.patients.LockID(ctx, id); err != nil {
			return err
		}
		p, err := s.patients.GetByID(ctx, id)
		if err != nil {
			return err
		}
		applyUpdate(p, upd)
		if err := s.patients.Update(ctx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

// Upsert updates the record when id names an existing patient, otherwise
// creates a new one with a freshly minted identifier. The existence check
// and the write are serialized per identifier.
func (s *Service) Upsert(ctx context.Context, id string, in Input) (*Patient, error) {
	if id == "" {
		return s.Create(ctx, in)
	}

	var result *Patient
	err := s.runTx(ctx, func(ctx context.Context) error {
		if err := s.patients.LockID(ctx, id); err != nil {
			return err
		}
		exists, err := s.patients.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			p, err := s.Create(ctx, in)
			if err != nil {
				return err
			}
			result = p
			return nil
		}

		p, err := s.patients.GetByID(ctx, id)
		if err != nil {
			return err
		}
		p.Name = in.Name
		p.DateOfBirth = in.DateOfBirth
		p.Gender = in.Gender
		p.Phone = in.Phone
		p.Address = in.Address
		p.Notes = in.Notes
		p.Allergies = normalizeLabels(in.Allergies)
		p.Tags = normalizeLabels(in.Tags)
		if err := s.patients.Update(ctx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

// ListVisits returns the patient's visit history, newest first.
func (s *Service) ListVisits(ctx context.Context, patientID string) ([]*Visit, error) {
	return s.visits.ListByPatient(ctx, patientID)
}

func applyUpdate(p *Patient, upd Update) {
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.DateOfBirth != nil {
		p.DateOfBirth = upd.DateOfBirth
	}
	if upd.Gender != nil {
		p.Gender = *upd.Gender
	}
	if upd.Phone != nil {
		p.Phone = *upd.Phone
	}
	if upd.Address != nil {
		p.Address = *upd.Address
	}
	if upd.Notes != nil {
		p.Notes = *upd.Notes
	}
	if upd.Allergies != nil {
		p.Allergies = normalizeLabels(upd.Allergies)
	}
	if upd.Tags != nil {
		p.Tags = normalizeLabels(upd.Tags)
	}
}
