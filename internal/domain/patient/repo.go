package patient

import "context"

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, p *Patient) error
	// Search returns one page of patients matching filter plus the total
	// match count before pagination. limit < 0 means no pagination.
	Search(ctx context.Context, filter string, limit, offset int) ([]*Patient, int, error)
	// LockID serializes concurrent writers on the same patient identifier
	// for the duration of the surrounding transaction.
	LockID(ctx context.Context, id string) error
}

type VisitRepository interface {
	ListByPatient(ctx context.Context, patientID string) ([]*Visit, error)
	Create(ctx context.Context, v *Visit) error
}
