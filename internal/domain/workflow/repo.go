package workflow

import "context"

type Repository interface {
	// List returns the full sequence in position order.
	List(ctx context.Context) ([]Step, error)
	// ReplaceAll discards the stored sequence and writes steps in the
	// given order. Callers run it inside a transaction; the repository
	// serializes concurrent replacements so readers never observe a
	// partially replaced sequence.
	ReplaceAll(ctx context.Context, steps []Step) error
}
