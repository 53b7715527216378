package workflow

import (
	"context"
	"fmt"
)

// TxRunner executes fn inside a single database transaction. The transaction
// is made visible to repositories through the context.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	steps Repository
	runTx TxRunner
}

func NewService(steps Repository, runTx TxRunner) *Service {
	return &Service{steps: steps, runTx: runTx}
}

// Get returns the current sequence in order.
func (s *Service) Get(ctx context.Context) ([]Step, error) {
	return s.steps.List(ctx)
}

// Replace swaps the entire stored sequence for the submitted list in one
// transaction. A descriptor without an identifier gets one derived from its
// 1-based position in the submitted list. An empty list is valid and yields
// an empty workflow. Returns the persisted sequence in final order.
func (s *Service) Replace(ctx context.Context, inputs []StepInput) ([]Step, error) {
	steps := make([]Step, len(inputs))
	for i, in := range inputs {
		if in.Name == "" {
			return nil, fmt.Errorf("step %d: name is required", i+1)
		}
		id := in.ID
		if id == "" {
			id = fmt.Sprintf("step-%d", i+1)
		}
		steps[i] = Step{ID: id, Name: in.Name}
	}

	err := s.runTx(ctx, func(ctx context.Context) error {
		return s.steps.ReplaceAll(ctx, steps)
	})
	if err != nil {
		return nil, err
	}
	return steps, nil
}
