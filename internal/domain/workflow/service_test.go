package workflow

import (
	"context"
	"testing"
)

type mockRepo struct {
	steps []Step
}

func (m *mockRepo) List(ctx context.Context) ([]Step, error) {
	out := make([]Step, len(m.steps))
	copy(out, m.steps)
	return out, nil
}

func (m *mockRepo) ReplaceAll(ctx context.Context, steps []Step) error {
	m.steps = make([]Step, len(steps))
	copy(m.steps, steps)
	return nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *mockRepo) {
	repo := &mockRepo{}
	return NewService(repo, passthroughTx), repo
}

func TestReplace_KeepsSubmittedOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	got, err := svc.Replace(ctx, []StepInput{
		{ID: "wf-1", Name: "Registrasi"},
		{ID: "wf-2", Name: "Pemeriksaan"},
		{ID: "wf-3", Name: "Obat"},
		{ID: "wf-4", Name: "Pembayaran"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(got))
	}

	stored, _ := svc.Get(ctx)
	names := []string{"Registrasi", "Pemeriksaan", "Obat", "Pembayaran"}
	for i, want := range names {
		if stored[i].Name != want {
			t.Errorf("position %d: expected %s, got %s", i+1, want, stored[i].Name)
		}
	}
}

func TestReplace_SynthesizesIDsFromPosition(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	got, err := svc.Replace(ctx, []StepInput{
		{ID: "keep-me", Name: "Registrasi"},
		{Name: "Pemeriksaan"},
		{Name: "Obat"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got[0].ID != "keep-me" {
		t.Errorf("expected supplied id preserved, got %s", got[0].ID)
	}
	if got[1].ID != "step-2" {
		t.Errorf("expected step-2 for second unlabeled step, got %s", got[1].ID)
	}
	if got[2].ID != "step-3" {
		t.Errorf("expected step-3 for third unlabeled step, got %s", got[2].ID)
	}
}

func TestReplace_DiscardsPreviousSequence(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	svc.Replace(ctx, []StepInput{{Name: "Registrasi"}, {Name: "Pemeriksaan"}})

	got, err := svc.Replace(ctx, []StepInput{{Name: "Obat"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 step after shrink, got %d", len(got))
	}
	if got[0].ID != "step-1" || got[0].Name != "Obat" {
		t.Errorf("expected [{step-1 Obat}], got %+v", got)
	}

	stored, _ := svc.Get(ctx)
	if len(stored) != 1 {
		t.Errorf("expected the old sequence fully discarded, got %+v", stored)
	}
}

func TestReplace_EmptyListIsValid(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	svc.Replace(ctx, []StepInput{{Name: "Registrasi"}})

	got, err := svc.Replace(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty workflow, got %+v", got)
	}

	stored, _ := svc.Get(ctx)
	if len(stored) != 0 {
		t.Errorf("expected empty stored workflow, got %+v", stored)
	}
}

func TestReplace_RequiresName(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	svc.Replace(ctx, []StepInput{{Name: "Registrasi"}})

	_, err := svc.Replace(ctx, []StepInput{{Name: "Obat"}, {Name: ""}})
	if err == nil {
		t.Fatal("expected error for missing step name")
	}
	if len(repo.steps) != 1 || repo.steps[0].Name != "Registrasi" {
		t.Errorf("expected stored sequence untouched after failure, got %+v", repo.steps)
	}
}
