package patient

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"
)

type mockRepo struct {
	patients map[string]*Patient
	seq      map[string]int
	next     int
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[string]*Patient), seq: make(map[string]int)}
}

func (m *mockRepo) Create(ctx context.Context, p *Patient) error {
	m.next++
	if p.ID == "" {
		p.ID = fmt.Sprintf("generated-%d", m.next)
	}
	m.seq[p.ID] = m.next
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.patients[id]
	return ok, nil
}

func (m *mockRepo) Update(ctx context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return ErrNotFound
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Search(ctx context.Context, filter string, limit, offset int) ([]*Patient, int, error) {
	var matched []*Patient
	f := strings.ToLower(filter)
	for _, p := range m.patients {
		if f == "" || m.matches(p, f) {
			matched = append(matched, p)
		}
	}
	// newest first by insertion order
	sort.Slice(matched, func(i, j int) bool {
		return m.seq[matched[i].ID] > m.seq[matched[j].ID]
	})

	total := len(matched)
	if limit < 0 {
		return matched, total, nil
	}
	if offset > len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (m *mockRepo) matches(p *Patient, f string) bool {
	if strings.Contains(strings.ToLower(p.Name), f) || strings.Contains(strings.ToLower(p.Phone), f) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), f) {
			return true
		}
	}
	return false
}

func (m *mockRepo) LockID(ctx context.Context, id string) error { return nil }

type mockVisitRepo struct {
	visits []*Visit
}

func (m *mockVisitRepo) ListByPatient(ctx context.Context, patientID string) ([]*Visit, error) {
	var out []*Visit
	for _, v := range m.visits {
		if v.PatientID == patientID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *mockVisitRepo) Create(ctx context.Context, v *Visit) error {
	m.visits = append(m.visits, v)
	return nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *mockRepo, *mockVisitRepo) {
	repo := newMockRepo()
	visits := &mockVisitRepo{}
	return NewService(repo, visits, passthroughTx), repo, visits
}

func TestCreatePatient(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Create(context.Background(), Input{
		Name:      "Dewi Rahmawati",
		Phone:     "0812-1111-2222",
		Tags:      []string{"Hipertensi", "", "  ", "Hipertensi"},
		Allergies: []string{"Penisilin", ""},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == "" {
		t.Error("expected a minted id")
	}
	if len(p.Tags) != 1 || p.Tags[0] != "Hipertensi" {
		t.Errorf("expected normalized tags [Hipertensi], got %v", p.Tags)
	}
	if len(p.Allergies) != 1 || p.Allergies[0] != "Penisilin" {
		t.Errorf("expected normalized allergies [Penisilin], got %v", p.Allergies)
	}
}

func TestCreatePatient_RequiresName(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Create(context.Background(), Input{}); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestUpdatePatient_PartialMerge(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Create(context.Background(), Input{
		Name:  "Budi Santoso",
		Phone: "0813-0000-0000",
		Notes: "original notes",
		Tags:  []string{"Asma"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newPhone := "0813-9999-9999"
	updated, err := svc.Update(context.Background(), p.ID, Update{
		Phone: &newPhone,
		Tags:  []string{"Asma", "Batuk", ""},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Phone != newPhone {
		t.Errorf("expected updated phone, got %s", updated.Phone)
	}
	if updated.Name != "Budi Santoso" {
		t.Errorf("expected name untouched, got %s", updated.Name)
	}
	if updated.Notes != "original notes" {
		t.Errorf("expected notes untouched, got %s", updated.Notes)
	}
	if len(updated.Tags) != 2 {
		t.Errorf("expected tags replaced with 2 normalized entries, got %v", updated.Tags)
	}
}

func TestUpdatePatient_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	name := "Nobody"
	_, err := svc.Update(context.Background(), "missing-id", Update{Name: &name})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertPatient_ExistingUpdates(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Create(context.Background(), Input{Name: "Siti Nur Aisyah"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	upserted, err := svc.Upsert(context.Background(), p.ID, Input{
		Name:  "Siti Nur Aisyah",
		Phone: "0815-1234-5678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if upserted.ID != p.ID {
		t.Errorf("expected same id %s, got %s", p.ID, upserted.ID)
	}
	if upserted.Phone != "0815-1234-5678" {
		t.Errorf("expected updated phone, got %s", upserted.Phone)
	}
}

func TestUpsertPatient_UnknownIDCreates(t *testing.T) {
	svc, repo, _ := newTestService()

	p, err := svc.Upsert(context.Background(), "no-such-id", Input{Name: "New Patient"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.ID == "no-such-id" {
		t.Error("expected a freshly minted id, got the supplied one")
	}
	if p.ID == "" {
		t.Error("expected a minted id")
	}
	if _, ok := repo.patients["no-such-id"]; ok {
		t.Error("expected no record stored under the supplied id")
	}
}

func TestUpsertPatient_EmptyIDCreates(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Upsert(context.Background(), "", Input{Name: "Another Patient"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == "" {
		t.Error("expected a minted id")
	}
}

func TestSearchPatients_FilterFields(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	svc.Create(ctx, Input{Name: "Dewi Rahmawati", Phone: "0812-1111-2222", Tags: []string{"Hipertensi"}})
	svc.Create(ctx, Input{Name: "Budi Santoso", Phone: "0813-3333-4444", Tags: []string{"Asma"}})

	cases := []struct {
		filter string
		want   int
	}{
		{"hiper", 1},
		{"DEWI", 1},
		{"0813", 1},
		{"asma", 1},
		{"santoso", 1},
		{"nomatch", 0},
		{"", 2},
	}
	for _, tc := range cases {
		items, total, err := svc.Search(ctx, tc.filter, 10, 0)
		if err != nil {
			t.Fatalf("filter %q: unexpected error: %v", tc.filter, err)
		}
		if total != tc.want || len(items) != tc.want {
			t.Errorf("filter %q: expected %d matches, got total=%d items=%d", tc.filter, tc.want, total, len(items))
		}
	}
}

func TestSearchPatients_Pagination(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		svc.Create(ctx, Input{Name: "Patient", Phone: "081"})
	}

	items, total, err := svc.Search(ctx, "patient", 2, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item at offset 4 with limit 2, got %d", len(items))
	}

	items, total, err = svc.Search(ctx, "patient", 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 || len(items) != 0 {
		t.Errorf("expected empty page past the end with total 5, got total=%d items=%d", total, len(items))
	}
}

func TestSearchPatients_UnpaginatedReturnsAll(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		svc.Create(ctx, Input{Name: "Patient"})
	}

	items, total, err := svc.Search(ctx, "", -1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Errorf("expected full set of 3, got total=%d items=%d", total, len(items))
	}
}

func TestListVisits_NewestFirst(t *testing.T) {
	svc, _, visits := newTestService()
	ctx := context.Background()

	p, _ := svc.Create(ctx, Input{Name: "Dewi Rahmawati"})
	old := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	visits.Create(ctx, &Visit{ID: "v1", PatientID: p.ID, Date: old, Doctor: "dr. Ahmad"})
	visits.Create(ctx, &Visit{ID: "v2", PatientID: p.ID, Date: recent, Doctor: "dr. Ahmad"})
	visits.Create(ctx, &Visit{ID: "v3", PatientID: "someone-else", Date: recent, Doctor: "dr. Sari"})

	got, err := svc.ListVisits(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 visits, got %d", len(got))
	}
	if got[0].ID != "v2" || got[1].ID != "v1" {
		t.Errorf("expected newest-first order [v2 v1], got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestNormalizeLabels(t *testing.T) {
	got := normalizeLabels([]string{" a ", "", "b", "a", "  "})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("expected [a b], got %v", got)
	}
}
