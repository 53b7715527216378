package patient

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a patient lookup or update targets an
// identifier that does not exist.
var ErrNotFound = errors.New("patient not found")

// Patient maps to the patients table.
type Patient struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      string     `db:"gender" json:"gender,omitempty"`
	Phone       string     `db:"phone" json:"phone,omitempty"`
	Address     string     `db:"address" json:"address,omitempty"`
	Notes       string     `db:"notes" json:"notes,omitempty"`
	Allergies   []string   `db:"allergies" json:"allergies"`
	Tags        []string   `db:"tags" json:"tags"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Visit maps to the visits table. Visits are append-only history; there is
// no mutation surface for them.
type Visit struct {
	ID           string     `db:"id" json:"id"`
	PatientID    string     `db:"patient_id" json:"patient_id"`
	Date         time.Time  `db:"date" json:"date"`
	Doctor       string     `db:"doctor" json:"doctor"`
	Reason       string     `db:"reason" json:"reason"`
	Notes        string     `db:"notes" json:"notes,omitempty"`
	Prescription *string    `db:"prescription" json:"prescription,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// Input carries the fields accepted on create and upsert-as-create.
type Input struct {
	Name        string     `json:"name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
	Notes       string     `json:"notes"`
	Allergies   []string   `json:"allergies"`
	Tags        []string   `json:"tags"`
}

// Update is an explicit partial-update structure. A nil field means "leave
// untouched"; a non-nil field replaces the stored value. Allergies and Tags,
// when present, replace the stored set wholesale after normalization.
type Update struct {
	Name        *string    `json:"name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *string    `json:"gender"`
	Phone       *string    `json:"phone"`
	Address     *string    `json:"address"`
	Notes       *string    `json:"notes"`
	Allergies   []string   `json:"allergies"`
	Tags        []string   `json:"tags"`
}

// normalizeLabels drops empty and whitespace-only entries and deduplicates
// while preserving first-seen order.
func normalizeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
