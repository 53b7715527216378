package workflow

// Step is one entry of the clinic's single ordered checklist. Position is
// 1-based and contiguous; it is defined by the step's place in the sequence,
// not stored on the wire.
type Step struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// StepInput is one submitted step descriptor. The identifier is optional; a
// missing identifier is synthesized from the step's 1-based position in the
// submitted list.
type StepInput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
