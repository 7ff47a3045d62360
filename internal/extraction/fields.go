// Package extraction turns raw transcription and vision output into
// scored lead records. The scorer, fallback composer, and assembler are
// pure functions with no I/O, safe to call concurrently.
package extraction

import "strings"

// CandidateFields is the extractor's best-effort structured guess at
// the contact on a recording or card. Every value is untrusted until
// scored. Absent means nil, never "".
type CandidateFields struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Company  *string `json:"company"`
	Interest *string `json:"interest"`
}

// fieldLabels fixes the order fields appear in remarks and scoring.
var fieldLabels = []string{"Name", "Email", "Phone", "Company", "Interest"}

func (f CandidateFields) ordered() []*string {
	return []*string{f.Name, f.Email, f.Phone, f.Company, f.Interest}
}

// Empty reports whether every field is absent or blank.
func (f CandidateFields) Empty() bool {
	for _, v := range f.ordered() {
		if present(v) {
			return false
		}
	}
	return true
}

// Normalize returns a copy with each value trimmed and blank values
// replaced by nil, so downstream logic can rely on a canonical shape.
// Extraction models routinely return "" where they mean unknown.
func (f CandidateFields) Normalize() CandidateFields {
	return CandidateFields{
		Name:     cleaned(f.Name),
		Email:    cleaned(f.Email),
		Phone:    cleaned(f.Phone),
		Company:  cleaned(f.Company),
		Interest: cleaned(f.Interest),
	}
}

func cleaned(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

func present(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}
