package domain

import dErrors "talentflow/pkg/domain-errors"

// Classification is the sensitivity tag attached to a form at creation
// time. It drives every access rule in the assignment module: mental-health
// data is restricted to HR regardless of seniority.
type Classification string

const (
	ClassificationPerformance  Classification = "performance"
	ClassificationMentalHealth Classification = "mental_health"
)

var validClassifications = map[Classification]bool{
	ClassificationPerformance:  true,
	ClassificationMentalHealth: true,
}

// ParseClassification constructs a Classification from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseClassification(s string) (Classification, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "classification cannot be empty")
	}
	c := Classification(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid classification")
	}
	return c, nil
}

// IsValid checks if the classification is one of the supported enum values.
func (c Classification) IsValid() bool {
	return validClassifications[c]
}

// String returns the string representation of the classification.
func (c Classification) String() string {
	return string(c)
}

// AccessContext names the code path requesting classified data. Reporting
// paths carry stricter separation rules than direct views.
type AccessContext string

const (
	ContextView   AccessContext = "view"
	ContextReport AccessContext = "report"
)
