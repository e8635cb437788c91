package domain

import dErrors "rxcampus/pkg/domain-errors"

// Category identifies one section of the resource library.
// Invariant: the value must be one of the supported categories.
//
// Usage: construct via ParseCategory at trust boundaries (query params, plan
// files) to enforce the allowlist; direct casting bypasses validation.
type Category string

// Supported resource categories, in display order.
const (
	CategoryProtocolManuals    Category = "protocol-manuals"
	CategoryDocumentationForms Category = "documentation-forms"
	CategoryAdditionalResource Category = "additional-resources"
	CategoryPatientHandouts    Category = "patient-handouts"
	CategoryClinicalGuidelines Category = "clinical-guidelines"
	CategoryMedicalBilling     Category = "medical-billing"
)

// categoryOrder is the single source of truth for valid categories and their
// position in merged library listings.
var categoryOrder = map[Category]int{
	CategoryProtocolManuals:    1,
	CategoryDocumentationForms: 2,
	CategoryAdditionalResource: 3,
	CategoryPatientHandouts:    4,
	CategoryClinicalGuidelines: 5,
	CategoryMedicalBilling:     6,
}

// Categories returns all supported categories in display order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	for c, i := range categoryOrder {
		out[i-1] = c
	}
	return out
}

// ParseCategory constructs a Category from external input.
// Errors: CodeInvalidInput when the value is empty or unsupported.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "category cannot be empty")
	}
	c := Category(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown category")
	}
	return c, nil
}

// IsValid checks membership in the supported set.
func (c Category) IsValid() bool {
	_, ok := categoryOrder[c]
	return ok
}

// Order returns the display position of the category; unknown categories sort
// last.
func (c Category) Order() int {
	if i, ok := categoryOrder[c]; ok {
		return i
	}
	return len(categoryOrder) + 1
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}
