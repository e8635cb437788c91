package domain

import (
	"strings"

	dErrors "rxcampus/pkg/domain-errors"
)

// RecordID is an Airtable record identifier ("rec" + 14 alphanumerics).
// Content entities keep their source record ID through the mirror so a row
// can always be traced back to the spreadsheet it came from.
type RecordID string

// ParseRecordID validates external input against Airtable's record ID shape.
// Errors: CodeInvalidInput when the prefix or length is wrong.
func ParseRecordID(s string) (RecordID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "record id cannot be empty")
	}
	if !strings.HasPrefix(s, "rec") || len(s) != 17 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid record id")
	}
	for _, r := range s[3:] {
		if !isAlnum(r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "invalid record id")
		}
	}
	return RecordID(s), nil
}

func (id RecordID) String() string { return string(id) }

func (id RecordID) IsNil() bool { return id == "" }

func isAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
