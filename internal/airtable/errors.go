package airtable

import (
	"encoding/json"
	"fmt"
)

// APIError is a non-retryable error response from the Airtable API (4xx other
// than 429). Type and Message come from Airtable's error envelope.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("airtable: %d %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("airtable: unexpected status %d", e.StatusCode)
}

// errorEnvelope is Airtable's error body: {"error": {"type": ..., "message": ...}}.
// Some endpoints return a bare string under "error" instead; both shapes decode
// into errorBody.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Type    string
	Message string
}

func (b *errorBody) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		b.Message = s
		return nil
	}
	var obj struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	b.Type = obj.Type
	b.Message = obj.Message
	return nil
}
