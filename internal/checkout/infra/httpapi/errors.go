package httpapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PurchaseError is a non-2xx answer from the purchase endpoint.
type PurchaseError struct {
	Status  int
	Message string
}

func (e *PurchaseError) Error() string { return e.Message }

// ExtractErrorMessage picks the message a user should see for a rejected
// purchase. Precedence: a top-level "error" string, then "error.message",
// then a top-level "message", then a generic text naming the status.
func ExtractErrorMessage(status int, body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		if raw, ok := payload["error"]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
			var env struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(raw, &env) == nil && strings.TrimSpace(env.Message) != "" {
				return strings.TrimSpace(env.Message)
			}
		}
		if raw, ok := payload["message"]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return fmt.Sprintf("purchase failed (HTTP %d)", status)
}
