// ABOUTME: Status reconciliation for heterogeneous backend status representations
// ABOUTME: Single normalization boundary - nothing downstream re-inspects raw shapes

package message

import "strings"

// Canonical is the reconciled view of a raw status field.
type Canonical struct {
	State        Status
	ErrorMessage string
}

// Canonicalize maps an arbitrary raw status representation onto the canonical
// enum. The backend stores status in several historical shapes: a structured
// object with a nested state tag, a bare string, or nothing at all. Rules are
// applied in order and the first match wins, so the function is deterministic
// and idempotent. It never fails; unrecognized shapes fall through to the
// inference rules.
//
// Resolution order:
//  1. structured object with a recognized state tag -> mapped directly
//  2. bare string naming a canonical state ("errored" counts as error)
//  3. no recognized status but a non-empty answer -> completed
//  4. some unrecognized status value present -> processing
//  5. nothing at all -> pending
func Canonicalize(rawStatus any, rawAnswer string) Canonical {
	if c, ok := fromStructured(rawStatus); ok {
		return c
	}
	if c, ok := fromString(rawStatus); ok {
		return c
	}
	if strings.TrimSpace(rawAnswer) != "" {
		return Canonical{State: StatusCompleted}
	}
	if statusPresent(rawStatus) {
		return Canonical{State: StatusProcessing}
	}
	return Canonical{State: StatusPending}
}

// fromStructured handles the object shape: {"state": "...", "error": "..."}.
func fromStructured(raw any) (Canonical, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Canonical{}, false
	}
	tag, _ := obj["state"].(string)
	switch normalizeTag(tag) {
	case StatusCompleted:
		return Canonical{State: StatusCompleted}, true
	case StatusError:
		return Canonical{State: StatusError, ErrorMessage: errorText(obj)}, true
	case StatusProcessing:
		return Canonical{State: StatusProcessing}, true
	}
	return Canonical{}, false
}

// fromString handles the bare string shape.
func fromString(raw any) (Canonical, bool) {
	s, ok := raw.(string)
	if !ok {
		return Canonical{}, false
	}
	switch normalizeTag(s) {
	case StatusPending:
		return Canonical{State: StatusPending}, true
	case StatusProcessing:
		return Canonical{State: StatusProcessing}, true
	case StatusCompleted:
		return Canonical{State: StatusCompleted}, true
	case StatusError:
		return Canonical{State: StatusError}, true
	}
	return Canonical{}, false
}

// normalizeTag folds the case-insensitive state names onto the enum.
// Returns "" for anything unrecognized.
func normalizeTag(tag string) Status {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "pending":
		return StatusPending
	case "processing":
		return StatusProcessing
	case "completed":
		return StatusCompleted
	case "error", "errored":
		return StatusError
	}
	return ""
}

// errorText pulls the attached error detail out of a structured status.
// Older documents used "message" instead of "error".
func errorText(obj map[string]any) string {
	if s, ok := obj["error"].(string); ok && s != "" {
		return s
	}
	if s, ok := obj["errorMessage"].(string); ok && s != "" {
		return s
	}
	if s, ok := obj["message"].(string); ok && s != "" {
		return s
	}
	return ""
}

// statusPresent reports whether the raw field carries any value at all.
func statusPresent(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case map[string]any:
		return len(v) > 0
	}
	return true
}
