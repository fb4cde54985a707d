package helpers

import (
	"net/http"

	"github.com/google/uuid"
)

// PathID returns the named path value when it is a well-formed UUID. Otherwise it writes 404
// and returns false.
func PathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id, ok := ParseID(r.PathValue(name))
	if !ok {
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "not found")
		return "", false
	}
	return id, true
}

// ParseID normalises s to the canonical UUID form. ok is false for anything else.
func ParseID(s string) (string, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
