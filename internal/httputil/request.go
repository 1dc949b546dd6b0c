package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// MaxBodyBytes caps request bodies; block documents are the largest payloads.
const MaxBodyBytes = 10 << 20

// ParseJSON decodes the request body into dest. Unknown fields are allowed
// since row values and view configs are free-form maps.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
