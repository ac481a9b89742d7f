// Package respond writes handler responses.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chris/topup-webhook-bridge/pkg/api"
)

// JSON writes v as a JSON body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// Error writes an api.Error body.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, api.Error{Error: message})
}
