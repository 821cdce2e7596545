package handler

import (
	"encoding/json"
	"net/http"

	dErrors "talentflow/pkg/domain-errors"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError centralizes domain error translation so every endpoint
// returns the same JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	writeJSON(w, dErrors.ToHTTPStatus(code), errorResponse{
		Error:   string(code),
		Message: dErrors.MessageOf(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
