package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/cargofree/cargo-free/internal/errors"
)

// ErrorResponder writes an error body for a failed request.
type ErrorResponder func(http.ResponseWriter, *http.Request, error)

var respondWithError ErrorResponder = apperrors.RespondWithError

// SetErrorResponder lets the server install its central error handler.
// nil restores the default.
func SetErrorResponder(responder ErrorResponder) {
	if responder == nil {
		responder = apperrors.RespondWithError
	}
	respondWithError = responder
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
