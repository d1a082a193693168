package api

import (
	"encoding/json"
	"net/http"

	apperrors "carrental/internal/errors"
)

type errorResponse struct {
	Error       string      `json:"error"`
	Reservation interface{} `json:"reservation,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	httpErr := apperrors.FromError(err)
	writeJSON(w, httpErr.Code, errorResponse{Error: httpErr.Message})
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.ErrBadRequest("invalid request body")
	}
	return nil
}
