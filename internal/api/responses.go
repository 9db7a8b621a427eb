package api

import (
	"encoding/json"
	"net/http"

	apperrors "lwsbooking/internal/errors"
)

const maxBodyBytes = int64(65536)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	apperrors.WriteJSON(w, apperrors.ToHTTP(err))
}

// decode reads a bounded JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.ErrBadRequest("Invalid request body")
	}
	return nil
}
