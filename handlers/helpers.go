package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"shelfscout/internal/apperr"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps service errors onto HTTP statuses. Anything not
// classified by the service layer is a 500 with the detail kept server-side.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case apperr.IsNotFound(err):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		respondWithError(w, http.StatusConflict, "conflicting concurrent update, please retry")
	default:
		log.Printf("internal error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
