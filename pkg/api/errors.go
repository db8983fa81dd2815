package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"shopsearch-base/pkg/models"
)

// ErrorResponse is the only failure shape clients ever see: a single error
// string, no upstream detail, no stack traces.
type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, &ErrorResponse{Error: message})
}

func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteFromError maps a typed adapter error to its client response. Config
// errors name the missing value; everything else collapses to the generic
// per-route fallback message with the detail kept in server logs.
func WriteFromError(w http.ResponseWriter, err error, fallback string) {
	var configErr *models.ConfigError
	if errors.As(err, &configErr) {
		WriteError(w, http.StatusInternalServerError, configErr.Error())
		return
	}
	WriteError(w, http.StatusInternalServerError, fallback)
}
