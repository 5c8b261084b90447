// Package httpapi exposes the HTTP API layer of the recipe service.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairyhunter13/beerxml-recipe-service/internal/beerxml"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/fetch"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/recipes"
)

// jsonError is the body of every error response.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, Details: details})
}

// writeServiceError maps rendering failures onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var fe *fetch.FetchError
	switch {
	case errors.Is(err, recipes.ErrInvalidRequest):
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	case beerxml.IsParseError(err):
		WriteJSONError(w, http.StatusUnprocessableEntity, "parse_error", err.Error())
	case errors.As(err, &fe):
		WriteJSONError(w, http.StatusBadGateway, "fetch_error", err.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
