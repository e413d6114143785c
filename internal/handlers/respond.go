package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/ecommerce-cloud/backend/internal/services"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1_048_576

// decodeJSON reads exactly one JSON object into dst and validates it. On
// failure it has already written the error response.
func decodeJSON(w http.ResponseWriter, r *http.Request, v *services.ValidationHelper, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}

	if err := v.ValidateStruct(dst); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// pathID parses an integer URL parameter, answering 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		services.SendErrorResponse(w, "Invalid "+name, http.StatusBadRequest, nil)
		return 0, false
	}
	return id, true
}

func internalError(w http.ResponseWriter, tag string, err error) {
	log.Printf("[%s] %v", tag, err)
	services.SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
}

// outcomeStatus maps a non-OK outcome to its HTTP status.
func outcomeStatus(o services.Outcome) int {
	switch o {
	case services.OutcomeNotFound:
		return http.StatusNotFound
	case services.OutcomeForbidden:
		return http.StatusForbidden
	case services.OutcomeConflict:
		return http.StatusConflict
	case services.OutcomeDeclined:
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}
