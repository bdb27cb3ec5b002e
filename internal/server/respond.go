package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/CORaleigh/NextCenturyCities/pkg/building"
	"github.com/CORaleigh/NextCenturyCities/pkg/scenario"
	"github.com/CORaleigh/NextCenturyCities/pkg/source"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondWithJSON writes payload as the response body.
func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteJSONError writes an error body.
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	RespondWithJSON(w, status, ErrorResponse{Error: message})
}

// statusFor maps store and domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, scenario.ErrUnknownBuildingID):
		return http.StatusNotFound
	case errors.Is(err, scenario.ErrInvalidSampleSize):
		return http.StatusBadRequest
	case errors.Is(err, scenario.ErrNotDragging),
		errors.Is(err, scenario.ErrNoPendingLocation),
		errors.Is(err, scenario.ErrDuplicateBuildingID):
		return http.StatusConflict
	case errors.Is(err, building.ErrInvalidRecord),
		errors.Is(err, building.ErrInvalidStoryCount),
		errors.Is(err, building.ErrInvalidDimension),
		errors.Is(err, building.ErrUnknownField):
		return http.StatusUnprocessableEntity
	case errors.Is(err, source.ErrInvalidResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := loggerFrom(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	} else {
		logger.Debug("request rejected", "status", status, "error", err)
	}
	WriteJSONError(w, status, err.Error())
}

func decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
