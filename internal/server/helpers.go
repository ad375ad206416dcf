package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/woozymasta/rflink/internal/fresnel"
	"github.com/woozymasta/rflink/internal/geo"
	"github.com/woozymasta/rflink/internal/registry"

	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeFailure maps domain errors onto HTTP status codes.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, geo.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, geo.ErrOutOfDomain):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, registry.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, registry.ErrFrequencyMismatch),
		errors.Is(err, registry.ErrDuplicateLink),
		errors.Is(err, registry.ErrSelfLink):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		writeError(w, r, status, "internal server error")
		return
	}

	writeError(w, r, status, err.Error())
}

// decodeBody reads exactly one JSON object into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid json body: %v", geo.ErrInvalidInput, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("%w: body must contain only one JSON object", geo.ErrInvalidInput)
	}

	return nil
}

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", geo.ErrInvalidInput, name)
	}
	return v, nil
}

// querySegments reads ?segments=N, falling back to def.
func querySegments(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("segments")
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 3 || n > fresnel.MaxSegments {
		return 0, fmt.Errorf("%w: segments must be an integer in [3, %d]", geo.ErrInvalidInput, fresnel.MaxSegments)
	}
	return n, nil
}
