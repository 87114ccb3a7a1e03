package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
)

func invalidParam(field, msg string, cause error, extra map[string]any) *pkgerrors.Error {
	details := map[string]any{"field": field}
	for k, v := range extra {
		details[k] = v
	}
	var err *pkgerrors.Error
	if cause != nil {
		err = pkgerrors.Wrap(pkgerrors.CodeValidation, cause, msg)
	} else {
		err = pkgerrors.New(pkgerrors.CodeValidation, msg)
	}
	return err.WithDetails(details)
}

func queryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// ParseQueryInt reads an optional integer parameter bounded by [min, max].
func ParseQueryInt(r *http.Request, key string, fallback, min, max int) (int, error) {
	raw := queryValue(r, key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(key, key+" must be an integer", nil, nil)
	}
	if n < min || n > max {
		return 0, invalidParam(key, key+" out of range", nil, map[string]any{"min": min, "max": max})
	}
	return n, nil
}

// ParseQueryUUID reads an optional uuid filter. Absent parameters yield nil.
func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := queryValue(r, key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalidParam(key, key+" must be a uuid", err, nil)
	}
	return &id, nil
}

// ParsePathUUID reads a required chi route parameter as a uuid.
func ParsePathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return uuid.Nil, invalidParam(key, key+" is required", nil, nil)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalidParam(key, "invalid "+key, err, nil)
	}
	return id, nil
}
