package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sandeepkv93/storefront-crud-api/internal/http/response"
	"github.com/sandeepkv93/storefront-crud-api/internal/observability"
	"github.com/sandeepkv93/storefront-crud-api/internal/validation"
)

// decodePayload reads the body as a JSON object. An empty body decodes to an
// empty object so required-field rules report it. It writes the failure
// response itself and returns ok=false when the body is unusable.
func decodePayload(w http.ResponseWriter, r *http.Request, resource string) (map[string]any, bool) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			response.Error(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		respondValidation(w, r, resource, []validation.FieldError{validation.BodyError(err)})
		return nil, false
	}
	payload := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return payload, true
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		respondValidation(w, r, resource, []validation.FieldError{validation.BodyError(err)})
		return nil, false
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, true
}

func respondValidation(w http.ResponseWriter, r *http.Request, resource string, errs []validation.FieldError) {
	for _, e := range errs {
		observability.RecordValidationFailure(r.Context(), resource, e.Path)
	}
	response.ValidationFailed(w, r, errs)
}

func respondInternal(w http.ResponseWriter, r *http.Request, event, message string, err error) {
	slog.ErrorContext(r.Context(), event, "error", err)
	response.Error(w, r, http.StatusInternalServerError, message)
}

// stringField reads a text field. Rule sets reject non-string values before
// this runs, so anything else reads as empty.
func stringField(payload map[string]any, key string) string {
	v, _ := payload[key].(string)
	return v
}

func optionalString(payload map[string]any, key string) *string {
	if _, ok := payload[key]; !ok {
		return nil
	}
	v := stringField(payload, key)
	return &v
}

func optionalBool(payload map[string]any, key string) *bool {
	v, ok := payload[key].(bool)
	if !ok {
		return nil
	}
	return &v
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
