package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sandeepkv93/storefront-crud-api/internal/validation"
)

// JSON writes v as the response body with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.WarnContext(r.Context(), "response.encode_failed", "status", status, "error", err)
	}
}

// Error writes the {"error": message} failure shape.
func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, map[string]string{"error": message})
}

// ValidationFailed writes a 400 with the ordered field errors under "errors".
func ValidationFailed(w http.ResponseWriter, r *http.Request, errs []validation.FieldError) {
	if errs == nil {
		errs = []validation.FieldError{}
	}
	JSON(w, r, http.StatusBadRequest, map[string]any{"errors": errs})
}

// Data wraps v under "data".
func Data(w http.ResponseWriter, r *http.Request, status int, v any) {
	JSON(w, r, status, map[string]any{"data": v})
}
