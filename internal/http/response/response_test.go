package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sandeepkv93/storefront-crud-api/internal/validation"
)

func TestErrorShape(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	Error(rr, req, http.StatusNotFound, "product not found")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "product not found" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestValidationFailedShape(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	ValidationFailed(rr, req, []validation.FieldError{
		{Type: "field", Msg: "name is required", Path: "name", Location: validation.LocationBody},
		{Type: "field", Value: "abc", Msg: "price must be numeric", Path: "price", Location: validation.LocationBody},
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var body struct {
		Errors []map[string]any `json:"errors"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Errors) != 2 || body.Errors[0]["path"] != "name" || body.Errors[1]["value"] != "abc" {
		t.Fatalf("unexpected errors payload: %+v", body.Errors)
	}
}

func TestDataWrapsEmptySliceAsArray(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	Data(rr, req, http.StatusOK, []string{})

	if got := rr.Body.String(); got != "{\"data\":[]}\n" {
		t.Fatalf("unexpected body %q", got)
	}
}
