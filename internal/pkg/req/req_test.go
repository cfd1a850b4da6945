package req

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"travelog/internal/pkg/errs"
)

type sample struct {
	Name string `json:"name"`
}

func jsonRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestBindJSON(t *testing.T) {
	var dst sample
	if customErr := BindJSON(jsonRequest(`{"name":"Al"}`), &dst); customErr != nil {
		t.Fatalf("BindJSON returned error: %v", customErr)
	}
	if dst.Name != "Al" {
		t.Errorf("Name = %q, want Al", dst.Name)
	}
}

func TestBindJSONWrongContentType(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Al"}`))
	r.Header.Set("Content-Type", "text/plain")

	var dst sample
	customErr := BindJSON(r, &dst)
	if customErr == nil || customErr.Code != errs.ErrUnsupportedMediaType {
		t.Errorf("expected ErrUnsupportedMediaType, got %v", customErr)
	}
}

func TestBindJSONMalformed(t *testing.T) {
	var dst sample
	customErr := BindJSON(jsonRequest(`{"name":`), &dst)
	if customErr == nil || customErr.Code != errs.ErrInvalidJSONFormat {
		t.Errorf("expected ErrInvalidJSONFormat, got %v", customErr)
	}
}

func TestBindJSONUnknownField(t *testing.T) {
	var dst sample
	customErr := BindJSON(jsonRequest(`{"name":"Al","extra":1}`), &dst)
	if customErr == nil || customErr.Code != errs.ErrInvalidJSONFormat {
		t.Errorf("expected ErrInvalidJSONFormat for unknown field, got %v", customErr)
	}
}

func TestBindJSONTrailingContent(t *testing.T) {
	var dst sample
	customErr := BindJSON(jsonRequest(`{"name":"Al"}{"name":"B"}`), &dst)
	if customErr == nil || customErr.Code != errs.ErrExtraContentInBody {
		t.Errorf("expected ErrExtraContentInBody, got %v", customErr)
	}
}
