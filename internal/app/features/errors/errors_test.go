package errors_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/system/inputval"
	"go.uber.org/zap"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) uierrors.Body {
	t.Helper()
	var b uierrors.Body
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("body is not JSON: %v (%s)", err, rec.Body.String())
	}
	return b
}

func TestRenderNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/setores/x", nil)

	uierrors.RenderNotFound(rec, req, "Sector unavailable")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	b := decode(t, rec)
	if b.Error != "not_found" || b.Message != "Sector unavailable" {
		t.Errorf("body = %+v", b)
	}
}

func TestErrorLogger_LogServerError(t *testing.T) {
	errLog := uierrors.NewErrorLogger(zap.NewNop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/populacao", nil)

	errLog.LogServerError(rec, req, "database error", errors.New("boom"), "A database error occurred.")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if b := decode(t, rec); b.Error != "server_error" || b.Message != "A database error occurred." {
		t.Errorf("body = %+v", b)
	}
}

func TestRenderValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	res := &inputval.Result{Errors: []inputval.FieldError{{Field: "Name", Message: "Name is required."}}}

	uierrors.RenderValidation(rec, req, res)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	b := decode(t, rec)
	if b.Error != "validation_failed" || len(b.Fields) != 1 || b.Message != "Name is required." {
		t.Errorf("body = %+v", b)
	}
}
