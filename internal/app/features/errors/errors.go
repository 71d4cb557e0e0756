// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/municipio/internal/app/system/inputval"
	"github.com/dalemusser/municipio/internal/app/system/respond"
)

// Body is the JSON shape of every error response.
type Body struct {
	Error   string                `json:"error"`
	Message string                `json:"message"`
	Fields  []inputval.FieldError `json:"fields,omitempty"`
}

// Error codes used in Body.Error.
const (
	CodeBadRequest     = "bad_request"
	CodeValidation     = "validation_failed"
	CodeUnauthorized   = "unauthorized"
	CodeForbidden      = "forbidden"
	CodeNotFound       = "not_found"
	CodeConflict       = "conflict"
	CodeServerError    = "server_error"
	CodeNotImplemented = "not_implemented"
	CodeUnavailable    = "unavailable"
)

// Render writes an error body with status.
func Render(w http.ResponseWriter, status int, code, msg string) {
	respond.JSON(w, status, Body{Error: code, Message: msg})
}

// RenderBadRequest answers 400.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	Render(w, http.StatusBadRequest, CodeBadRequest, msg)
}

// RenderValidation answers 400 with the failed fields.
func RenderValidation(w http.ResponseWriter, r *http.Request, res *inputval.Result) {
	respond.JSON(w, http.StatusBadRequest, Body{
		Error:   CodeValidation,
		Message: res.First(),
		Fields:  res.Errors,
	})
}

// RenderUnauthorized answers 401.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request) {
	Render(w, http.StatusUnauthorized, CodeUnauthorized, "Please sign in to continue.")
}

// RenderForbidden answers 403.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "You don't have permission to perform this action."
	}
	Render(w, http.StatusForbidden, CodeForbidden, msg)
}

// RenderNotFound answers 404.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	Render(w, http.StatusNotFound, CodeNotFound, msg)
}

// RenderConflict answers 409.
func RenderConflict(w http.ResponseWriter, r *http.Request, msg string) {
	Render(w, http.StatusConflict, CodeConflict, msg)
}

// RenderNotImplemented answers 501.
func RenderNotImplemented(w http.ResponseWriter, r *http.Request, msg string) {
	Render(w, http.StatusNotImplemented, CodeNotImplemented, msg)
}
