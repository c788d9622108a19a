// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler sends JSON back to the client. Rather than repeating the
// same three lines (set header, set status, encode JSON) in every handler,
// they are centralised here, and error bodies always share one shape.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aanand-mishra/records-api/internal/validation"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope returned for error cases.
//
// Success responses return the record (or list) itself. Error responses
// always look like:
//
//	{ "status": "error", "error": "...", "message": "..." }
//
// "message" duplicates "error" so clients written against either key can
// show it. Validation failures add "fields", keyed by JSON field name.
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status  string            `json:"status"`
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// MessageBody is the { "message": "..." } shape used by delete and by
// update/delete not-found answers.
type MessageBody struct {
	Message string `json:"message"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes data as JSON with the given status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into the standard Response shape.
// Use this for unexpected errors (DB failures, decode errors, etc.)
//
//	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
func GeneralError(err error) Response {
	return Response{
		Status:  StatusError,
		Error:   err.Error(),
		Message: err.Error(),
	}
}

// ValidationError renders the ordered validation failures. The combined
// message is exactly what the console form shows in its alert.
func ValidationError(errs validation.Errors) Response {
	return Response{
		Status:  StatusError,
		Error:   errs.Message(),
		Message: errs.Message(),
		Fields:  errs.Fields(),
	}
}

func Message(msg string) MessageBody {
	return MessageBody{Message: msg}
}
