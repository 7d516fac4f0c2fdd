package http

import (
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/rainfall-explorer/internal/domain"
)

type errorResponse struct {
	Code    domain.ErrorCode  `json:"code"`
	Message string            `json:"message"`
	Form    *domain.FormState `json:"form,omitempty"`
	Elapsed string            `json:"elapsed,omitempty"`
}

// statusFor maps an error code to its HTTP status.
func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeStartAfterEnd, domain.CodeMissingCity, domain.CodeInvalidRequest:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeDisabled:
		return http.StatusServiceUnavailable
	case domain.CodeTransport, domain.CodeContract:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newErrorResponse(err error) (int, errorResponse) {
	code := domain.CodeOf(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		return status, errorResponse{Code: "internal", Message: "Internal server error."}
	}
	return status, errorResponse{Code: code, Message: domain.UserMessage(err)}
}

func writeError(w http.ResponseWriter, err error) {
	status, body := newErrorResponse(err)
	writeJSON(w, status, body)
}

// writeQueryError echoes the sanitized form so clients can show what was
// actually resolved.
func writeQueryError(w http.ResponseWriter, err error, form domain.FormState, elapsed string) {
	status, body := newErrorResponse(err)
	body.Form = &form
	body.Elapsed = elapsed
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	sharedobs.WriteJSON(w, status, v)
}
