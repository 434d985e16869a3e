package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with full technical detail server-side and returned
// to the client as a user-friendly message with a support code: JSON for
// /api routes, an error banner on the upload page otherwise.

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/CrawlClean/internal/core"
	"github.com/JonMunkholm/CrawlClean/internal/web/templates"
	"github.com/go-chi/chi/v5/middleware"
)

// errNoFile is returned when a multipart request carries no "file" part.
var errNoFile = errors.New("no file provided")

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error      string           `json:"error"`
	Message    string           `json:"message"`
	Action     string           `json:"action,omitempty"`
	Code       string           `json:"code"`
	Validation *core.Validation `json:"validation,omitempty"`
}

// respondError logs err and answers with its user-facing form.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	if wantsJSON(r) {
		resp := ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
		}
		var mismatch *core.MismatchError
		if errors.As(err, &mismatch) {
			resp.Message = mismatch.Validation.Message
			resp.Validation = &mismatch.Validation
		}
		writeJSONStatus(w, statusCode, resp)
		return
	}

	s.renderPage(w, r, statusCode, templates.PageData{
		Selected: r.FormValue("retailer"),
		Banner:   errorBanner(err, userMsg),
	})
}

// errorBanner builds the upload page banner for a failed run. Mismatches and
// missing columns carry their own specific message.
func errorBanner(err error, msg core.UserMessage) *templates.Banner {
	b := &templates.Banner{Kind: templates.BannerError, Action: msg.Action, Code: msg.Code}

	var mismatch *core.MismatchError
	var missing *core.MissingColumnError
	switch {
	case errors.As(err, &mismatch):
		b.Message = mismatch.Validation.Message
	case errors.As(err, &missing):
		b.Message = "Error processing file: " + missing.Error()
	default:
		b.Message = "Error processing file: " + msg.Message
	}
	return b
}

// statusFor maps a clean or validate failure to an HTTP status.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrUnknownRetailer),
		errors.Is(err, core.ErrEmptyFile),
		errors.Is(err, core.ErrUnsupportedFile),
		errors.Is(err, errNoFile):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrRetailerMismatch),
		errors.Is(err, core.ErrMissingRequiredColumn):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrTooManyRuns):
		return http.StatusServiceUnavailable
	case strings.Contains(err.Error(), "invalid spreadsheet"),
		strings.Contains(err.Error(), "invalid csv"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}

	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
