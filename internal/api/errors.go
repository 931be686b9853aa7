package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-importwizard/pkg/template"
	"github.com/goliatone/go-importwizard/pkg/wizard"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// httpStatusFromError maps workflow errors to HTTP status codes. Unknown
// configuration is the caller's fault, lifecycle violations are conflicts,
// anything unexpected is a 500.
func httpStatusFromError(err error) int {
	var cfg *template.ConfigurationError
	switch {
	case errors.As(err, &cfg):
		return http.StatusBadRequest
	case errors.Is(err, wizard.ErrMappingIncomplete),
		errors.Is(err, wizard.ErrNoInput),
		errors.Is(err, wizard.ErrNoTemplate),
		errors.Is(err, wizard.ErrPreviewNotRequested):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeErrorStatus(w, httpStatusFromError(err), err)
}

func writeErrorStatus(w http.ResponseWriter, code int, err error) {
	message := http.StatusText(code)
	if err != nil {
		message = err.Error()
	}
	writeJSON(w, code, errorResponse{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}
