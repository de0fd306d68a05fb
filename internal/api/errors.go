package api

import (
	"encoding/json"
	"net/http"
)

// APIError is the error body every endpoint returns.
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Error codes.
const (
	CodeBadRequest = "bad_request"
	CodeInvalid    = "invalid_submission"
	CodeNotFound   = "not_found"
	CodeStore      = "store_error"
)

func writeError(w http.ResponseWriter, status int, errMsg, code string) {
	writeJSON(w, status, APIError{
		Error:   http.StatusText(status),
		Code:    code,
		Message: errMsg,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
