package web

import (
	"encoding/json"
	"net/http"
)

// Error codes returned in the response envelope. The client distinguishes
// TOKEN_EXPIRED from INVALID_TOKEN because the remedy differs: refresh the
// access token versus log in again.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes a success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, envelope{Success: true, Data: data})
}

// Message writes a success envelope with no data payload.
func Message(w http.ResponseWriter, status int, msg string) {
	write(w, status, envelope{Success: true, Message: msg})
}

// Fail writes a failure envelope with an error code and human-readable message.
func Fail(w http.ResponseWriter, status int, code, msg string) {
	write(w, status, envelope{Success: false, Message: msg, Error: code})
}

// Internal writes a generic 500; the underlying error stays server-side.
func Internal(w http.ResponseWriter) {
	Fail(w, http.StatusInternalServerError, CodeInternal, "something went wrong")
}

func write(w http.ResponseWriter, status int, v envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
