package response

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// detailer is implemented by errors that carry a caller-facing message.
type detailer interface {
	Detail() string
}

// JSON writes v as the response body.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes an error response. Errors without a caller-facing message are
// reported generically.
func Error(w http.ResponseWriter, status int, err error) {
	msg := "an internal error occurred"

	var d detailer
	if errors.As(err, &d) {
		msg = d.Detail()
	}

	Detail(w, status, msg)
}

// Detail writes an error response with an explicit message.
func Detail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorResponse{Detail: msg})
}
