package lead

import (
	"errors"
	"net/http"
	"time"
)

var (
	ErrRateLimited            = errors.New("rate limited")
	ErrMalformedPayload       = errors.New("malformed payload")
	ErrProviderDeliveryFailed = errors.New("provider delivery failed")
	ErrInternal               = errors.New("internal error")
)

// Client-visible messages. Nothing else about a failure leaves the process.
const (
	MsgRateLimited = "Слишком много запросов. Попробуйте позже."
	MsgMalformed   = "Некорректные данные"
	MsgGeneric     = "Не удалось отправить заявку. Пожалуйста, попробуйте позже или позвоните нам."
)

// ValidationError names the first field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return "invalid " + e.Field + ": " + e.Reason }

// RateLimitError carries the wait hint for a rejected client.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string { return ErrRateLimited.Error() }
func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// Classify maps a pipeline error to its HTTP status and the message shown to the caller.
func Classify(err error) (status int, message string) {
	var verr *ValidationError
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, MsgRateLimited
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Reason
	case errors.Is(err, ErrMalformedPayload):
		return http.StatusBadRequest, MsgMalformed
	default:
		return http.StatusInternalServerError, MsgGeneric
	}
}
