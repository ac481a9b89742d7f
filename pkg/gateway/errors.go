package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// ErrVerification is returned when a notification fails authentication.
var ErrVerification = errors.New("notification verification failed")

// ErrMalformedPayload is returned when a notification body cannot be decoded.
var ErrMalformedPayload = errors.New("malformed notification payload")

// ErrTransactionNotFound is returned when the processor has no record of an order.
var ErrTransactionNotFound = errors.New("transaction not found at gateway")

// Error is a rejected or failed call to the processor.
type Error struct {
	Op         string
	StatusCode int
	Messages   []string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "gateway %s failed", e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " with status %d", e.StatusCode)
	}
	if len(e.Messages) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, "; "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}
