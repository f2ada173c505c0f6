package mailer

import (
	"errors"
	"fmt"
)

// ErrNotConfigured indicates the email service lacks an API key or recipient.
var ErrNotConfigured = errors.New("email service not configured")

// DeliveryError reports a non-2xx response from the email API.
type DeliveryError struct {
	Status int
	Body   string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("email api responded %d: %s", e.Status, e.Body)
}

// TransportError reports a request that never produced a response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("email api request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
