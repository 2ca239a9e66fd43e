package broker

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnsupportedBroker       = errors.New("unsupported broker")
	ErrRefreshUnsupported      = errors.New("broker does not support token refresh")
	ErrCodeExchangeUnsupported = errors.New("broker does not use an authorization code")
	ErrTOTPRequired            = errors.New("totp is required")
	ErrInvalidOrder            = errors.New("invalid order")
)

type MissingCredentialError struct {
	Broker string
	Key    string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s: missing credential %q", e.Broker, e.Key)
}

// APIError is a non-2xx answer from a broker. Body is kept verbatim so it can
// be handed back to the caller.
type APIError struct {
	Broker     string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: upstream status %d", e.Broker, e.StatusCode)
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
