package auth

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCode   = errors.New("missing code parameter")
	ErrStateMismatch = errors.New("missing or unknown state parameter")
)

// ExchangeError means the token endpoint answered but did not hand out a
// usable access token: a rejected or reused code, a declined consent, an
// empty access_token field.
type ExchangeError struct {
	Reason error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("code exchange failed: %v", e.Reason)
}

func (e *ExchangeError) Unwrap() error {
	return e.Reason
}

// IsRejected reports whether err is one of the callback outcomes that send
// the user back to the login page.
func IsRejected(err error) bool {
	var exchangeErr *ExchangeError
	return errors.Is(err, ErrMissingCode) ||
		errors.Is(err, ErrStateMismatch) ||
		errors.As(err, &exchangeErr)
}
