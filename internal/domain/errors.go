package domain

import (
	"errors"
	"fmt"
)

// ErrNoObservations indicates a weather query matched no data lines for the
// requested window. The affected session is left untouched so a later run
// retries it.
var ErrNoObservations = errors.New("no observations for window")

// AuthorizationError is fatal: the run has no usable Strava credential.
// AuthURL points at the manual OAuth recovery flow and is surfaced in the
// error text so it lands in the logs.
type AuthorizationError struct {
	AuthURL string
}

func (e *AuthorizationError) Error() string {
	if e.AuthURL == "" {
		return "strava authorization missing"
	}
	return fmt.Sprintf("strava authorization missing, open %s to authorize and re-run", e.AuthURL)
}

// IsAuthorizationError reports whether err wraps an AuthorizationError.
func IsAuthorizationError(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}
