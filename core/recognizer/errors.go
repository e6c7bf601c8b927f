package recognizer

import "errors"

// Recognition failures are classified so the executor can pick the right
// recovery: transient errors back off and retry, proxy-auth errors rotate the
// egress identity, anything else gives up for that segment.
var (
	// ErrTransient marks a retryable failure: timeout, connection reset,
	// rate-limit signal or a malformed service response.
	ErrTransient = errors.New("transient recognition error")

	// ErrProxyAuth marks an explicit proxy-credential rejection. The same
	// proxy endpoint is never retried.
	ErrProxyAuth = errors.New("proxy authentication rejected")
)

// IsTransient reports whether err should be retried under the backoff policy.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsProxyAuth reports whether err is a proxy-credential rejection.
func IsProxyAuth(err error) bool {
	return errors.Is(err, ErrProxyAuth)
}
