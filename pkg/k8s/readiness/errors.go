package readiness

import "errors"

// ErrTimeoutExceeded is returned when a readiness wait exceeds its deadline.
var ErrTimeoutExceeded = errors.New("timeout exceeded")
