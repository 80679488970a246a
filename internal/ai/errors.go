package ai

import "errors"

// ErrUnavailable marks provider-side failures (not configured, transport
// errors, timeouts). Callers decide whether to degrade or to surface it.
var ErrUnavailable = errors.New("ai provider unavailable")
