package context

import "errors"

// ErrAlreadyCommitted is returned when actions are added or committed after
// Commit already ran.
var ErrAlreadyCommitted = errors.New("request context already committed")
