package health

import "errors"

var errPanicked = errors.New("health check panicked")
