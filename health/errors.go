package health

import "errors"

// ErrCheckTimeout is carried by results of checks that did not finish
// before the aggregator's deadline.
var ErrCheckTimeout = errors.New("health: check timed out")
