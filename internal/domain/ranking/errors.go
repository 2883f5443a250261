package ranking

import "errors"

// ErrNoEventsAvailable is returned when there is nothing to rank.
var ErrNoEventsAvailable = errors.New("no events available")
