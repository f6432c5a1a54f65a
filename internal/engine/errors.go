package engine

import "errors"

// ErrUserNotFound is returned by operations referencing a missing user.
// Repos report absence as (nil, nil); the engine converts that to this
// sentinel so callers have a single convention to check.
var ErrUserNotFound = errors.New("user not found")
