package scenario

import "errors"

// ErrNilOptimizer is returned by New when no optimizer is supplied.
var ErrNilOptimizer = errors.New("scenario runner requires an optimizer")
