package thimble

import (
	"github.com/thimble-di/thimble/internal/container"
)

// Releaser is implemented by instances that hold resources needing cleanup.
// The scope caching the instance calls Release exactly once, when it closes,
// after waiting for in-flight constructions in that scope.
type Releaser = container.Releaser
