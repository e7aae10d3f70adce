// Package lifecycle holds shared timing constants for application startup and
// shutdown hooks.
package lifecycle

import "time"

// DefaultTimeout bounds startup pings and graceful shutdown of deliveries.
const DefaultTimeout = 10 * time.Second
