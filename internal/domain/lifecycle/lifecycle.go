// Package lifecycle holds shared timing constants for start-up and shutdown hooks.
package lifecycle

import "time"

// DefaultTimeout bounds every OnStart/OnStop hook (connect, ping, graceful shutdown).
const DefaultTimeout = 10 * time.Second
