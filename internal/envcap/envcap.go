// Package envcap defines the two capabilities the driver core consumes from
// its environment, matching the external-interface boundary the core itself
// never crosses: a non-blocking byte-send primitive and a one-shot timer.
// Production implementations live in internal/serialenv and internal/clockenv;
// tests supply small in-memory fakes.
package envcap

import "time"

// Sender transmits a frame and reports completion asynchronously. send must
// not block the caller; done is invoked exactly once, with a non-nil error
// only if the frame could not be transmitted.
type Sender interface {
	Send(frame []byte, done func(error))
}

// Timer is a one-shot, restartable monotonic timer. Start replaces any
// previously scheduled fire; Stop cancels a pending fire with no further
// callback. Implementations must tolerate Stop being called when nothing is
// scheduled.
type Timer interface {
	Start(d time.Duration, fn func())
	Stop()
}
