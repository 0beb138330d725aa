package retry

import (
	"log"
	"sync"
)

var (
	globalDriver *Driver
	globalOnce   sync.Once
)

// DefaultDriver returns the shared, lazy-initialized default driver.
// It uses NewDriver() if SetDefault has not been called.
func DefaultDriver() *Driver {
	globalOnce.Do(func() {
		if globalDriver == nil {
			globalDriver = NewDriver()
		}
	})
	return globalDriver
}

// SetDefault configures the shared default driver.
// It must be called before DefaultDriver() is used (e.g. at startup).
// If called after initialization, it logs a warning and does nothing.
func SetDefault(d *Driver) {
	if d == nil {
		return
	}

	// Not strictly race-free vs DefaultDriver, but sufficient for
	// startup-time verification.
	if globalDriver != nil {
		log.Printf("retry: SetDefault called after default driver already initialized; ignoring.")
		return
	}

	globalOnce.Do(func() {
		globalDriver = d
	})
}
