// Package debounce enforces per-person attempt exclusivity and cooldown.
package debounce

import "time"

// Option applies a configuration option to the InMemoryDebouncer.
type Option func(*InMemoryDebouncer)

// WithCooldown sets the minimum interval between attempts for one person.
func WithCooldown(cooldown time.Duration) Option {
	return func(d *InMemoryDebouncer) {
		if cooldown > 0 {
			d.cooldown = cooldown
		}
	}
}
