// Package clock provides the production time source.
package clock

import "time"

// SystemClock reads the wall clock in UTC. Token expiry and issue times are
// computed from it.
type SystemClock struct{}

func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC() }
