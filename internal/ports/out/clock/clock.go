package clock

import "time"

// Clock provides time to token issuance and verification.
// Tests substitute a manual clock to cross expiry boundaries deterministically.
type Clock interface {
	Now() time.Time
}
