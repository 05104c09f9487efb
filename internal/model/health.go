package model

// Upstream status values carried by devnet_status messages.
const (
	StatusUp       = "up"
	StatusUnstable = "unstable"
	StatusDown     = "down"
)

// HealthStatus is the read-only view of the watchdog's health state.
type HealthStatus struct {
	IsDown               bool `json:"isDown"`
	IsTransactionsLocked bool `json:"isTransactionsLocked"`
	FailureCount         int  `json:"failureCount"`
	MaxFailures          int  `json:"maxFailures"`
	MaxDowntime          int  `json:"maxDowntime"`
}

// UpstreamStatus reduces the two gates to the wire status string.
func (s HealthStatus) UpstreamStatus() string {
	switch {
	case s.IsDown:
		return StatusDown
	case s.IsTransactionsLocked:
		return StatusUnstable
	default:
		return StatusUp
	}
}
