package models

import "time"

// AttemptRecord tracks failed login attempts for a single IP address.
// A record exists only while the IP has at least one recent failure;
// successful logins and expired lockouts remove it.
type AttemptRecord struct {
	Count        int        `json:"count"`
	FirstAttempt time.Time  `json:"first_attempt"`
	LastAttempt  time.Time  `json:"last_attempt"`
	LockoutUntil *time.Time `json:"lockout_until,omitempty"`
}

// LockedOut reports whether the record carries an active lockout at the given time.
func (a *AttemptRecord) LockedOut(now time.Time) bool {
	return a.LockoutUntil != nil && now.Before(*a.LockoutUntil)
}

// AutoBlockEvent records why an IP was automatically blacklisted.
type AutoBlockEvent struct {
	IP        string    `json:"ip"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"`
}

// SuspiciousRequest is an audit entry for a request flagged as malicious.
// Full detail stays internal; clients only ever see a generic status code.
type SuspiciousRequest struct {
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
	Path      string    `json:"path"`
	UserAgent string    `json:"user_agent"`
	Reason    string    `json:"reason"`
}

// Classification is the result of running a request through the threat detector.
type Classification struct {
	Malicious bool
	Reason    string
}
