package dnssec

import "fmt"

// JustifiedStatus is an immutable validation outcome: a SecurityStatus plus
// the Extended DNS Error code and human-readable reason that justify it.
// EDECode is EDENone when no EDE applies.
type JustifiedStatus struct {
	Status  SecurityStatus
	EDECode int
	Reason  string
}

func newStatus(status SecurityStatus, edeCode int, reason string) *JustifiedStatus {
	return &JustifiedStatus{Status: status, EDECode: edeCode, Reason: reason}
}

func secureStatus(reason string) *JustifiedStatus {
	return newStatus(Secure, EDENone, reason)
}

func insecureStatus(edeCode int, reason string) *JustifiedStatus {
	return newStatus(Insecure, edeCode, reason)
}

func bogusStatus(edeCode int, reason string) *JustifiedStatus {
	return newStatus(Bogus, edeCode, reason)
}

func uncheckedStatus(edeCode int, reason string) *JustifiedStatus {
	return newStatus(Unchecked, edeCode, reason)
}

func (s *JustifiedStatus) String() string {
	if s == nil {
		return "<nil>"
	}
	if s.EDECode == EDENone {
		return fmt.Sprintf("%s: %s", s.Status, s.Reason)
	}
	return fmt.Sprintf("%s (ede=%d): %s", s.Status, s.EDECode, s.Reason)
}
