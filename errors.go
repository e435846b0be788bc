package resolver

import (
	"errors"
	"fmt"
)

var (
	ErrNilMessageSentToExchange = errors.New("nil message sent to exchange")
	ErrNoResolversConfigured    = errors.New("extended resolver has no resolvers configured")
)

// TimeoutError reports that a query's overall deadline passed before any
// resolver produced a usable answer. It carries the query identifier
// (Trace.ID) and the question that timed out, so callers can correlate it
// against logs.
type TimeoutError struct {
	QueryID string
	Qname   string
	Qtype   uint16
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out querying %s %s", e.QueryID, e.Qname, TypeToString(e.Qtype))
}
