package resolver

import (
	"context"
	"time"

	"github.com/miekg/dns"
)

// Result is what a Resolver delivers for a single query: either a message or
// the error that prevented one.
type Result struct {
	Msg *dns.Msg
	Err error
}

func resultError(err error) Result {
	return Result{Err: err}
}

func (r Result) truncated() bool {
	return r.Msg != nil && r.Msg.Truncated
}

// Resolver is the async DNS transport capability ExtendedResolver composes.
// A query is sent with SendAsync; the returned channel carries exactly one
// Result before being closed.
type Resolver interface {
	SendAsync(ctx context.Context, query *dns.Msg) <-chan Result
	SetPort(port int)
	SetTCP(tcp bool)
	SetIgnoreTruncation(ignore bool)
	SetEDNS0(udpSize uint16, do bool)
	SetTSIGKey(name, secret, algorithm string)
	Timeout() time.Duration
	SetTimeout(time.Duration)
}
