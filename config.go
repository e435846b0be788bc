package resolver

import (
	"time"

	"github.com/dnsvalidate/dnssec-core/dnssec"
)

const (
	DefaultTimeout            = 10 * time.Second
	DefaultRetriesPerResolver = 3
	DefaultLoadBalance        = false

	DefaultTimeoutUDP = 150 * time.Millisecond
	DefaultTimeoutTCP = 600 * time.Millisecond
)

// Configuration keys recognised by NewExtendedResolverFromConfig.
const (
	TimeoutProperty            = "dnsvalidate.resolver.timeout"
	RetriesPerResolverProperty = "dnsvalidate.resolver.retries_per_resolver"
	LoadBalanceProperty        = "dnsvalidate.resolver.load_balance"
)

var (
	// Timeout is the whole-operation deadline an ExtendedResolver applies to a
	// single query, across every resolver and retry it attempts.
	Timeout = DefaultTimeout

	// RetriesPerResolver caps how many times any single resolver is tried for
	// one query. After each failure the query moves on to the next resolver
	// in turn, so retries are spread round-robin across the fleet.
	RetriesPerResolver = DefaultRetriesPerResolver

	// LoadBalance, when true, rotates the starting resolver per query for
	// round-robin fairness. When false, resolvers are ordered by ascending
	// failure count, preferring historically-reliable peers.
	LoadBalance = DefaultLoadBalance
)

//---

type Logger func(string)

// Default logging functions just black-hole the input.

var Query Logger = func(s string) {}
var Debug Logger = func(s string) {}
var Info Logger = func(s string) {}
var Warn Logger = func(s string) {}

//---

func init() {
	dnssec.Info = func(s string) {
		Info(s)
	}
	dnssec.Warn = func(s string) {
		Warn(s)
	}
	dnssec.Debug = func(s string) {
		Debug(s)
	}
}
