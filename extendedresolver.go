package resolver

import (
	"context"
	"math"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/miekg/dns"
)

// Executor runs a dispatch goroutine. Go has no default work-stealing pool
// the way the teacher-adjacent Java source leans on ForkJoinPool.commonPool();
// this abstraction lets a caller back ExtendedResolver with a bounded worker
// pool instead of an unbounded goroutine-per-query default.
type Executor interface {
	Go(func())
}

type goroutineExecutor struct{}

func (goroutineExecutor) Go(f func()) { go f() }

// DefaultExecutor launches a plain goroutine per query.
var DefaultExecutor Executor = goroutineExecutor{}

// resolverEntry pairs a child Resolver with its rolling failure count. The
// counter is shared mutable state across concurrent queries, so it's updated
// with sync/atomic rather than under ExtendedResolver's own lock.
type resolverEntry struct {
	resolver Resolver
	failures atomic.Int64
}

// ExtendedResolver multiplexes a single logical query across a fleet of
// Resolver capabilities, retrying and failing over between them under an
// overall deadline. It has no knowledge of DNSSEC; composing it with the
// validator is the caller's job.
type ExtendedResolver struct {
	mu      sync.RWMutex
	entries []*resolverEntry

	lbStart atomic.Uint32

	timeout            time.Duration
	retriesPerResolver int
	loadBalance        bool

	executor Executor
}

// NewExtendedResolver composes the given resolvers under the package's
// default Timeout/RetriesPerResolver/LoadBalance settings.
func NewExtendedResolver(resolvers ...Resolver) *ExtendedResolver {
	r := &ExtendedResolver{
		timeout:            Timeout,
		retriesPerResolver: RetriesPerResolver,
		loadBalance:        LoadBalance,
		executor:           DefaultExecutor,
	}
	for _, res := range resolvers {
		r.AddResolver(res)
	}
	return r
}

// NewExtendedResolverFromAddrs is a convenience constructor building one
// SimpleResolver per upstream address (host, or host:port).
func NewExtendedResolverFromAddrs(addrs ...string) *ExtendedResolver {
	resolvers := make([]Resolver, 0, len(addrs))
	for _, addr := range addrs {
		resolvers = append(resolvers, NewSimpleResolver(addr))
	}
	return NewExtendedResolver(resolvers...)
}

// NewExtendedResolverFromConfig composes resolvers under settings read once
// from cfg, falling back to the package defaults for any key that's absent
// or unparsable.
//
// Recognised keys:
//   - dnsvalidate.resolver.timeout (duration string, e.g. "10s", default 10s)
//   - dnsvalidate.resolver.retries_per_resolver (integer, default 3)
//   - dnsvalidate.resolver.load_balance (boolean, default false)
func NewExtendedResolverFromConfig(cfg map[string]string, resolvers ...Resolver) *ExtendedResolver {
	r := NewExtendedResolver(resolvers...)

	if s, ok := cfg[TimeoutProperty]; ok {
		if d, err := time.ParseDuration(s); err == nil {
			r.timeout = d
		} else {
			Warn("resolver: invalid " + TimeoutProperty + " value " + s + ", keeping default")
		}
	}

	if s, ok := cfg[RetriesPerResolverProperty]; ok {
		if n, err := strconv.Atoi(s); err == nil {
			r.retriesPerResolver = n
		} else {
			Warn("resolver: invalid " + RetriesPerResolverProperty + " value " + s + ", keeping default")
		}
	}

	if s, ok := cfg[LoadBalanceProperty]; ok {
		if b, err := strconv.ParseBool(s); err == nil {
			r.loadBalance = b
		} else {
			Warn("resolver: invalid " + LoadBalanceProperty + " value " + s + ", keeping default")
		}
	}

	return r
}

func (r *ExtendedResolver) AddResolver(res Resolver) {
	r.mu.Lock()
	r.entries = append(r.entries, &resolverEntry{resolver: res})
	r.mu.Unlock()
}

// DeleteResolver removes res by identity. Reports whether it was found.
func (r *ExtendedResolver) DeleteResolver(res Resolver) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.resolver == res {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// SetLoadBalance toggles between round-robin rotation and sort-by-reliability
// ordering for subsequent queries.
func (r *ExtendedResolver) SetLoadBalance(enabled bool) {
	r.mu.Lock()
	r.loadBalance = enabled
	r.mu.Unlock()
}

func (r *ExtendedResolver) SetRetriesPerResolver(n int) {
	r.mu.Lock()
	r.retriesPerResolver = n
	r.mu.Unlock()
}

// Timeout and SetTimeout govern the overall per-query deadline, not any
// single child resolver's own timeout.
func (r *ExtendedResolver) Timeout() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.timeout
}

func (r *ExtendedResolver) SetTimeout(d time.Duration) {
	r.mu.Lock()
	r.timeout = d
	r.mu.Unlock()
}

// The remaining setters broadcast to every child resolver, per the Resolver
// interface contract ExtendedResolver itself satisfies.

func (r *ExtendedResolver) SetPort(port int) {
	r.forEach(func(res Resolver) { res.SetPort(port) })
}

func (r *ExtendedResolver) SetTCP(tcp bool) {
	r.forEach(func(res Resolver) { res.SetTCP(tcp) })
}

func (r *ExtendedResolver) SetIgnoreTruncation(ignore bool) {
	r.forEach(func(res Resolver) { res.SetIgnoreTruncation(ignore) })
}

func (r *ExtendedResolver) SetEDNS0(udpSize uint16, do bool) {
	r.forEach(func(res Resolver) { res.SetEDNS0(udpSize, do) })
}

func (r *ExtendedResolver) SetTSIGKey(name, secret, algorithm string) {
	r.forEach(func(res Resolver) { res.SetTSIGKey(name, secret, algorithm) })
}

func (r *ExtendedResolver) forEach(f func(Resolver)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		f(e.resolver)
	}
}

// snapshot takes an ordered copy of the current resolver list: rotated by an
// atomically incremented start index when load-balancing, or sorted by
// ascending failure count otherwise. Later AddResolver/DeleteResolver calls
// are not observed by a query already holding a snapshot.
func (r *ExtendedResolver) snapshot() []*resolverEntry {
	r.mu.RLock()
	entries := make([]*resolverEntry, len(r.entries))
	copy(entries, r.entries)
	loadBalance := r.loadBalance
	r.mu.RUnlock()

	n := len(entries)
	if n == 0 {
		return entries
	}

	if loadBalance {
		start := int(r.lbStart.Add(1)) % n
		rotated := make([]*resolverEntry, n)
		for i := 0; i < n; i++ {
			rotated[i] = entries[(start+i)%n]
		}
		return rotated
	}

	sorted := make([]*resolverEntry, n)
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].failures.Load() < sorted[j].failures.Load()
	})
	return sorted
}

// SendAsync dispatches query to the resolver fleet, trying resolvers
// round-robin across at most len(resolvers) x RetriesPerResolver sends, and
// returns the first success or the last failure before the deadline expires.
func (r *ExtendedResolver) SendAsync(ctx context.Context, query *dns.Msg) <-chan Result {
	ch := make(chan Result, 1)

	entries := r.snapshot()
	deadline := time.Now().Add(r.Timeout())
	retriesPerResolver := r.retriesPerResolverSnapshot()
	trace := NewTrace()

	run := func() {
		defer close(ch)
		ch <- dispatch(ctx, query, entries, deadline, retriesPerResolver, trace)
	}

	executor := r.executor
	if executor == nil {
		executor = DefaultExecutor
	}
	executor.Go(run)

	return ch
}

func (r *ExtendedResolver) retriesPerResolverSnapshot() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.retriesPerResolver
}

func dispatch(ctx context.Context, query *dns.Msg, entries []*resolverEntry, deadline time.Time, retriesPerResolver int, trace *Trace) Result {
	n := len(entries)
	if n == 0 {
		return resultError(ErrNoResolversConfigured)
	}

	attempts := make([]int, n)
	current := 0
	var lastErr error = ErrNoResolversConfigured

	for {
		if err := ctx.Err(); err != nil {
			return resultError(err)
		}
		if !time.Now().Before(deadline) {
			return resultError(timeoutErrorFor(trace, query))
		}

		entry := entries[current]
		attempts[current]++
		trace.Iterations.Add(1)

		result := <-entry.resolver.SendAsync(ctx, query)

		if result.Err == nil {
			decay(&entry.failures)
			return result
		}

		lastErr = result.Err
		entry.failures.Add(1)

		current = (current + 1) % n
		if attempts[current] >= retriesPerResolver {
			return resultError(lastErr)
		}
	}
}

func timeoutErrorFor(trace *Trace, query *dns.Msg) error {
	err := &TimeoutError{QueryID: trace.ID()}
	if len(query.Question) > 0 {
		err.Qname = query.Question[0].Name
		err.Qtype = query.Question[0].Qtype
	}
	return err
}

// decay forgives past failures gradually on a success: f becomes floor(ln f)
// when f > 0, so a formerly-flaky resolver is not shunned forever.
func decay(failures *atomic.Int64) {
	for {
		f := failures.Load()
		if f <= 0 {
			return
		}
		next := int64(math.Log(float64(f)))
		if failures.CompareAndSwap(f, next) {
			return
		}
	}
}
