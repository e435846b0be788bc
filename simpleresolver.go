package resolver

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/miekg/dns"
)

// SimpleResolver is the module's default Resolver capability: a single
// upstream address, queried over UDP first and promoted to TCP on
// truncation, wrapping a *dns.Client exactly as the teacher's nameserver
// type did. It is the leaf ExtendedResolver dispatches to.
type SimpleResolver struct {
	host string

	mu               sync.Mutex
	port             int
	tcp              bool
	ignoreTruncation bool
	udpSize          uint16
	do               bool
	tsigName         string
	tsigSecret       string
	tsigAlgorithm    string
	timeout          time.Duration

	clientFactory func(protocol string, timeout time.Duration) dnsClient
}

// SimpleResolver.clientFactory and dnsClient let tests substitute a fake transport
// without touching the network, mirroring the teacher's nameserver tests.
type dnsClient interface {
	ExchangeContext(context.Context, *dns.Msg, string) (*dns.Msg, time.Duration, error)
}

func defaultDNSClientFactory(protocol string, timeout time.Duration) dnsClient {
	return &dns.Client{Net: protocol, Timeout: timeout}
}

// NewSimpleResolver builds a Resolver that queries host on port 53.
func NewSimpleResolver(host string) *SimpleResolver {
	return &SimpleResolver{
		host:    host,
		port:    53,
		timeout: DefaultTimeoutUDP,
	}
}

func (r *SimpleResolver) addr() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return net.JoinHostPort(r.host, portString(r.port))
}

func (r *SimpleResolver) SetPort(port int) {
	r.mu.Lock()
	r.port = port
	r.mu.Unlock()
}

func (r *SimpleResolver) SetTCP(tcp bool) {
	r.mu.Lock()
	r.tcp = tcp
	r.mu.Unlock()
}

func (r *SimpleResolver) SetIgnoreTruncation(ignore bool) {
	r.mu.Lock()
	r.ignoreTruncation = ignore
	r.mu.Unlock()
}

func (r *SimpleResolver) SetEDNS0(udpSize uint16, do bool) {
	r.mu.Lock()
	r.udpSize = udpSize
	r.do = do
	r.mu.Unlock()
}

func (r *SimpleResolver) SetTSIGKey(name, secret, algorithm string) {
	r.mu.Lock()
	r.tsigName = name
	r.tsigSecret = secret
	r.tsigAlgorithm = algorithm
	r.mu.Unlock()
}

func (r *SimpleResolver) Timeout() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timeout
}

func (r *SimpleResolver) SetTimeout(d time.Duration) {
	r.mu.Lock()
	r.timeout = d
	r.mu.Unlock()
}

// SendAsync dispatches query on its own goroutine and returns a channel
// carrying exactly one Result. The channel is closed after the send.
func (r *SimpleResolver) SendAsync(ctx context.Context, query *dns.Msg) <-chan Result {
	ch := make(chan Result, 1)

	go func() {
		defer close(ch)
		ch <- r.exchange(ctx, query)
	}()

	return ch
}

func (r *SimpleResolver) exchange(ctx context.Context, m *dns.Msg) Result {
	if m == nil {
		return resultError(ErrNilMessageSentToExchange)
	}

	r.mu.Lock()
	tsigName, tsigSecret, tsigAlgorithm := r.tsigName, r.tsigSecret, r.tsigAlgorithm
	timeout := r.timeout
	startTCP := r.tcp
	ignoreTruncation := r.ignoreTruncation
	factory := r.clientFactory
	if factory == nil {
		factory = defaultDNSClientFactory
	}
	r.mu.Unlock()

	addr := r.addr()

	protocols := []string{"udp", "tcp"}
	if startTCP {
		protocols = []string{"tcp"}
	}

	var result Result
	for _, protocol := range protocols {
		client := factory(protocol, timeout)

		msg, _, err := exchangeWithTSIG(ctx, client, m, addr, tsigName, tsigSecret, tsigAlgorithm)
		result = Result{Msg: msg, Err: err}

		Query(TypeToString(m.Question[0].Qtype) + " " + m.Question[0].Name + " via " + protocol + "://" + addr)

		if result.Err != nil {
			continue
		}
		if ignoreTruncation || !result.truncated() || protocol == "tcp" {
			return result
		}
	}

	return result
}

func exchangeWithTSIG(ctx context.Context, client dnsClient, m *dns.Msg, addr, tsigName, tsigSecret, tsigAlgorithm string) (*dns.Msg, time.Duration, error) {
	if dc, ok := client.(*dns.Client); ok && tsigName != "" {
		dc.TsigSecret = map[string]string{dns.Fqdn(tsigName): tsigSecret}
		m.SetTsig(dns.Fqdn(tsigName), tsigAlgorithmOrDefault(tsigAlgorithm), 300, time.Now().Unix())
	}
	return client.ExchangeContext(ctx, m, addr)
}

func tsigAlgorithmOrDefault(algorithm string) string {
	if algorithm == "" {
		return dns.HmacSHA256
	}
	return algorithm
}

func portString(port int) string {
	if port <= 0 {
		port = 53
	}
	return strconv.Itoa(port)
}
