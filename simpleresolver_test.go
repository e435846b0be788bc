package resolver

import (
	"context"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
)

type fakeDNSClient struct {
	msg *dns.Msg
	err error
}

func (f *fakeDNSClient) ExchangeContext(_ context.Context, _ *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
	return f.msg, time.Millisecond, f.err
}

func newFakeResolver(msg *dns.Msg, err error) *SimpleResolver {
	r := NewSimpleResolver("192.0.2.53")
	r.clientFactory = func(protocol string, timeout time.Duration) dnsClient {
		return &fakeDNSClient{msg: msg, err: err}
	}
	return r
}

func TestSimpleResolver_SendAsync_Success(t *testing.T) {
	reply := new(dns.Msg)
	reply.SetQuestion("example.com.", dns.TypeA)

	r := newFakeResolver(reply, nil)

	query := new(dns.Msg)
	query.SetQuestion("example.com.", dns.TypeA)

	result := <-r.SendAsync(context.Background(), query)
	assert.NoError(t, result.Err)
	assert.Equal(t, reply, result.Msg)
}

func TestSimpleResolver_SendAsync_NilMessage(t *testing.T) {
	r := newFakeResolver(nil, nil)
	result := <-r.SendAsync(context.Background(), nil)
	assert.ErrorIs(t, result.Err, ErrNilMessageSentToExchange)
}

func TestSimpleResolver_PromotesToTCPOnTruncation(t *testing.T) {
	truncated := new(dns.Msg)
	truncated.SetQuestion("example.com.", dns.TypeA)
	truncated.Truncated = true

	calls := 0
	r := NewSimpleResolver("192.0.2.53")
	r.clientFactory = func(protocol string, timeout time.Duration) dnsClient {
		calls++
		if protocol == "udp" {
			return &fakeDNSClient{msg: truncated}
		}
		full := new(dns.Msg)
		full.SetQuestion("example.com.", dns.TypeA)
		return &fakeDNSClient{msg: full}
	}

	query := new(dns.Msg)
	query.SetQuestion("example.com.", dns.TypeA)

	result := <-r.SendAsync(context.Background(), query)
	assert.NoError(t, result.Err)
	assert.False(t, result.Msg.Truncated)
	assert.Equal(t, 2, calls)
}

func TestSimpleResolver_IgnoreTruncation(t *testing.T) {
	truncated := new(dns.Msg)
	truncated.SetQuestion("example.com.", dns.TypeA)
	truncated.Truncated = true

	r := newFakeResolver(truncated, nil)
	r.SetIgnoreTruncation(true)

	query := new(dns.Msg)
	query.SetQuestion("example.com.", dns.TypeA)

	result := <-r.SendAsync(context.Background(), query)
	assert.NoError(t, result.Err)
	assert.True(t, result.Msg.Truncated)
}

func TestSimpleResolver_SettersAreSafeToCall(t *testing.T) {
	r := NewSimpleResolver("192.0.2.53")
	r.SetPort(5353)
	r.SetTCP(true)
	r.SetEDNS0(4096, true)
	r.SetTSIGKey("key.example.com.", "c2VjcmV0", dns.HmacSHA256)
	r.SetTimeout(5 * time.Second)
	assert.Equal(t, 5*time.Second, r.Timeout())
}
