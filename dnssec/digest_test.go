package dnssec

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
)

func TestDigestRRset_DeterministicAcrossOrdering(t *testing.T) {
	key := testRsaKey()

	rr1 := newRR("example.com. 3600 IN A 192.0.2.1")
	rr2 := newRR("example.com. 3600 IN A 192.0.2.2")
	rr3 := newRR("example.com. 3600 IN A 192.0.2.3")

	set := NewRRset([]dns.RR{rr1, rr2, rr3})
	sig := key.sign(set.Records, 0, 0)

	d1, err := DigestRRset(sig, set)
	assert.NoError(t, err)

	shuffled := NewRRset([]dns.RR{rr3, rr1, rr2})
	d2, err := DigestRRset(sig, shuffled)
	assert.NoError(t, err)

	assert.Equal(t, d1, d2, "digest must not depend on input record ordering")
}

func TestDigestRRset_EmptySetErrors(t *testing.T) {
	sig := &dns.RRSIG{}
	_, err := DigestRRset(sig, &RRset{})
	assert.ErrorIs(t, err, ErrSignatureSetEmpty)
}

func TestDigestRRset_WildcardNormalization(t *testing.T) {
	key := testRsaKey()

	rr := newRR("text.example.com. 3600 IN A 192.0.2.1")
	set := NewRRset([]dns.RR{rr})

	sig := &dns.RRSIG{
		TypeCovered: dns.TypeA,
		Algorithm:   key.key.Algorithm,
		Labels:      2, // fewer labels than "text.example.com." (3) triggers wildcard expansion
		OrigTtl:     3600,
		Expiration:  uint32(1 << 31),
		Inception:   1,
		KeyTag:      key.key.KeyTag(),
		SignerName:  "example.com.",
	}

	digest, err := DigestRRset(sig, set)
	assert.NoError(t, err)
	assert.NotEmpty(t, digest)
}
