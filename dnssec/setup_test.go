package dnssec

import (
	"crypto"
	"crypto/dsa" //nolint:staticcheck // RFC 2536 DSA/SHA1 test fixtures
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"
	"github.com/miekg/dns"
	"io"
	"math/big"
	"strings"
	"time"
)

const DnskeyFlagCsk = 257
const zoneName = "example.com."

//---

func newRR(s string) dns.RR {
	rr, err := dns.NewRR(s)
	if err != nil {
		panic(err)
	}
	return rr
}

type testKey struct {
	key    *dns.DNSKEY
	ds     *dns.DS
	signer crypto.Signer
}

func testRsaKey() *testKey {
	dnskey := &dns.DNSKEY{
		Hdr: dns.RR_Header{
			Name:   zoneName,
			Rrtype: dns.TypeDNSKEY,
			Class:  dns.ClassINET,
			Ttl:    300,
		},
		Flags:     DnskeyFlagCsk,
		Protocol:  3,
		Algorithm: dns.RSASHA256,
	}
	secret, err := dnskey.Generate(2048)
	if err != nil {
		panic(err)
	}
	signer, _ := secret.(*rsa.PrivateKey)
	return &testKey{
		ds:     dnskey.ToDS(dns.SHA256),
		key:    dnskey,
		signer: signer,
	}
}

func testEcKey() *testKey {
	dnskey := &dns.DNSKEY{
		Hdr: dns.RR_Header{
			Name:   zoneName,
			Rrtype: dns.TypeDNSKEY,
			Class:  dns.ClassINET,
			Ttl:    300,
		},
		Flags:     DnskeyFlagCsk,
		Protocol:  3,
		Algorithm: dns.ECDSAP256SHA256,
	}
	secret, err := dnskey.Generate(256)
	if err != nil {
		panic(err)
	}
	signer, _ := secret.(*ecdsa.PrivateKey)
	return &testKey{
		ds:     dnskey.ToDS(dns.SHA256),
		key:    dnskey,
		signer: signer,
	}
}

func testED25519KeyFromReader(publicReader, secretReader io.Reader) *testKey {
	public, err := io.ReadAll(publicReader)
	if err != nil {
		panic(err)
	}

	dnskey := &dns.DNSKEY{
		Hdr: dns.RR_Header{
			Name:   zoneName,
			Rrtype: dns.TypeDNSKEY,
			Class:  dns.ClassINET,
			Ttl:    300,
		},
		Flags:     DnskeyFlagCsk,
		Protocol:  3,
		Algorithm: dns.ED25519,
		PublicKey: strings.TrimSpace(string(public)),
	}

	secret, err := dnskey.ReadPrivateKey(secretReader, "local io.Reader")
	if err != nil {
		panic(err)
	}
	signer, _ := secret.(ed25519.PrivateKey)
	return &testKey{
		ds:     dnskey.ToDS(dns.SHA256),
		key:    dnskey,
		signer: signer,
	}
}

// testDsaKeyAndSign builds a DSA/SHA1 DNSKEY and a matching RRSIG over
// rrset, per RFC 2536. dsa.PrivateKey doesn't implement crypto.Signer, so
// unlike testRsaKey/testEcKey this signs directly with crypto/dsa rather
// than through testKey.sign.
func testDsaKeyAndSign(rrset []dns.RR) (*dns.DNSKEY, *dns.RRSIG) {
	params := new(dsa.Parameters)
	if err := dsa.GenerateParameters(params, rand.Reader, dsa.L1024N160); err != nil {
		panic(err)
	}
	priv := new(dsa.PrivateKey)
	priv.PublicKey.Parameters = *params
	if err := dsa.GenerateKey(priv, rand.Reader); err != nil {
		panic(err)
	}

	t := byte((params.P.BitLen() - 512) / 64)
	size := 64 + int(t)*8

	pubBytes := make([]byte, 1+20+size*3)
	pubBytes[0] = t
	off := 1
	putBigInt(pubBytes[off:off+20], params.Q)
	off += 20
	putBigInt(pubBytes[off:off+size], params.P)
	off += size
	putBigInt(pubBytes[off:off+size], params.G)
	off += size
	putBigInt(pubBytes[off:off+size], priv.PublicKey.Y)

	dnskey := &dns.DNSKEY{
		Hdr: dns.RR_Header{
			Name:   zoneName,
			Rrtype: dns.TypeDNSKEY,
			Class:  dns.ClassINET,
			Ttl:    300,
		},
		Flags:     DnskeyFlagCsk,
		Protocol:  3,
		Algorithm: dns.DSA,
		PublicKey: base64.StdEncoding.EncodeToString(pubBytes),
	}

	sig := &dns.RRSIG{
		Hdr:         dns.RR_Header{},
		TypeCovered: rrset[0].Header().Rrtype,
		Labels:      uint8(dns.CountLabel(dns.CanonicalName(rrset[0].Header().Name))),
		OrigTtl:     rrset[0].Header().Ttl,
		Inception:   uint32(time.Now().Add(-24 * time.Hour).Unix()),
		Expiration:  uint32(time.Now().Add(24 * time.Hour).Unix()),
		KeyTag:      dnskey.KeyTag(),
		SignerName:  dnskey.Header().Name,
		Algorithm:   dns.DSA,
	}

	set := NewRRset(rrset)
	digest, err := DigestRRset(sig, set)
	if err != nil {
		panic(err)
	}

	hashed := sha1.Sum(digest)
	r, s, err := dsa.Sign(rand.Reader, priv, hashed[:])
	if err != nil {
		panic(err)
	}

	sigWire := make([]byte, 41)
	sigWire[0] = t
	putBigInt(sigWire[1:21], r)
	putBigInt(sigWire[21:41], s)
	sig.Signature = base64.StdEncoding.EncodeToString(sigWire)

	return dnskey, sig
}

// putBigInt right-aligns n's big-endian bytes into dst, zero-padding on the left.
func putBigInt(dst []byte, n *big.Int) {
	b := n.Bytes()
	copy(dst[len(dst)-len(b):], b)
}

func (k *testKey) sign(rrset []dns.RR, inception, expiration int64) *dns.RRSIG {
	if inception == 0 {
		inception = time.Now().Add(time.Hour * -24).Unix()
	}
	if expiration == 0 {
		expiration = time.Now().Add(time.Hour * 24).Unix()
	}
	rrsig := &dns.RRSIG{
		Hdr:        dns.RR_Header{},
		Inception:  uint32(inception),
		Expiration: uint32(expiration),
		KeyTag:     k.key.KeyTag(),
		SignerName: k.key.Header().Name,
		Algorithm:  k.key.Algorithm,
	}
	err := rrsig.Sign(k.signer, rrset)
	if err != nil {
		panic(err)
	}
	return rrsig
}
