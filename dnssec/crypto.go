package dnssec

import (
	"crypto"
	"crypto/dsa" //nolint:staticcheck // RFC 2536 DSA/SHA1, still a signalled DNSSEC algorithm
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"math/big"
	"time"

	"github.com/miekg/dns"
)

// CryptoResult is the outcome of a single raw-signature verification.
type CryptoResult uint8

const (
	CryptoOk CryptoResult = iota
	CryptoKeyMismatch
	CryptoSignatureExpired
	CryptoSignatureNotYetValid
	CryptoInvalidKey
	CryptoUnsupportedAlgorithm
	CryptoMalformedSignature
)

// CryptoVerifier verifies one (digest, signature, key) triple, checking both
// the cryptographic signature and the RRSIG validity window. Implementations
// must be pure functions of their inputs.
type CryptoVerifier interface {
	Verify(algorithm uint8, keyBytes []byte, signedBytes, signatureBytes []byte, inception, expiration uint32, now time.Time) CryptoResult
}

// StdCryptoVerifier is the default CryptoVerifier, built entirely on Go's
// standard cryptographic packages. It is the reference implementation the
// test suite exercises against miekg/dns-generated fixtures.
type StdCryptoVerifier struct{}

func (StdCryptoVerifier) Verify(algorithm uint8, keyBytes []byte, signedBytes, signatureBytes []byte, inception, expiration uint32, now time.Time) CryptoResult {
	if !withinValidityWindow(inception, expiration, now) {
		if serialBefore(uint32(now.Unix()), inception) {
			return CryptoSignatureNotYetValid
		}
		return CryptoSignatureExpired
	}

	switch algorithm {
	case dns.DSA, dns.DSANSEC3SHA1:
		return verifyDSA(keyBytes, signedBytes, signatureBytes)
	case dns.RSASHA1, dns.RSASHA1NSEC3SHA1, dns.RSASHA256, dns.RSASHA512:
		return verifyRSA(algorithm, keyBytes, signedBytes, signatureBytes)
	case dns.ECDSAP256SHA256, dns.ECDSAP384SHA384:
		return verifyECDSA(algorithm, keyBytes, signedBytes, signatureBytes)
	case dns.ED25519:
		return verifyEd25519(keyBytes, signedBytes, signatureBytes)
	default:
		return CryptoUnsupportedAlgorithm
	}
}

// verifyDSA checks a DSA/SHA1 signature per RFC 2536 section 3: the
// signature is a one-byte T selector followed by 20-byte R and S
// components. As with ECDSA, an encoder may trim or fail to trim leading
// zero bytes from R or S, so the R||S blob is re-padded to its fixed
// 40-byte width rather than requiring the signature to be exactly 41 bytes.
func verifyDSA(keyBytes, signedBytes, signatureBytes []byte) CryptoResult {
	pub, ok := parseDSAPublicKey(keyBytes)
	if !ok {
		return CryptoInvalidKey
	}

	if len(signatureBytes) < 1 {
		return CryptoMalformedSignature
	}
	rs := repad(signatureBytes[1:], 40)
	r := new(big.Int).SetBytes(rs[:20])
	s := new(big.Int).SetBytes(rs[20:])

	sum := sha1.Sum(signedBytes)
	if !dsa.Verify(pub, sum[:], r, s) {
		return CryptoMalformedSignature
	}
	return CryptoOk
}

// parseDSAPublicKey decodes a DNSKEY DSA public key per RFC 2536 section 2:
// a one-byte size selector T (P/G/Y are each 64+T*8 bytes), a 20-byte Q,
// then P, G and Y at that width. The P||G||Y blob is re-padded to its
// expected 3*size width the same way verifyDSA re-pads R||S, tolerating an
// encoder that trims or over-pads those fixed-width components.
func parseDSAPublicKey(keyBytes []byte) (*dsa.PublicKey, bool) {
	if len(keyBytes) < 1+20 {
		return nil, false
	}

	t := int(keyBytes[0])
	size := 64 + t*8

	q := new(big.Int).SetBytes(keyBytes[1:21])

	pgy := repad(keyBytes[21:], size*3)
	p := new(big.Int).SetBytes(pgy[:size])
	g := new(big.Int).SetBytes(pgy[size : 2*size])
	y := new(big.Int).SetBytes(pgy[2*size:])

	return &dsa.PublicKey{
		Parameters: dsa.Parameters{P: p, Q: q, G: g},
		Y:          y,
	}, true
}

// withinValidityWindow checks inception <= now <= expiration using 32-bit
// wrapping serial-number arithmetic, as DNSSEC requires (RFC 4034 section
// 3.1.5): the comparison must tolerate the 32-bit Unix-time fields wrapping
// around in 2106, not a plain integer less-than.
func withinValidityWindow(inception, expiration uint32, now time.Time) bool {
	nowSerial := uint32(now.Unix())
	return !serialBefore(nowSerial, inception) && !serialBefore(expiration, nowSerial)
}

// serialBefore reports whether a comes before b under RFC 1982 serial number
// arithmetic (used here because RRSIG inception/expiration are 32-bit
// wrapping timestamps, not ordinary integers).
func serialBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

func verifyRSA(algorithm uint8, keyBytes []byte, signedBytes, signatureBytes []byte) CryptoResult {
	pub, ok := parseRSAPublicKey(keyBytes)
	if !ok {
		return CryptoInvalidKey
	}

	var hashed []byte
	var hash crypto.Hash
	switch algorithm {
	case dns.RSASHA1, dns.RSASHA1NSEC3SHA1:
		sum := sha1.Sum(signedBytes)
		hashed = sum[:]
		hash = crypto.SHA1
	case dns.RSASHA256:
		sum := sha256.Sum256(signedBytes)
		hashed = sum[:]
		hash = crypto.SHA256
	case dns.RSASHA512:
		sum := sha512.Sum512(signedBytes)
		hashed = sum[:]
		hash = crypto.SHA512
	default:
		return CryptoUnsupportedAlgorithm
	}

	if err := rsa.VerifyPKCS1v15(pub, hash, hashed, signatureBytes); err != nil {
		return CryptoMalformedSignature
	}
	return CryptoOk
}

// parseRSAPublicKey decodes a DNSKEY RSA public key per RFC 3110: a one-byte
// (or, if zero, three-byte big-endian) exponent length, the exponent, then
// the modulus.
func parseRSAPublicKey(keyBytes []byte) (*rsa.PublicKey, bool) {
	if len(keyBytes) < 3 {
		return nil, false
	}

	explen := int(keyBytes[0])
	off := 1
	if explen == 0 {
		if len(keyBytes) < 3 {
			return nil, false
		}
		explen = int(keyBytes[1])<<8 | int(keyBytes[2])
		off = 3
	}
	if len(keyBytes) < off+explen {
		return nil, false
	}

	e := new(big.Int).SetBytes(keyBytes[off : off+explen])
	n := new(big.Int).SetBytes(keyBytes[off+explen:])

	if e.BitLen() > 32 || e.Sign() == 0 {
		return nil, false
	}

	return &rsa.PublicKey{N: n, E: int(e.Int64())}, true
}

func verifyECDSA(algorithm uint8, keyBytes []byte, signedBytes, signatureBytes []byte) CryptoResult {
	var curve ecdsaCurve
	switch algorithm {
	case dns.ECDSAP256SHA256:
		curve = ecdsaCurve{size: 32, hash: crypto.SHA256}
	case dns.ECDSAP384SHA384:
		curve = ecdsaCurve{size: 48, hash: crypto.SHA384}
	default:
		return CryptoUnsupportedAlgorithm
	}

	pub, ok := parseECDSAPublicKey(algorithm, keyBytes)
	if !ok {
		return CryptoInvalidKey
	}

	// DNSSEC ECDSA signatures are the concatenation of r and s, each
	// fixed-width and zero-padded; re-pad here to tolerate encoders that
	// under- or over-size that encoding.
	sig := repad(signatureBytes, curve.size*2)
	r := new(big.Int).SetBytes(sig[:curve.size])
	s := new(big.Int).SetBytes(sig[curve.size:])

	var hashed []byte
	switch curve.hash {
	case crypto.SHA256:
		sum := sha256.Sum256(signedBytes)
		hashed = sum[:]
	case crypto.SHA384:
		sum := sha512.Sum384(signedBytes)
		hashed = sum[:]
	}

	if !ecdsa.Verify(pub, hashed, r, s) {
		return CryptoMalformedSignature
	}
	return CryptoOk
}

type ecdsaCurve struct {
	size int
	hash crypto.Hash
}

func parseECDSAPublicKey(algorithm uint8, keyBytes []byte) (*ecdsa.PublicKey, bool) {
	var curve elliptic.Curve
	var size int
	switch algorithm {
	case dns.ECDSAP256SHA256:
		curve, size = elliptic.P256(), 32
	case dns.ECDSAP384SHA384:
		curve, size = elliptic.P384(), 48
	default:
		return nil, false
	}

	padded := repad(keyBytes, size*2)

	x := new(big.Int).SetBytes(padded[:size])
	y := new(big.Int).SetBytes(padded[size:])

	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, true
}

func verifyEd25519(keyBytes []byte, signedBytes, signatureBytes []byte) CryptoResult {
	if len(keyBytes) != ed25519.PublicKeySize {
		return CryptoInvalidKey
	}
	if len(signatureBytes) != ed25519.SignatureSize {
		return CryptoMalformedSignature
	}
	if !ed25519.Verify(ed25519.PublicKey(keyBytes), signedBytes, signatureBytes) {
		return CryptoMalformedSignature
	}
	return CryptoOk
}

// repad re-pads b to exactly length n, tolerating both DSA/ECDSA encoders
// that trim leading zero bytes from fixed-width fields (b shorter than n,
// left-padded with zeros) and ones that leave them in or add extra leading
// zero bytes (b longer than n, trimmed to its low-order n bytes).
func repad(b []byte, n int) []byte {
	if len(b) == n {
		return b
	}
	if len(b) > n {
		return b[len(b)-n:]
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}
