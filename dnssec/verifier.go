package dnssec

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/miekg/dns"
)

// DefaultVerifier is the crypto capability used by Verify and VerifyWithKey.
// When it is nil, StdCryptoVerifier is used instead.
var DefaultVerifier CryptoVerifier = StdCryptoVerifier{}

// Verify orchestrates signature verification of rrset against keys at the
// current wall-clock time now, bounded by MaxValidateRRSigs signatures.
//
// It first defers to keys.ValidateKeyFor, which short-circuits the
// unsigned/null/bad-entry cases; only when that returns nil does Verify walk
// rrset's signature list itself, trying each signature against every
// candidate key until one validates or the budget is exhausted.
func Verify(rrset *SRRset, keys *KeyEntry, now time.Time) *JustifiedStatus {
	if status := keys.ValidateKeyFor(rrset); status != nil {
		return status
	}

	sigs := rrset.Sigs()
	if len(sigs) == 0 {
		return bogusStatus(int(dns.ExtendedErrorCodeRRSIGsMissing), "no rrsig records present")
	}

	var requirements *AlgorithmRequirements
	if algs := keys.SignalledAlgorithms(); len(algs) > 0 {
		requirements = NewAlgorithmRequirements(algs)
		if requirements.Num() == 0 {
			return insecureStatus(int(dns.ExtendedErrorCodeUnsupportedDNSKEYAlgorithm), ErrNoSupportedAlgorithm.Error())
		}
	}

	var lastResult *JustifiedStatus
	verifiedCount := 0
	seen := map[string]bool{}

	for _, sig := range sigs {
		dedupKey := fmt.Sprintf("%d-%d-%s", sig.KeyTag, sig.Algorithm, sig.Signature)
		if seen[dedupKey] {
			continue
		}
		seen[dedupKey] = true

		if !isSubdomainOf(rrset.Name, sig.SignerName) {
			return bogusStatus(int(dns.ExtendedErrorCodeDNSBogus), fmt.Errorf("%w: signer %s for %s", ErrSignerOffTree, sig.SignerName, rrset.Name).Error())
		}

		candidates := candidateKeys(keys.DNSKEYs(), sig)

		if len(candidates) == 0 {
			if lastResult == nil {
				lastResult = uncheckedStatus(int(dns.ExtendedErrorCodeDNSKEYMissing), fmt.Errorf("%w: algorithm %d key tag %d", ErrNoKeyFoundForSignature, sig.Algorithm, sig.KeyTag).Error())
			}
			continue
		}

		verifiedCount++
		if verifiedCount > MaxValidateRRSigs {
			return bogusStatus(int(dns.ExtendedErrorCodeDNSBogus), ErrTooManySignatures.Error())
		}

		for _, key := range candidates {
			result, err := verifySingle(sig, rrset.RRset, key, now)
			if err != nil {
				lastResult = bogusStatus(int(dns.ExtendedErrorCodeDNSBogus), err.Error())
				if requirements != nil {
					requirements.SetBogus(sig.Algorithm)
				}
				continue
			}

			switch result {
			case CryptoOk:
				if requirements == nil {
					rrset.SetSecure(sig.SignerName)
					return secureStatus("signature verified")
				}
				if requirements.SetSecure(sig.Algorithm) {
					rrset.SetSecure(sig.SignerName)
					return secureStatus("signature verified")
				}
				// This algorithm is now satisfied, but the zone signals others
				// that still need a valid signature before the set as a whole
				// can be declared Secure.
			case CryptoSignatureExpired, CryptoSignatureNotYetValid:
				lastResult = bogusStatus(edeCodeForTimeFault(result), ErrInvalidTime.Error())
				if requirements != nil {
					requirements.SetBogus(sig.Algorithm)
				}
			default:
				lastResult = bogusStatus(int(dns.ExtendedErrorCodeDNSBogus), ErrInvalidSignature.Error())
				if requirements != nil {
					requirements.SetBogus(sig.Algorithm)
				}
			}
		}
	}

	if requirements != nil && !requirements.Satisfied() {
		return bogusStatus(int(dns.ExtendedErrorCodeDNSBogus), "not all signalled algorithms have a valid signature")
	}
	if lastResult == nil {
		return bogusStatus(int(dns.ExtendedErrorCodeDNSBogus), ErrUnknown.Error())
	}
	return lastResult
}

// VerifyWithKey verifies rrset's signatures against a single known dnskey,
// ignoring any KeyEntry trust state. Signatures whose key tag does not match
// dnskey are skipped without counting against MaxValidateRRSigs.
func VerifyWithKey(rrset *RRset, dnskey *dns.DNSKEY, now time.Time) *JustifiedStatus {
	tag := dnskey.KeyTag()

	var candidates []*dns.RRSIG
	for _, sig := range rrset.Sigs() {
		if sig.KeyTag == tag {
			candidates = append(candidates, sig)
		}
	}

	if len(candidates) == 0 {
		return bogusStatus(int(dns.ExtendedErrorCodeDNSKEYMissing), "no rrsig matches the given key's tag")
	}

	var lastResult *JustifiedStatus
	verifiedCount := 0
	for _, sig := range candidates {
		verifiedCount++
		if verifiedCount > MaxValidateRRSigs {
			return bogusStatus(int(dns.ExtendedErrorCodeDNSBogus), ErrTooManySignatures.Error())
		}

		result, err := verifySingle(sig, rrset, dnskey, now)
		if err != nil {
			lastResult = bogusStatus(int(dns.ExtendedErrorCodeDNSBogus), err.Error())
			continue
		}
		switch result {
		case CryptoOk:
			return secureStatus("signature verified")
		case CryptoSignatureExpired, CryptoSignatureNotYetValid:
			lastResult = bogusStatus(edeCodeForTimeFault(result), ErrInvalidTime.Error())
		default:
			lastResult = bogusStatus(int(dns.ExtendedErrorCodeDNSBogus), ErrInvalidSignature.Error())
		}
	}
	return lastResult
}

// edeCodeForTimeFault maps a CryptoResult validity-window failure to the
// matching Extended DNS Error code (RFC 8914).
func edeCodeForTimeFault(result CryptoResult) int {
	if result == CryptoSignatureNotYetValid {
		return int(dns.ExtendedErrorCodeSignatureNotYetValid)
	}
	return int(dns.ExtendedErrorCodeSignatureExpired)
}

// candidateKeys returns the DNSKEYs matching sig's algorithm and key tag.
// Key-tag collisions are possible; all matches must be tried.
func candidateKeys(keys []*dns.DNSKEY, sig *dns.RRSIG) []*dns.DNSKEY {
	var out []*dns.DNSKEY
	for _, k := range keys {
		if k.Algorithm == sig.Algorithm && k.KeyTag() == sig.KeyTag {
			out = append(out, k)
		}
	}
	return out
}

func verifySingle(sig *dns.RRSIG, rrset *RRset, key *dns.DNSKEY, now time.Time) (CryptoResult, error) {
	digest, err := DigestRRset(sig, rrset)
	if err != nil {
		return CryptoMalformedSignature, err
	}

	keyBytes, err := base64.StdEncoding.DecodeString(key.PublicKey)
	if err != nil {
		return CryptoInvalidKey, fmt.Errorf("decoding dnskey public key: %w", err)
	}

	sigBytes, err := base64.StdEncoding.DecodeString(sig.Signature)
	if err != nil {
		return CryptoMalformedSignature, fmt.Errorf("decoding rrsig signature: %w", err)
	}

	verifier := DefaultVerifier
	if verifier == nil {
		verifier = StdCryptoVerifier{}
	}

	return verifier.Verify(sig.Algorithm, keyBytes, digest, sigBytes, sig.Inception, sig.Expiration, now), nil
}
