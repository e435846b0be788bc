package dnssec

import "github.com/miekg/dns"

// AlgorithmRequirements tracks, for a zone that signals multiple DNSSEC
// algorithms (RFC 6975 DAU), which of them still need a valid signature
// before the RRset as a whole can be declared Secure. A zone mid-rollover
// publishes signatures under more than one algorithm; seeing one valid
// signature is not sufficient if the key set also announces an algorithm
// the validator supports but hasn't yet seen a valid signature for.
type AlgorithmRequirements struct {
	needed map[uint8]requirementState
}

// supportedAlgorithms lists the algorithm identifiers StdCryptoVerifier can
// verify. A caller supplying a different CryptoVerifier with broader or
// narrower support should build requirements accordingly; this module has
// no registry for that, matching the spec's single-verifier default.
var supportedAlgorithms = map[uint8]bool{
	dns.DSA:              true,
	dns.DSANSEC3SHA1:     true,
	dns.RSASHA1:          true,
	dns.RSASHA1NSEC3SHA1: true,
	dns.RSASHA256:        true,
	dns.RSASHA512:        true,
	dns.ECDSAP256SHA256:  true,
	dns.ECDSAP384SHA384:  true,
	dns.ED25519:          true,
}

// NewAlgorithmRequirements builds a tracker from a signalled algorithm list,
// silently dropping any algorithm this module cannot verify.
func NewAlgorithmRequirements(list []uint8) *AlgorithmRequirements {
	needed := make(map[uint8]requirementState, len(list))
	for _, alg := range list {
		if supportedAlgorithms[alg] {
			needed[alg] = pending
		}
	}
	return &AlgorithmRequirements{needed: needed}
}

// Num reports how many algorithms are tracked. A caller seeing 0 here (after
// a non-empty signalled list was supplied) must report Insecure with EDE
// UnsupportedDNSKEYAlgorithm: every signalled algorithm was unsupported.
func (a *AlgorithmRequirements) Num() int {
	return len(a.needed)
}

// SetSecure marks alg as satisfied. Returns true iff every tracked algorithm
// is now satisfied, meaning the rollover requirement as a whole is met.
func (a *AlgorithmRequirements) SetSecure(alg uint8) bool {
	if _, ok := a.needed[alg]; ok {
		a.needed[alg] = reqSecure
	}
	for _, state := range a.needed {
		if state != reqSecure {
			return false
		}
	}
	return true
}

// Satisfied reports whether every tracked algorithm has a valid signature.
func (a *AlgorithmRequirements) Satisfied() bool {
	for _, state := range a.needed {
		if state != reqSecure {
			return false
		}
	}
	return true
}

// SetBogus marks alg as having failed verification, but only if no valid
// signature under alg has already been seen - a later bad signature must
// not retract an earlier good one.
func (a *AlgorithmRequirements) SetBogus(alg uint8) {
	if state, ok := a.needed[alg]; ok && state == pending {
		a.needed[alg] = reqBogus
	}
}
