package dnssec

import (
	"fmt"

	"github.com/miekg/dns"
)

// keyEntryKind tags which of the three KeyEntry shapes an instance carries.
type keyEntryKind uint8

const (
	keyEntryGood keyEntryKind = iota
	keyEntryNull
	keyEntryBad
)

// KeyEntry is a tagged union of trusted ("good"), proven-insecure ("null"),
// or bogus ("bad") key material at an owner-name.
//
// Invariants: Good implies a non-empty DNSKEY set; Null and Bad imply an
// empty one. Exactly one tag is active at a time.
type KeyEntry struct {
	kind keyEntryKind

	name  string
	class uint16
	ttl   uint32

	keys                []*dns.DNSKEY
	signalledAlgorithms []uint8

	edeCode   int
	badReason string
}

// NewGoodKeyEntry builds a trusted KeyEntry from a non-empty DNSKEY set. The
// signalled algorithm list, when provided, is what AlgorithmRequirements is
// built from during verification (RFC 6975 DAU signalling).
func NewGoodKeyEntry(keys []*dns.DNSKEY, signalledAlgorithms ...uint8) *KeyEntry {
	if len(keys) == 0 {
		panic("dnssec: NewGoodKeyEntry requires a non-empty key set")
	}
	return &KeyEntry{
		kind:                keyEntryGood,
		name:                dns.CanonicalName(keys[0].Header().Name),
		class:               keys[0].Header().Class,
		ttl:                 keys[0].Header().Ttl,
		keys:                keys,
		signalledAlgorithms: signalledAlgorithms,
		edeCode:             EDENone,
	}
}

// NewNullKeyEntry builds a key entry that denotes a proven-insecure point in
// the tree: no keys exist here, and that absence is itself trusted.
func NewNullKeyEntry(name string, class uint16, ttl uint32) *KeyEntry {
	return &KeyEntry{
		kind:    keyEntryNull,
		name:    dns.CanonicalName(name),
		class:   class,
		ttl:     ttl,
		edeCode: EDENone,
	}
}

// NewBadKeyEntry builds a key entry that denotes a validation failure at this
// name: no usable keys, and the absence is not trustworthy.
func NewBadKeyEntry(name string, class uint16, ttl uint32) *KeyEntry {
	return &KeyEntry{
		kind:    keyEntryBad,
		name:    dns.CanonicalName(name),
		class:   class,
		ttl:     ttl,
		edeCode: EDENone,
	}
}

// SetBadReason records why no usable keys are present. Valid on all three
// shapes: it explains an absence whether that absence is trusted (Null) or
// not (Bad). A Good entry stores the values, but ValidateKeyFor does not
// read them for Good entries.
func (k *KeyEntry) SetBadReason(edeCode int, text string) {
	k.edeCode = edeCode
	k.badReason = text
}

func (k *KeyEntry) IsGood() bool { return k.kind == keyEntryGood }
func (k *KeyEntry) IsNull() bool { return k.kind == keyEntryNull }
func (k *KeyEntry) IsBad() bool  { return k.kind == keyEntryBad }

func (k *KeyEntry) Name() string { return k.name }

// DNSKEYs returns the trusted key set. Empty for Null and Bad entries.
func (k *KeyEntry) DNSKEYs() []*dns.DNSKEY { return k.keys }

// SignalledAlgorithms returns the RFC 6975 DAU algorithm list attached to a
// Good entry, or nil if none was supplied.
func (k *KeyEntry) SignalledAlgorithms() []uint8 { return k.signalledAlgorithms }

// ValidateKeyFor applies the entry's trust state to set, short-circuiting
// full signature verification when the set is unsigned (no RRSIGs and no
// recorded signer-name), or when the entry itself is Null or Bad. Returns nil
// when the caller must proceed to signature verification against this
// entry's key set.
func (k *KeyEntry) ValidateKeyFor(set *SRRset) *JustifiedStatus {
	if set.SignerName == nil && len(set.Sigs()) == 0 {
		switch {
		case set.Status == Secure:
			// Already validated - e.g. a CNAME synthesized from a secured DNAME.
			return secureStatus("synthesized from an already-secure record")
		case k.IsNull():
			return insecureStatus(k.edeCode, k.badReasonOr("insecure unsigned"))
		case k.IsGood():
			return bogusStatus(int(dns.ExtendedErrorCodeRRSIGsMissing), "rrset is unsigned but a secure key entry exists")
		default:
			return bogusStatus(k.edeCode, k.badReasonOr(ErrKeyEntryBad.Error()))
		}
	}

	if k.IsBad() {
		return bogusStatus(k.edeCode, fmt.Sprintf("bad key at %s: %s", k.name, k.badReasonOr("no reason given")))
	}

	if k.IsNull() {
		return insecureStatus(k.edeCode, k.badReasonOr("proven insecure"))
	}

	return nil
}

func (k *KeyEntry) badReasonOr(fallback string) string {
	if k.badReason != "" {
		return k.badReason
	}
	return fallback
}
