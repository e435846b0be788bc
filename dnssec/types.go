package dnssec

import (
	"github.com/miekg/dns"
)

// RRset is an unordered set of resource records sharing (owner-name, class,
// type), plus zero or more RRSIGs covering them. NewRRset panics if the
// non-signature records passed to it don't share an owner name.
type RRset struct {
	Name    string
	Class   uint16
	Type    uint16
	Records []dns.RR
	RRSIGs  []*dns.RRSIG
}

// NewRRset builds an RRset from a flat slice of records sharing an owner,
// class and type, plus any RRSIG records covering them. RRSIGs found amongst
// rr are extracted automatically; pass additional out-of-band RRSIGs via sigs.
func NewRRset(rr []dns.RR, sigs ...*dns.RRSIG) *RRset {
	set := &RRset{RRSIGs: append([]*dns.RRSIG{}, sigs...)}
	var plain []dns.RR
	for _, r := range rr {
		if sig, ok := r.(*dns.RRSIG); ok {
			set.RRSIGs = append(set.RRSIGs, sig)
			continue
		}
		if set.Name == "" {
			set.Name = r.Header().Name
			set.Class = r.Header().Class
			set.Type = r.Header().Rrtype
		}
		plain = append(plain, r)
	}
	if !recordsHaveTheSameOwner(plain) {
		panic("dnssec: NewRRset requires every non-RRSIG record to share an owner name")
	}
	set.Records = plain
	return set
}

// Sigs returns the RRSIGs covering this RRset.
func (s *RRset) Sigs() []*dns.RRSIG {
	return s.RRSIGs
}

// SRRset is an RRset augmented with a cached security status and the
// signer-name asserted by whichever RRSIG last validated it (or was
// synthesized, in the CNAME/DNAME case).
type SRRset struct {
	*RRset
	Status     SecurityStatus
	SignerName *string
}

// NewSRRset wraps an RRset as Unchecked with no signer-name recorded yet.
func NewSRRset(set *RRset) *SRRset {
	return &SRRset{RRset: set, Status: Unchecked}
}

// SetSecure marks the set Secure and records the signer-name that justified it.
func (s *SRRset) SetSecure(signerName string) {
	s.Status = Secure
	name := dns.CanonicalName(signerName)
	s.SignerName = &name
}
