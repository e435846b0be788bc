package dnssec

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/miekg/dns"
)

// DigestRRset produces the canonical byte stream an RRSIG's signature is
// computed over, per RFC 4034 section 3.1.8.1: the RRSIG's signed portion
// (everything but the signature bytes) followed by the covered records in
// canonical form, sorted ascending by their canonical wire encoding.
func DigestRRset(sig *dns.RRSIG, rrset *RRset) ([]byte, error) {
	if len(rrset.Records) == 0 {
		return nil, ErrSignatureSetEmpty
	}

	var buf bytes.Buffer

	prefix, err := packRRSIGPrefix(sig)
	if err != nil {
		return nil, err
	}
	buf.Write(prefix)

	wireRecords := make([][]byte, 0, len(rrset.Records))
	for _, r := range rrset.Records {
		canon := canonicalizeRecord(r, sig)
		wire, err := packRR(canon)
		if err != nil {
			return nil, err
		}
		wireRecords = append(wireRecords, wire)
	}

	sort.Slice(wireRecords, func(i, j int) bool {
		return bytes.Compare(wireRecords[i], wireRecords[j]) < 0
	})

	for _, wire := range wireRecords {
		buf.Write(wire)
	}

	return buf.Bytes(), nil
}

// packRRSIGPrefix renders RFC 4034's "RRSIG RDATA" signed portion: the RRSIG's
// rdata fields in wire form, excluding both the owner/class/ttl/rdlength
// header and the trailing Signature field.
func packRRSIGPrefix(sig *dns.RRSIG) ([]byte, error) {
	var buf bytes.Buffer

	if err := binary.Write(&buf, binary.BigEndian, sig.TypeCovered); err != nil {
		return nil, err
	}
	buf.WriteByte(sig.Algorithm)
	buf.WriteByte(sig.Labels)
	if err := binary.Write(&buf, binary.BigEndian, sig.OrigTtl); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, sig.Expiration); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, sig.Inception); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, sig.KeyTag); err != nil {
		return nil, err
	}

	signer := make([]byte, 255)
	off, err := dns.PackDomainName(dns.CanonicalName(sig.SignerName), signer, 0, nil, false)
	if err != nil {
		return nil, err
	}
	buf.Write(signer[:off])

	return buf.Bytes(), nil
}

// canonicalizeRecord returns a copy of rr with its owner name normalized per
// RFC 4034 section 3.1.8.1 wildcard-expansion rules, TTL replaced by the
// RRSIG's original TTL, and the domain names inside NS, CNAME, DNAME, PTR,
// MX, SRV and SOA rdata lowercased. Other rdata is packed as given, with
// compression disabled.
func canonicalizeRecord(rr dns.RR, sig *dns.RRSIG) dns.RR {
	cp := dns.Copy(rr)
	hdr := cp.Header()

	name := dns.CanonicalName(hdr.Name)
	labels := dns.CountLabel(name)
	if keep := int(sig.Labels); keep < labels {
		// Keep the RRSIG's label count of trailing labels, prefixed by "*".
		name = wildcardName(name[dns.Split(name)[labels-keep-1]:])
	}

	hdr.Name = name
	hdr.Ttl = sig.OrigTtl

	switch x := cp.(type) {
	case *dns.NS:
		x.Ns = dns.CanonicalName(x.Ns)
	case *dns.CNAME:
		x.Target = dns.CanonicalName(x.Target)
	case *dns.DNAME:
		x.Target = dns.CanonicalName(x.Target)
	case *dns.PTR:
		x.Ptr = dns.CanonicalName(x.Ptr)
	case *dns.MX:
		x.Mx = dns.CanonicalName(x.Mx)
	case *dns.SRV:
		x.Target = dns.CanonicalName(x.Target)
	case *dns.SOA:
		x.Ns, x.Mbox = dns.CanonicalName(x.Ns), dns.CanonicalName(x.Mbox)
	}

	return cp
}

func packRR(rr dns.RR) ([]byte, error) {
	wire := make([]byte, dns.MaxMsgSize)
	off, err := dns.PackRR(rr, wire, 0, nil, false)
	if err != nil {
		return nil, err
	}
	return wire[:off], nil
}
