package dnssec

import (
	"github.com/miekg/dns"
)

func recordsHaveTheSameOwner(rr []dns.RR) bool {
	if len(rr) < 2 {
		return true
	}
	owner := rr[0].Header().Name
	for i := 1; i < len(rr); i++ {
		if rr[i].Header().Name != owner {
			return false
		}
	}
	return true
}

// wildcardName replaces the first label of name with "*".
func wildcardName(name string) string {
	labelIndexes := dns.Split(name)
	if len(labelIndexes) < 2 {
		return "*."
	}
	return "*." + name[labelIndexes[1]:]
}

// isSubdomainOf reports whether child is equal to or a descendant of parent,
// comparing canonicalised (lowercased, fully-qualified) names.
func isSubdomainOf(child, parent string) bool {
	c, p := dns.CanonicalName(child), dns.CanonicalName(parent)
	if c == p {
		return true
	}
	return dns.IsSubDomain(p, c)
}
