package dnssec

import "strconv"

type Logger func(string)

// Default logging functions just black-hole the input.

var Debug Logger = func(s string) {}
var Info Logger = func(s string) {}
var Warn Logger = func(s string) {}

// MaxValidateRRSigsProperty is the configuration key NewVerifierFromConfig
// reads to set MaxValidateRRSigs, mirroring the original source's
// MAX_VALIDATE_RRSIGS_PROPERTY.
const MaxValidateRRSigsProperty = "dnsvalidate.dnssec.max_validate_rrsigs"

// MaxValidateRRSigs bounds how many signatures Verify and VerifyWithKey will
// examine on a single RRset before declaring it Bogus. Overridable per
// process; NewVerifierFromConfig sets it from the
// "dnsvalidate.dnssec.max_validate_rrsigs" configuration key.
var MaxValidateRRSigs = DefaultMaxValidateRRSigs

// NewVerifierFromConfig applies cfg's recognised keys to the package-level
// verifier configuration. It's read once at construction, not watched for
// changes. An absent or unparsable MaxValidateRRSigsProperty leaves
// MaxValidateRRSigs at its current value.
//
// Recognised keys:
//   - dnsvalidate.dnssec.max_validate_rrsigs (integer, default 8)
func NewVerifierFromConfig(cfg map[string]string) {
	if s, ok := cfg[MaxValidateRRSigsProperty]; ok {
		if n, err := strconv.Atoi(s); err == nil {
			MaxValidateRRSigs = n
		} else {
			Warn("dnssec: invalid " + MaxValidateRRSigsProperty + " value " + s + ", keeping " + strconv.Itoa(MaxValidateRRSigs))
		}
	}
}

