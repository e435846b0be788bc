package dnssec

import (
	"errors"
)

var (
	ErrSignatureSetEmpty      = errors.New("cannot verify an empty signature set")
	ErrNoKeyFoundForSignature = errors.New("no key found for signature")
	ErrInvalidTime            = errors.New("current time is outside of the signature's validity period")
	ErrInvalidSignature       = errors.New("rrset signature is invalid")
	ErrSignerOffTree          = errors.New("rrsig signer name is not the rrset's owner or a parent of it")
	ErrNoSupportedAlgorithm   = errors.New("no supported algorithm in the signalled algorithm list")
	ErrTooManySignatures      = errors.New("exceeded the maximum number of signatures examined for this rrset")
	ErrKeyEntryBad            = errors.New("key entry is marked bad")
	ErrUnknown                = errors.New("unknown error: unable to process rrset")
)
