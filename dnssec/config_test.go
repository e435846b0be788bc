package dnssec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewVerifierFromConfig_SetsMaxValidateRRSigs(t *testing.T) {
	defer func() { MaxValidateRRSigs = DefaultMaxValidateRRSigs }()

	NewVerifierFromConfig(map[string]string{MaxValidateRRSigsProperty: "3"})
	assert.Equal(t, 3, MaxValidateRRSigs)
}

func TestNewVerifierFromConfig_AbsentKeyLeavesDefault(t *testing.T) {
	defer func() { MaxValidateRRSigs = DefaultMaxValidateRRSigs }()

	NewVerifierFromConfig(map[string]string{})
	assert.Equal(t, DefaultMaxValidateRRSigs, MaxValidateRRSigs)
}

func TestNewVerifierFromConfig_UnparsableKeyLeavesCurrentValue(t *testing.T) {
	defer func() { MaxValidateRRSigs = DefaultMaxValidateRRSigs }()

	MaxValidateRRSigs = 5
	NewVerifierFromConfig(map[string]string{MaxValidateRRSigsProperty: "not-a-number"})
	assert.Equal(t, 5, MaxValidateRRSigs)
}
