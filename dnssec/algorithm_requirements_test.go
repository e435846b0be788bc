package dnssec

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
)

func TestAlgorithmRequirements_DropsUnsupported(t *testing.T) {
	req := NewAlgorithmRequirements([]uint8{dns.RSASHA256, 255})
	assert.Equal(t, 1, req.Num())
}

func TestAlgorithmRequirements_AllUnsupportedYieldsZero(t *testing.T) {
	req := NewAlgorithmRequirements([]uint8{254, 255})
	assert.Equal(t, 0, req.Num())
}

func TestAlgorithmRequirements_SetSecure_RequiresAll(t *testing.T) {
	req := NewAlgorithmRequirements([]uint8{dns.RSASHA256, dns.ECDSAP256SHA256})

	assert.False(t, req.SetSecure(dns.RSASHA256))
	assert.True(t, req.SetSecure(dns.ECDSAP256SHA256))
}

func TestAlgorithmRequirements_SetBogus_DoesNotRetractSecure(t *testing.T) {
	req := NewAlgorithmRequirements([]uint8{dns.RSASHA256})

	assert.True(t, req.SetSecure(dns.RSASHA256))
	req.SetBogus(dns.RSASHA256)
	// A later bad signature under an already-secured algorithm must not undo it.
	assert.True(t, req.SetSecure(dns.RSASHA256))
}
