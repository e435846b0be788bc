package dnssec

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: rrset at example.com.", ErrInvalidSignature)
	assert.True(t, errors.Is(wrapped, ErrInvalidSignature))
	assert.NotEmpty(t, wrapped.Error())
}
