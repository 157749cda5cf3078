package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Executing Transaction", humanize("EXECUTING_TRANSACTION"))
	assert.Equal(t, "Token Approval", humanize("tokenApproval"))
	assert.Equal(t, "Sign Eip712", humanize("signEIP712"))
	assert.Equal(t, "Buy", humanize("buy"))
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "0x1234", shorten("0x1234", 6))
	assert.Equal(t, "0xabcd...456789", shorten("0xabcdef0123456789", 6))
}
