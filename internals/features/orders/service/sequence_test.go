package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "001-2026", FormatOrderNumber(1, 2026))
	assert.Equal(t, "042-2026", FormatOrderNumber(42, 2026))
	// ordinal may outgrow the 3-digit pad without breaking the format
	assert.Equal(t, "1042-2026", FormatOrderNumber(1042, 2026))
}

func TestFormatPreInvoiceNumber(t *testing.T) {
	assert.Equal(t, "PRE-00001-2026", FormatPreInvoiceNumber(1, 2026))
	assert.Equal(t, "PRE-00310-2026", FormatPreInvoiceNumber(310, 2026))
}

func TestSequenceKeysAreYearScoped(t *testing.T) {
	assert.NotEqual(t, OrderSeqKey(2025), OrderSeqKey(2026))
	assert.NotEqual(t, OrderSeqKey(2026), PreInvoiceSeqKey(2026))
}
