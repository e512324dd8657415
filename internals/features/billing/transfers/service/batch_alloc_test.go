package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func targets(balances ...string) []BatchTarget {
	out := make([]BatchTarget, 0, len(balances))
	for _, b := range balances {
		out = append(out, BatchTarget{TransferID: uuid.New(), Balance: d(b)})
	}
	return out
}

func TestDistributeFIFOOldestFirst(t *testing.T) {
	ts := targets("100", "50", "200")

	allocs, remaining := DistributeFIFO(d("120"), ts)

	require.Len(t, allocs, 2, "third obligation gets nothing")
	assert.Equal(t, ts[0].TransferID, allocs[0].TransferID)
	assert.True(t, allocs[0].Amount.Equal(d("100")))
	assert.Equal(t, ts[1].TransferID, allocs[1].TransferID)
	assert.True(t, allocs[1].Amount.Equal(d("20")))
	assert.True(t, remaining.IsZero())
}

func TestDistributeFIFOExactCover(t *testing.T) {
	ts := targets("100", "50")

	allocs, remaining := DistributeFIFO(d("150"), ts)

	require.Len(t, allocs, 2)
	assert.True(t, allocs[0].Amount.Equal(d("100")))
	assert.True(t, allocs[1].Amount.Equal(d("50")))
	assert.True(t, remaining.IsZero())
}

func TestDistributeFIFOPartialFirstTarget(t *testing.T) {
	ts := targets("100", "50")

	allocs, remaining := DistributeFIFO(d("30"), ts)

	require.Len(t, allocs, 1)
	assert.True(t, allocs[0].Amount.Equal(d("30")))
	assert.True(t, remaining.IsZero())
}

func TestDistributeFIFOSkipsSettledTargets(t *testing.T) {
	ts := targets("0", "50")

	allocs, remaining := DistributeFIFO(d("20"), ts)

	require.Len(t, allocs, 1)
	assert.Equal(t, ts[1].TransferID, allocs[0].TransferID)
	assert.True(t, allocs[0].Amount.Equal(d("20")))
	assert.True(t, remaining.IsZero())
}

func TestDistributeFIFOOverflowReported(t *testing.T) {
	// CreateBatchPayment rejects this upfront; the allocator still
	// reports the unplaced remainder honestly.
	ts := targets("40")

	allocs, remaining := DistributeFIFO(d("100"), ts)

	require.Len(t, allocs, 1)
	assert.True(t, allocs[0].Amount.Equal(d("40")))
	assert.True(t, remaining.Equal(d("60")))
}

func TestDistributeFIFOCentPrecision(t *testing.T) {
	ts := targets("33.34", "33.33")

	allocs, remaining := DistributeFIFO(d("66.67"), ts)

	require.Len(t, allocs, 2)
	assert.True(t, allocs[0].Amount.Equal(d("33.34")))
	assert.True(t, allocs[1].Amount.Equal(d("33.33")))
	assert.True(t, remaining.IsZero())
}
