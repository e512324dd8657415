package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/* ==============================================
   FIFO batch distribution: pure.

   Targets must already be ordered oldest-first
   (transaction_date, id). Each target receives
   min(remaining, balance) until the batch money
   runs out; later targets get nothing.
============================================== */

type BatchTarget struct {
	TransferID uuid.UUID
	Balance    decimal.Decimal
}

type Allocation struct {
	TransferID uuid.UUID
	Amount     decimal.Decimal
}

// DistributeFIFO returns only the non-zero allocations plus whatever
// could not be placed (zero whenever total ≤ Σ balances).
func DistributeFIFO(total decimal.Decimal, targets []BatchTarget) ([]Allocation, decimal.Decimal) {
	remaining := total
	allocs := make([]Allocation, 0, len(targets))

	for _, t := range targets {
		if !remaining.IsPositive() {
			break
		}
		if !t.Balance.IsPositive() {
			continue
		}
		amount := decimal.Min(remaining, t.Balance)
		allocs = append(allocs, Allocation{TransferID: t.TransferID, Amount: amount})
		remaining = remaining.Sub(amount)
	}
	return allocs, remaining
}
