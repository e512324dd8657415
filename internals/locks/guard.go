package locks

import (
	"context"
	"errors"
)

// ErrBusy is returned when a named lock cannot be acquired within the
// guard's wait budget. Callers surface it as a retryable conflict.
var ErrBusy = errors.New("resource busy")

// Guard serializes balance-mutating work per named resource
// ("invoice:<id>", "order:<id>", "transfer:<id>"). Acquire blocks up to
// the configured timeout, then fails with ErrBusy. The returned release
// must be called after the surrounding transaction commits or rolls back.
//
// The guard is mandatory wiring: there is no no-op implementation.
// Single-node deployments use KeyedMutex; multi-node deployments pair it
// with the Postgres advisory lock taken inside the transaction (see
// AdvisoryXactLock), so either layer alone is enough to prevent the
// read-modify-write lost update on shared balances.
type Guard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
