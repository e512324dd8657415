package locks

import (
	"hash/fnv"

	"gorm.io/gorm"

	"aduanet_backend/internals/configs"
)

// AdvisoryXactLock takes a Postgres transaction-scoped advisory lock on
// the 64-bit hash of key, bounded by lock_timeout. The wait budget is
// the same LOCK_WAIT_TIMEOUT that bounds the in-process guard. It must
// be called on a *gorm.DB that is already inside a transaction;
// Postgres releases the lock automatically at commit/rollback. A
// lock_timeout expiry maps to ErrBusy so the caller sees the same
// retryable failure as the in-process guard.
func AdvisoryXactLock(tx *gorm.DB, key string) error {
	millis := configs.LockWaitTimeout().Milliseconds()
	if millis <= 0 {
		millis = 5000
	}
	if err := tx.Exec("SET LOCAL lock_timeout = ?", millis).Error; err != nil {
		return err
	}
	if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", KeyHash(key)).Error; err != nil {
		return ErrBusy
	}
	return nil
}

// KeyHash folds a lock key into the signed 64-bit space Postgres
// advisory locks use.
func KeyHash(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64())
}
