package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

// AcquireUserChainLock serializes chain generation/maintenance per user
// across instances using MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same
// *gorm.DB that will run the chain transaction.
func AcquireUserChainLock(tx *gorm.DB, userId int) error {
	lockName := fmt.Sprintf("chain:%d", userId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire chain lock for user_id=%d", userId)
	}
	return nil
}

func ReleaseUserChainLock(tx *gorm.DB, userId int) {
	lockName := fmt.Sprintf("chain:%d", userId)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}
