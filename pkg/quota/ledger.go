// Package quota 维护LP额度账本。四个操作是额度字段唯一的修改入口，
// 全部通过带前置条件的单条UPDATE实现，同一LP上的并发调用由存储层串行化。
package quota

import (
	"errors"

	apperrors "github.com/flaboy/aira-pay/pkg/errors"
	"github.com/flaboy/aira-pay/pkg/models"

	"gorm.io/gorm"
)

// Reserve 预扣可用额度：available -= amount, locked += amount。
// available不足返回ErrInsufficientQuota，超出单笔限额返回ErrPerTransactionExceeded。
func Reserve(tx *gorm.DB, lpID uint, amount int64) error {
	if amount <= 0 {
		return apperrors.ErrInvalidAmount
	}

	var lp models.LP
	if err := tx.Select("id", "quota_per_transaction").First(&lp, lpID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrLPNotFound
		}
		return err
	}
	if lp.QuotaPerTransaction < amount {
		return apperrors.ErrPerTransactionExceeded
	}

	result := tx.Model(&models.LP{}).
		Where("id = ? AND quota_available >= ?", lpID, amount).
		Updates(map[string]interface{}{
			"quota_available": gorm.Expr("quota_available - ?", amount),
			"quota_locked":    gorm.Expr("quota_locked + ?", amount),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrInsufficientQuota
	}
	return nil
}

// Release 释放锁定额度，向下截断保证locked不为负、available不超过total，
// 防止对同一意图的重复释放把账本推出边界
func Release(tx *gorm.DB, lpID uint, amount int64) error {
	if amount <= 0 {
		return apperrors.ErrInvalidAmount
	}

	// 两个SET均以更新前的quota_locked求值。quota_available必须排在
	// quota_locked之前：MySQL按从左到右求值SET，其他引擎本就读旧值。
	newLocked := "CASE WHEN quota_locked >= ? THEN quota_locked - ? ELSE 0 END"
	result := tx.Exec(
		"UPDATE "+(&models.LP{}).TableName()+
			" SET quota_available = quota_total - "+newLocked+
			", quota_locked = "+newLocked+
			" WHERE id = ?",
		amount, amount, amount, amount, lpID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrLPNotFound
	}
	return nil
}

// AdjustTotal 调整总额度。newTotal不得低于当前locked
func AdjustTotal(tx *gorm.DB, lpID uint, newTotal int64) error {
	if newTotal < 0 {
		return apperrors.ErrInvalidAmount
	}

	result := tx.Model(&models.LP{}).
		Where("id = ? AND quota_locked <= ?", lpID, newTotal).
		Updates(map[string]interface{}{
			"quota_available": gorm.Expr("quota_available + (? - quota_total)", newTotal),
			"quota_total":     newTotal,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.LP{}).Where("id = ?", lpID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.ErrLPNotFound
		}
		return apperrors.ErrBelowLockedQuota
	}
	return nil
}

// AdjustPerTransaction 调整单笔限额，只约束之后的预扣
func AdjustPerTransaction(tx *gorm.DB, lpID uint, newLimit int64) error {
	if newLimit < 0 {
		return apperrors.ErrInvalidAmount
	}

	result := tx.Model(&models.LP{}).
		Where("id = ?", lpID).
		Update("quota_per_transaction", newLimit)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrLPNotFound
	}
	return nil
}
