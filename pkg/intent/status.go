// Package intent 管理支付意图的生命周期。状态只能沿转移表的边前进，
// Transition是唯一被允许修改status字段的代码路径。
package intent

import (
	"time"

	apperrors "github.com/flaboy/aira-pay/pkg/errors"
	"github.com/flaboy/aira-pay/pkg/models"

	"gorm.io/gorm"
)

// 状态转移表。created/matched可取消；user_confirmed由结算结果决定走向；
// settled、cancelled、failed为终态
var transitions = map[models.IntentStatus][]models.IntentStatus{
	models.IntentStatusCreated:       {models.IntentStatusMatched, models.IntentStatusCancelled},
	models.IntentStatusMatched:       {models.IntentStatusLPPaid, models.IntentStatusCancelled},
	models.IntentStatusLPPaid:        {models.IntentStatusUserConfirmed},
	models.IntentStatusUserConfirmed: {models.IntentStatusSettled, models.IntentStatusFailed},
}

// CanTransition 检查from到to是否为转移表中的合法边
func CanTransition(from, to models.IntentStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition 将意图从当前状态迁移到to，追加状态历史。extra中的字段随状态
// 一并写入（例如matched时写入LP引用）。使用条件更新：若数据库中的状态已不是
// intent.Status，说明有并发修改，返回ErrStateConflict且不做任何写入。
// 调用方需在事务中调用，以保证状态、历史与副作用整体生效或整体回滚。
func Transition(tx *gorm.DB, intent *models.PaymentIntent, to models.IntentStatus, note string, extra map[string]interface{}) error {
	// 终态无出边
	if intent.Status.IsTerminal() || !CanTransition(intent.Status, to) {
		return apperrors.ErrInvalidState
	}

	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	result := tx.Model(&models.PaymentIntent{}).
		Where("id = ? AND status = ?", intent.ID, intent.Status).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrStateConflict
	}

	change := models.IntentStatusChange{
		IntentID:  intent.ID,
		Status:    to,
		Note:      note,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(&change).Error; err != nil {
		return err
	}

	intent.Status = to
	return nil
}
