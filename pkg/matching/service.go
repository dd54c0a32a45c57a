// Package matching 实现LP侧的接单协议：任务池浏览、原子接单、标记代付完成。
package matching

import (
	"errors"
	"time"

	"github.com/flaboy/aira-pay/pkg/database"
	apperrors "github.com/flaboy/aira-pay/pkg/errors"
	"github.com/flaboy/aira-pay/pkg/events"
	"github.com/flaboy/aira-pay/pkg/intent"
	"github.com/flaboy/aira-pay/pkg/logger"
	"github.com/flaboy/aira-pay/pkg/models"
	"github.com/flaboy/aira-pay/pkg/quota"
	"github.com/flaboy/aira-pay/pkg/types"

	"gorm.io/gorm"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Claim LP接单：预扣额度并把意图迁移到matched，两步在同一事务中，
// 对外不存在"额度已扣但意图未matched"的中间状态。竞争失败的调用方
// 得到ErrClaimConflict，事务回滚保证其预扣不会残留。
func (s *Service) Claim(intentHashID, lpWallet string) (*models.PaymentIntent, error) {
	var lp models.LP
	if err := database.Database().Where("wallet_address = ?", lpWallet).First(&lp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLPNotFound
		}
		return nil, err
	}
	if !lp.IsActive || !lp.IsVerified {
		return nil, apperrors.ErrLPInactive
	}

	intentID, err := models.DecodeIntentID(intentHashID)
	if err != nil {
		return nil, apperrors.ErrIntentNotFound
	}

	var pi models.PaymentIntent
	err = database.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&pi, intentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrIntentNotFound
			}
			return err
		}
		if pi.Status != models.IntentStatusCreated {
			return apperrors.ErrInvalidState
		}
		if time.Now().After(pi.ExpiresAt) {
			return apperrors.ErrIntentExpired
		}
		if !lp.SupportsPlatform(pi.Platform) {
			return apperrors.ErrPlatformUnsupported
		}

		if err := quota.Reserve(tx, lp.ID, pi.Amount); err != nil {
			return err
		}

		err := intent.Transition(tx, &pi, models.IntentStatusMatched, "Claimed by LP "+lp.WalletAddress, map[string]interface{}{
			"lp_id":     lp.ID,
			"lp_wallet": lp.WalletAddress,
		})
		if errors.Is(err, apperrors.ErrStateConflict) {
			// 另一个LP抢先接单，回滚会撤销本次预扣
			return apperrors.ErrClaimConflict
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	pi.LPID = &lp.ID
	pi.LPWallet = lp.WalletAddress

	if err := events.EmitPaymentIntentMatched(&types.PaymentIntentMatchedEvent{
		IntentID: models.EncodeIntentID(pi.ID),
		Status:   string(pi.Status),
		LPWallet: lp.WalletAddress,
	}); err != nil {
		logger.Logger.Warn().Err(err).Msg("emit payment_intent_matched failed")
	}

	return &pi, nil
}

// MarkPaid 被指派的LP声明已完成法币代付
func (s *Service) MarkPaid(intentHashID, lpWallet, note string) (*models.PaymentIntent, error) {
	intentID, err := models.DecodeIntentID(intentHashID)
	if err != nil {
		return nil, apperrors.ErrIntentNotFound
	}

	var pi models.PaymentIntent
	if err := database.Database().First(&pi, intentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIntentNotFound
		}
		return nil, err
	}
	if pi.LPWallet != lpWallet {
		return nil, apperrors.ErrNotAssignedLP
	}

	if note == "" {
		note = "LP completed fiat payment"
	}

	err = database.Database().Transaction(func(tx *gorm.DB) error {
		return intent.Transition(tx, &pi, models.IntentStatusLPPaid, note, nil)
	})
	if err != nil {
		return nil, err
	}

	if err := events.EmitPaymentIntentLPPaid(&types.PaymentIntentLPPaidEvent{
		IntentID: models.EncodeIntentID(pi.ID),
		Status:   string(pi.Status),
		LPWallet: lpWallet,
	}); err != nil {
		logger.Logger.Warn().Err(err).Msg("emit payment_intent_lp_paid failed")
	}

	return &pi, nil
}

// PoolFilter 任务池查询条件
type PoolFilter struct {
	Platform  string
	MinAmount int64 // 分，0表示不限
	MaxAmount int64 // 分，0表示不限
}

// Pool 任务池：所有未过期的created意图，按创建时间正序（先到先得，
// 保证早创建的意图优先被看到）
func (s *Service) Pool(filter PoolFilter, form *types.QueryForm) ([]models.PaymentIntent, error) {
	tx := database.Database().Model(&models.PaymentIntent{}).
		Where("status = ?", models.IntentStatusCreated).
		Where("expires_at > ?", time.Now())

	if filter.Platform != "" {
		tx = tx.Where("platform = ?", filter.Platform)
	}
	if filter.MinAmount > 0 {
		tx = tx.Where("amount >= ?", filter.MinAmount)
	}
	if filter.MaxAmount > 0 {
		tx = tx.Where("amount <= ?", filter.MaxAmount)
	}

	var items []models.PaymentIntent
	err := tx.Count(&form.Pagination.Total).
		Order("created_at ASC").
		Offset((form.Pagination.Page - 1) * form.Pagination.Size).
		Limit(form.Pagination.Size).
		Find(&items).Error
	return items, err
}
