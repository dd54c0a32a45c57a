package intent

import (
	"errors"
	"time"

	"github.com/flaboy/aira-pay/pkg/config"
	"github.com/flaboy/aira-pay/pkg/database"
	apperrors "github.com/flaboy/aira-pay/pkg/errors"
	"github.com/flaboy/aira-pay/pkg/events"
	"github.com/flaboy/aira-pay/pkg/logger"
	"github.com/flaboy/aira-pay/pkg/models"
	"github.com/flaboy/aira-pay/pkg/qrcode"
	"github.com/flaboy/aira-pay/pkg/quota"
	"github.com/flaboy/aira-pay/pkg/types"

	"gorm.io/gorm"
)

// SettlementQueue 结算队列的生产者接口
type SettlementQueue interface {
	Add(intentID uint, amount int64, payerWallet, lpWallet string) error
}

// Service 支付意图服务：创建、查询、取消、确认
type Service struct {
	identifier  qrcode.PlatformIdentifier
	settlements SettlementQueue
}

func NewService(identifier qrcode.PlatformIdentifier, settlements SettlementQueue) *Service {
	return &Service{identifier: identifier, settlements: settlements}
}

type CreateIntentInput struct {
	CodeContent   string
	Amount        int64 // 分
	Currency      string
	Description   string
	WalletAddress string
}

// Create 创建支付意图并通知任务池
func (s *Service) Create(input CreateIntentInput) (*models.PaymentIntent, error) {
	if input.CodeContent == "" || input.WalletAddress == "" {
		return nil, apperrors.ErrInvalidWalletAddress
	}
	if !types.IsWalletAddress(input.WalletAddress) {
		return nil, apperrors.ErrInvalidWalletAddress
	}
	if input.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	info, err := s.identifier.Identify(input.CodeContent)
	if err != nil {
		return nil, apperrors.ErrCodeUnrecognized
	}

	currency := input.Currency
	if currency == "" {
		currency = config.Config.Intent.Currency
	}
	description := input.Description
	if description == "" {
		description = "Pay via aira-pay"
	}

	var intent models.PaymentIntent
	err = database.Database().Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where(models.User{WalletAddress: input.WalletAddress}).
			Attrs(models.User{IsWalletVerified: true}).
			FirstOrCreate(&user).Error; err != nil {
			return err
		}

		intent = models.PaymentIntent{
			Amount:            input.Amount,
			Currency:          currency,
			Platform:          info.Platform,
			MerchantID:        info.MerchantID,
			MerchantName:      info.MerchantName,
			MerchantAccountID: info.AccountID,
			CodeContent:       input.CodeContent,
			Description:       description,
			PayerWallet:       input.WalletAddress,
			PayerUserID:       user.ID,
			Status:            models.IntentStatusCreated,
			ExpiresAt:         time.Now().Add(time.Duration(config.Config.Intent.ExpireMinutes) * time.Minute),
		}
		if err := tx.Create(&intent).Error; err != nil {
			return err
		}

		return tx.Create(&models.IntentStatusChange{
			IntentID:  intent.ID,
			Status:    models.IntentStatusCreated,
			Note:      "Payment intent created",
			CreatedAt: time.Now(),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if err := events.EmitNewPaymentIntent(&types.NewPaymentIntentEvent{
		IntentID:  models.EncodeIntentID(intent.ID),
		Amount:    types.CentsToDecimal(intent.Amount),
		Currency:  intent.Currency,
		Platform:  intent.Platform,
		ExpiresAt: intent.ExpiresAt,
	}); err != nil {
		logger.Logger.Warn().Err(err).Msg("emit new_payment_intent failed")
	}

	return &intent, nil
}

// Get 按对外HashID查询支付意图
func (s *Service) Get(intentHashID string) (*models.PaymentIntent, error) {
	id, err := models.DecodeIntentID(intentHashID)
	if err != nil {
		return nil, apperrors.ErrIntentNotFound
	}

	var intent models.PaymentIntent
	if err := database.Database().First(&intent, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIntentNotFound
		}
		return nil, err
	}
	return &intent, nil
}

// History 按时间顺序返回意图的状态历史
func (s *Service) History(intentID uint) ([]models.IntentStatusChange, error) {
	var changes []models.IntentStatusChange
	err := database.Database().
		Where("intent_id = ?", intentID).
		Order("id ASC").
		Find(&changes).Error
	return changes, err
}

// ListByPayer 按付款人钱包地址查询意图列表，时间倒序
func (s *Service) ListByPayer(wallet string, status string, form *types.QueryForm) ([]models.PaymentIntent, error) {
	return s.list("payer_wallet", wallet, status, form)
}

// ListByLP 按LP钱包地址查询意图列表，时间倒序
func (s *Service) ListByLP(wallet string, status string, form *types.QueryForm) ([]models.PaymentIntent, error) {
	return s.list("lp_wallet", wallet, status, form)
}

func (s *Service) list(walletColumn, wallet, status string, form *types.QueryForm) ([]models.PaymentIntent, error) {
	tx := database.Database().Model(&models.PaymentIntent{}).Where(walletColumn+" = ?", wallet)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	var items []models.PaymentIntent
	err := tx.Count(&form.Pagination.Total).
		Order("created_at DESC").
		Offset((form.Pagination.Page - 1) * form.Pagination.Size).
		Limit(form.Pagination.Size).
		Find(&items).Error
	return items, err
}

// Cancel 取消支付意图。只有付款人可以取消，且仅限created/matched状态；
// 已匹配的意图在取消时释放LP的锁定额度。状态条件更新保证同一意图
// 的额度恰好释放一次。
func (s *Service) Cancel(intentHashID, wallet, reason string) (*models.PaymentIntent, error) {
	intent, err := s.Get(intentHashID)
	if err != nil {
		return nil, err
	}
	if intent.PayerWallet != wallet {
		return nil, apperrors.ErrNotIntentOwner
	}

	note := reason
	if note == "" {
		note = "Cancelled by payer"
	}

	err = database.Database().Transaction(func(tx *gorm.DB) error {
		if intent.Status == models.IntentStatusMatched && intent.LPID != nil {
			if err := quota.Release(tx, *intent.LPID, intent.Amount); err != nil {
				return err
			}
		}
		return Transition(tx, intent, models.IntentStatusCancelled, note, nil)
	})
	if err != nil {
		return nil, err
	}

	if err := events.EmitPaymentIntentCancelled(&types.PaymentIntentCancelledEvent{
		IntentID: models.EncodeIntentID(intent.ID),
		Status:   string(intent.Status),
	}); err != nil {
		logger.Logger.Warn().Err(err).Msg("emit payment_intent_cancelled failed")
	}

	return intent, nil
}

// Confirm 用户确认收到服务，意图进入user_confirmed并投递结算任务。
// 请求在结算完成前即返回，结算结果通过事件异步通知。
func (s *Service) Confirm(intentHashID, wallet string) (*models.PaymentIntent, error) {
	intent, err := s.Get(intentHashID)
	if err != nil {
		return nil, err
	}
	if intent.PayerWallet != wallet {
		return nil, apperrors.ErrNotIntentOwner
	}

	err = database.Database().Transaction(func(tx *gorm.DB) error {
		return Transition(tx, intent, models.IntentStatusUserConfirmed, "Payer confirmed service received", nil)
	})
	if err != nil {
		return nil, err
	}

	// 入队失败不回滚确认：意图保持user_confirmed，可随后Resubmit
	if err := s.settlements.Add(intent.ID, intent.Amount, intent.PayerWallet, intent.LPWallet); err != nil {
		logger.Logger.Warn().Err(err).Uint("intent_id", intent.ID).Msg("settlement enqueue failed, awaiting resubmit")
	}

	if err := events.EmitPaymentIntentConfirmed(&types.PaymentIntentConfirmedEvent{
		IntentID: models.EncodeIntentID(intent.ID),
		Status:   string(intent.Status),
	}); err != nil {
		logger.Logger.Warn().Err(err).Msg("emit payment_intent_confirmed failed")
	}

	return intent, nil
}
