// Package lp 流动性提供者的注册与额度自助管理
package lp

import (
	"encoding/json"
	"errors"

	"github.com/flaboy/aira-pay/pkg/database"
	apperrors "github.com/flaboy/aira-pay/pkg/errors"
	"github.com/flaboy/aira-pay/pkg/models"
	"github.com/flaboy/aira-pay/pkg/quota"
	"github.com/flaboy/aira-pay/pkg/types"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

type RegisterInput struct {
	WalletAddress       string
	Name                string
	Email               string
	SupportedPlatforms  []string
	TotalQuota          int64 // 分
	PerTransactionQuota int64 // 分
}

// Register 注册LP。初始available=total、locked=0。
// MVP阶段注册即视为已验证。
func (s *Service) Register(input RegisterInput) (*models.LP, error) {
	if !types.IsWalletAddress(input.WalletAddress) {
		return nil, apperrors.ErrInvalidWalletAddress
	}
	if len(input.SupportedPlatforms) == 0 {
		return nil, apperrors.ErrPlatformUnsupported
	}
	if input.TotalQuota <= 0 || input.PerTransactionQuota <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var count int64
	if err := database.Database().Model(&models.LP{}).
		Where("wallet_address = ?", input.WalletAddress).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.ErrLPAlreadyRegistered
	}

	platforms, err := json.Marshal(input.SupportedPlatforms)
	if err != nil {
		return nil, err
	}

	lp := models.LP{
		WalletAddress:       input.WalletAddress,
		Name:                input.Name,
		Email:               input.Email,
		SupportedPlatforms:  datatypes.JSON(platforms),
		IsActive:            true,
		IsVerified:          true,
		QuotaTotal:          input.TotalQuota,
		QuotaAvailable:      input.TotalQuota,
		QuotaLocked:         0,
		QuotaPerTransaction: input.PerTransactionQuota,
	}
	if err := database.Database().Create(&lp).Error; err != nil {
		return nil, err
	}
	return &lp, nil
}

// GetByPublicID 按对外HashID（lp-前缀）查询LP
func (s *Service) GetByPublicID(hashID string) (*models.LP, error) {
	id, err := models.DecodeLPID(hashID)
	if err != nil {
		return nil, apperrors.ErrLPNotFound
	}

	var lp models.LP
	if err := database.Database().First(&lp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLPNotFound
		}
		return nil, err
	}
	return &lp, nil
}

// Get 按钱包地址查询LP
func (s *Service) Get(walletAddress string) (*models.LP, error) {
	var lp models.LP
	if err := database.Database().Where("wallet_address = ?", walletAddress).First(&lp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLPNotFound
		}
		return nil, err
	}
	return &lp, nil
}

// UpdateQuota 调整LP额度，nil表示对应项不变。调整通过账本操作执行，
// 不直接改写额度字段。
func (s *Service) UpdateQuota(walletAddress string, totalQuota, perTransactionQuota *int64) (*models.LP, error) {
	lp, err := s.Get(walletAddress)
	if err != nil {
		return nil, err
	}

	err = database.Database().Transaction(func(tx *gorm.DB) error {
		if totalQuota != nil {
			if err := quota.AdjustTotal(tx, lp.ID, *totalQuota); err != nil {
				return err
			}
		}
		if perTransactionQuota != nil {
			if err := quota.AdjustPerTransaction(tx, lp.ID, *perTransactionQuota); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(walletAddress)
}
