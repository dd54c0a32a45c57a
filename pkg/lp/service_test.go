package lp_test

import (
	"testing"

	"github.com/flaboy/aira-pay/pkg/database"
	apperrors "github.com/flaboy/aira-pay/pkg/errors"
	"github.com/flaboy/aira-pay/pkg/lp"
	"github.com/flaboy/aira-pay/pkg/models"
	"github.com/flaboy/aira-pay/pkg/quota"
	"github.com/flaboy/aira-pay/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	testutil.SetupDB(t)
	svc := lp.NewService()

	registered, err := svc.Register(lp.RegisterInput{
		WalletAddress:       testutil.LPWallet,
		Name:                "Liquidity One",
		SupportedPlatforms:  []string{"alipay", "wechat"},
		TotalQuota:          100000,
		PerTransactionQuota: 50000,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100000), registered.QuotaTotal)
	assert.Equal(t, int64(100000), registered.QuotaAvailable)
	assert.Equal(t, int64(0), registered.QuotaLocked)
	assert.True(t, registered.IsActive)
	assert.True(t, registered.IsVerified)
	assert.True(t, registered.SupportsPlatform("alipay"))
	assert.True(t, registered.SupportsPlatform("wechat"))
	assert.False(t, registered.SupportsPlatform("unionpay"))
}

func TestRegister_Duplicate(t *testing.T) {
	testutil.SetupDB(t)
	svc := lp.NewService()

	input := lp.RegisterInput{
		WalletAddress:       testutil.LPWallet,
		SupportedPlatforms:  []string{"alipay"},
		TotalQuota:          100000,
		PerTransactionQuota: 50000,
	}
	_, err := svc.Register(input)
	require.NoError(t, err)

	_, err = svc.Register(input)
	assert.ErrorIs(t, err, apperrors.ErrLPAlreadyRegistered)
}

func TestRegister_Validation(t *testing.T) {
	testutil.SetupDB(t)
	svc := lp.NewService()

	_, err := svc.Register(lp.RegisterInput{
		WalletAddress:       "bogus",
		SupportedPlatforms:  []string{"alipay"},
		TotalQuota:          100000,
		PerTransactionQuota: 50000,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidWalletAddress)

	_, err = svc.Register(lp.RegisterInput{
		WalletAddress:       testutil.LPWallet,
		SupportedPlatforms:  nil,
		TotalQuota:          100000,
		PerTransactionQuota: 50000,
	})
	assert.ErrorIs(t, err, apperrors.ErrPlatformUnsupported)

	_, err = svc.Register(lp.RegisterInput{
		WalletAddress:       testutil.LPWallet,
		SupportedPlatforms:  []string{"alipay"},
		TotalQuota:          0,
		PerTransactionQuota: 50000,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}

func TestGet_NotFound(t *testing.T) {
	testutil.SetupDB(t)
	svc := lp.NewService()

	_, err := svc.Get(testutil.LPWallet)
	assert.ErrorIs(t, err, apperrors.ErrLPNotFound)
}

func TestGetByPublicID(t *testing.T) {
	testutil.SetupDB(t)
	svc := lp.NewService()
	created := testutil.MakeLP(t, testutil.LPWallet, 100000, 50000)

	found, err := svc.GetByPublicID(models.EncodeLPID(created.ID))
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, testutil.LPWallet, found.WalletAddress)

	_, err = svc.GetByPublicID("lp-zzzzzz")
	assert.ErrorIs(t, err, apperrors.ErrLPNotFound)
}

func TestUpdateQuota(t *testing.T) {
	testutil.SetupDB(t)
	svc := lp.NewService()
	created := testutil.MakeLP(t, testutil.LPWallet, 100000, 50000)

	require.NoError(t, quota.Reserve(database.Database(), created.ID, 30000))

	total := int64(150000)
	perTransaction := int64(80000)
	updated, err := svc.UpdateQuota(testutil.LPWallet, &total, &perTransaction)
	require.NoError(t, err)

	assert.Equal(t, int64(150000), updated.QuotaTotal)
	assert.Equal(t, int64(120000), updated.QuotaAvailable)
	assert.Equal(t, int64(30000), updated.QuotaLocked)
	assert.Equal(t, int64(80000), updated.QuotaPerTransaction)
}

func TestUpdateQuota_BelowLocked(t *testing.T) {
	testutil.SetupDB(t)
	svc := lp.NewService()
	created := testutil.MakeLP(t, testutil.LPWallet, 100000, 50000)

	require.NoError(t, quota.Reserve(database.Database(), created.ID, 30000))

	total := int64(20000)
	_, err := svc.UpdateQuota(testutil.LPWallet, &total, nil)
	assert.ErrorIs(t, err, apperrors.ErrBelowLockedQuota)

	reloaded := testutil.ReloadLP(t, created.ID)
	assert.Equal(t, int64(100000), reloaded.QuotaTotal)
}
