package quota_test

import (
	"sync"
	"testing"

	"github.com/flaboy/aira-pay/pkg/database"
	apperrors "github.com/flaboy/aira-pay/pkg/errors"
	"github.com/flaboy/aira-pay/pkg/quota"
	"github.com/flaboy/aira-pay/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserve(t *testing.T) {
	testutil.SetupDB(t)
	lp := testutil.MakeLP(t, testutil.LPWallet, 100000, 50000)

	err := quota.Reserve(database.Database(), lp.ID, 30000)
	require.NoError(t, err)

	reloaded := testutil.ReloadLP(t, lp.ID)
	assert.Equal(t, int64(70000), reloaded.QuotaAvailable)
	assert.Equal(t, int64(30000), reloaded.QuotaLocked)
	assert.Equal(t, int64(100000), reloaded.QuotaTotal)
}

func TestReserve_InsufficientQuota(t *testing.T) {
	testutil.SetupDB(t)
	lp := testutil.MakeLP(t, testutil.LPWallet, 20000, 50000)

	err := quota.Reserve(database.Database(), lp.ID, 30000)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientQuota)

	reloaded := testutil.ReloadLP(t, lp.ID)
	assert.Equal(t, int64(20000), reloaded.QuotaAvailable)
	assert.Equal(t, int64(0), reloaded.QuotaLocked)
}

func TestReserve_PerTransactionExceeded(t *testing.T) {
	testutil.SetupDB(t)
	lp := testutil.MakeLP(t, testutil.LPWallet, 100000, 50000)

	err := quota.Reserve(database.Database(), lp.ID, 60000)
	assert.ErrorIs(t, err, apperrors.ErrPerTransactionExceeded)

	reloaded := testutil.ReloadLP(t, lp.ID)
	assert.Equal(t, int64(100000), reloaded.QuotaAvailable)
	assert.Equal(t, int64(0), reloaded.QuotaLocked)
}

func TestReserve_UnknownLP(t *testing.T) {
	testutil.SetupDB(t)

	err := quota.Reserve(database.Database(), 999, 100)
	assert.ErrorIs(t, err, apperrors.ErrLPNotFound)
}

func TestReserve_InvalidAmount(t *testing.T) {
	testutil.SetupDB(t)
	lp := testutil.MakeLP(t, testutil.LPWallet, 100000, 50000)

	assert.ErrorIs(t, quota.Reserve(database.Database(), lp.ID, 0), apperrors.ErrInvalidAmount)
	assert.ErrorIs(t, quota.Reserve(database.Database(), lp.ID, -100), apperrors.ErrInvalidAmount)
}

func TestRelease(t *testing.T) {
	testutil.SetupDB(t)
	lp := testutil.MakeLP(t, testutil.LPWallet, 100000, 50000)

	require.NoError(t, quota.Reserve(database.Database(), lp.ID, 30000))
	require.NoError(t, quota.Release(database.Database(), lp.ID, 30000))

	reloaded := testutil.ReloadLP(t, lp.ID)
	assert.Equal(t, int64(100000), reloaded.QuotaAvailable)
	assert.Equal(t, int64(0), reloaded.QuotaLocked)
}

func TestRelease_ClampsAtZero(t *testing.T) {
	testutil.SetupDB(t)
	lp := testutil.MakeLP(t, testutil.LPWallet, 100000, 50000)

	require.NoError(t, quota.Reserve(database.Database(), lp.ID, 10000))

	// 释放超过锁定量，locked截断到0，available不超过total
	require.NoError(t, quota.Release(database.Database(), lp.ID, 50000))

	reloaded := testutil.ReloadLP(t, lp.ID)
	assert.Equal(t, int64(0), reloaded.QuotaLocked)
	assert.Equal(t, int64(100000), reloaded.QuotaAvailable)
}

func TestAdjustTotal(t *testing.T) {
	testutil.SetupDB(t)
	lp := testutil.MakeLP(t, testutil.LPWallet, 100000, 50000)

	require.NoError(t, quota.Reserve(database.Database(), lp.ID, 30000))
	require.NoError(t, quota.AdjustTotal(database.Database(), lp.ID, 150000))

	reloaded := testutil.ReloadLP(t, lp.ID)
	assert.Equal(t, int64(150000), reloaded.QuotaTotal)
	assert.Equal(t, int64(120000), reloaded.QuotaAvailable)
	assert.Equal(t, int64(30000), reloaded.QuotaLocked)
}

func TestAdjustTotal_BelowLocked(t *testing.T) {
	testutil.SetupDB(t)
	lp := testutil.MakeLP(t, testutil.LPWallet, 100000, 50000)

	require.NoError(t, quota.Reserve(database.Database(), lp.ID, 30000))

	err := quota.AdjustTotal(database.Database(), lp.ID, 20000)
	assert.ErrorIs(t, err, apperrors.ErrBelowLockedQuota)

	reloaded := testutil.ReloadLP(t, lp.ID)
	assert.Equal(t, int64(100000), reloaded.QuotaTotal)
}

func TestAdjustPerTransaction(t *testing.T) {
	testutil.SetupDB(t)
	lp := testutil.MakeLP(t, testutil.LPWallet, 100000, 50000)

	require.NoError(t, quota.AdjustPerTransaction(database.Database(), lp.ID, 80000))

	reloaded := testutil.ReloadLP(t, lp.ID)
	assert.Equal(t, int64(80000), reloaded.QuotaPerTransaction)

	// 新限额只约束之后的预扣
	assert.NoError(t, quota.Reserve(database.Database(), lp.ID, 70000))
}

// 并发预扣下不变量保持：available+locked==total且成功次数恰好用尽额度
func TestReserve_Concurrent(t *testing.T) {
	testutil.SetupDB(t)
	lp := testutil.MakeLP(t, testutil.LPWallet, 50000, 50000)

	const workers = 20
	const amount = int64(10000) // 最多5次成功

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- quota.Reserve(database.Database(), lp.ID, amount)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrInsufficientQuota)
		}
	}
	assert.Equal(t, 5, succeeded)

	reloaded := testutil.ReloadLP(t, lp.ID)
	assert.Equal(t, int64(0), reloaded.QuotaAvailable)
	assert.Equal(t, int64(50000), reloaded.QuotaLocked)
	assert.Equal(t, reloaded.QuotaTotal, reloaded.QuotaAvailable+reloaded.QuotaLocked)
}
