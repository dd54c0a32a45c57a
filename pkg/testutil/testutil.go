// Package testutil 测试用的数据库初始化与公共fixture
package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/flaboy/aira-pay/pkg/config"
	"github.com/flaboy/aira-pay/pkg/database"
	"github.com/flaboy/aira-pay/pkg/logger"
	"github.com/flaboy/aira-pay/pkg/models"
	"github.com/flaboy/aira-pay/pkg/types"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	PayerWallet = "0x1111111111111111111111111111111111111111"
	LPWallet    = "0x2222222222222222222222222222222222222222"
	LPWallet2   = "0x3333333333333333333333333333333333333333"
)

// SetupDB 打开内存数据库并完成迁移。单连接保证写事务串行，
// 并发测试验证的是逻辑上的互斥结果而不是存储引擎行为。
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.Config = &config.CommenceConfig{}
	config.Config.Intent.ExpireMinutes = 30
	config.Config.Intent.Currency = "CNY"
	config.Config.Settlement.QueueSize = 16
	config.Config.LogLevel = "error"
	logger.Init(config.Config.LogLevel)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.SetDatabase(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// MakeLP 创建一个已激活已验证的LP，额度单位为分
func MakeLP(t *testing.T, wallet string, total, perTransaction int64, platforms ...string) *models.LP {
	t.Helper()

	if len(platforms) == 0 {
		platforms = []string{"alipay"}
	}
	raw, err := json.Marshal(platforms)
	if err != nil {
		t.Fatalf("marshal platforms: %v", err)
	}

	lp := models.LP{
		WalletAddress:       wallet,
		SupportedPlatforms:  datatypes.JSON(raw),
		IsActive:            true,
		IsVerified:          true,
		QuotaTotal:          total,
		QuotaAvailable:      total,
		QuotaPerTransaction: perTransaction,
	}
	if err := database.Database().Create(&lp).Error; err != nil {
		t.Fatalf("create lp: %v", err)
	}
	return &lp
}

// MakeIntent 创建一个created状态的支付意图，金额单位为分
func MakeIntent(t *testing.T, amount int64, platform string) *models.PaymentIntent {
	t.Helper()

	pi := models.PaymentIntent{
		Amount:      amount,
		Currency:    "CNY",
		Platform:    platform,
		PayerWallet: PayerWallet,
		Status:      models.IntentStatusCreated,
		ExpiresAt:   time.Now().Add(30 * time.Minute),
	}
	if err := database.Database().Create(&pi).Error; err != nil {
		t.Fatalf("create intent: %v", err)
	}
	change := models.IntentStatusChange{IntentID: pi.ID, Status: models.IntentStatusCreated, CreatedAt: time.Now()}
	if err := database.Database().Create(&change).Error; err != nil {
		t.Fatalf("create status change: %v", err)
	}
	return &pi
}

// ReloadLP 重新读取LP额度
func ReloadLP(t *testing.T, id uint) *models.LP {
	t.Helper()
	var lp models.LP
	if err := database.Database().First(&lp, id).Error; err != nil {
		t.Fatalf("reload lp: %v", err)
	}
	return &lp
}

// ReloadIntent 重新读取支付意图
func ReloadIntent(t *testing.T, id uint) *models.PaymentIntent {
	t.Helper()
	var pi models.PaymentIntent
	if err := database.Database().First(&pi, id).Error; err != nil {
		t.Fatalf("reload intent: %v", err)
	}
	return &pi
}

// EventRecorder 记录所有发出的领域事件，线程安全
type EventRecorder struct {
	mu     sync.Mutex
	Events []interface{}
}

func (r *EventRecorder) record(event interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
	return nil
}

// Names 按记录顺序返回事件名
func (r *EventRecorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		if named, ok := e.(interface{ EventName() string }); ok {
			names = append(names, named.EventName())
		}
	}
	return names
}

func (r *EventRecorder) OnNewPaymentIntent(event *types.NewPaymentIntentEvent) error {
	return r.record(event)
}

func (r *EventRecorder) OnPaymentIntentMatched(event *types.PaymentIntentMatchedEvent) error {
	return r.record(event)
}

func (r *EventRecorder) OnPaymentIntentLPPaid(event *types.PaymentIntentLPPaidEvent) error {
	return r.record(event)
}

func (r *EventRecorder) OnPaymentIntentConfirmed(event *types.PaymentIntentConfirmedEvent) error {
	return r.record(event)
}

func (r *EventRecorder) OnPaymentIntentCancelled(event *types.PaymentIntentCancelledEvent) error {
	return r.record(event)
}

func (r *EventRecorder) OnSettlementSuccess(event *types.SettlementSuccessEvent) error {
	return r.record(event)
}

func (r *EventRecorder) OnSettlementFailed(event *types.SettlementFailedEvent) error {
	return r.record(event)
}
