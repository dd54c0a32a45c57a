package commence

import (
	"fmt"

	"github.com/flaboy/aira-pay/pkg/config"
	"github.com/flaboy/aira-pay/pkg/controllers"
	"github.com/flaboy/aira-pay/pkg/database"
	"github.com/flaboy/aira-pay/pkg/events"
	"github.com/flaboy/aira-pay/pkg/events/sqsbus"
	"github.com/flaboy/aira-pay/pkg/intent"
	"github.com/flaboy/aira-pay/pkg/logger"
	"github.com/flaboy/aira-pay/pkg/lp"
	"github.com/flaboy/aira-pay/pkg/matching"
	"github.com/flaboy/aira-pay/pkg/qrcode"
	"github.com/flaboy/aira-pay/pkg/settlement"

	"gorm.io/gorm"
)

type Options struct {
	Config *config.CommenceConfig

	// 结算执行器，由宿主系统提供（链上转账的具体实现）
	SettlementExecutor settlement.Executor

	// 扫码内容识别器，缺省使用内置实现
	PlatformIdentifier qrcode.PlatformIdentifier

	// 已有数据库连接，缺省按配置新建
	DB *gorm.DB
}

// App 启动完成后的服务组件集合，控制器由宿主路由挂载
type App struct {
	Intents     *intent.Service
	LPs         *lp.Service
	Matcher     *matching.Service
	Settlements *settlement.Queue

	PaymentController *controllers.PaymentController
	LPController      *controllers.LPController
}

// Start 启动服务组件
func Start(opts *Options) (*App, error) {
	if opts == nil || opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.SettlementExecutor == nil {
		return nil, fmt.Errorf("settlement executor is required")
	}

	config.Config = opts.Config
	config.Config.ApplyDefaults()
	logger.Init(opts.Config.LogLevel)

	if opts.DB != nil {
		if err := database.SetDatabase(opts.DB); err != nil {
			return nil, err
		}
	} else {
		if err := database.Init(opts.Config.Database.Driver, opts.Config.Database.DSN); err != nil {
			return nil, err
		}
	}

	if opts.Config.EventBridge.Enabled {
		bus, err := sqsbus.New()
		if err != nil {
			return nil, err
		}
		events.SetEventHandler(bus)
	}

	identifier := opts.PlatformIdentifier
	if identifier == nil {
		identifier = &qrcode.DefaultIdentifier{}
	}

	settlements := settlement.NewQueue(opts.SettlementExecutor, opts.Config.Settlement.QueueSize)
	settlements.Start()

	intents := intent.NewService(identifier, settlements)
	lps := lp.NewService()
	matcher := matching.NewService()

	return &App{
		Intents:     intents,
		LPs:         lps,
		Matcher:     matcher,
		Settlements: settlements,

		PaymentController: controllers.NewPaymentController(intents),
		LPController:      controllers.NewLPController(lps, matcher, settlements),
	}, nil
}

// Stop 停止后台组件
func (a *App) Stop() {
	a.Settlements.Stop()
}

// 注册业务系统的事件处理器
func RegisterEventHandler(handler events.EventHandler) {
	events.SetEventHandler(handler)
}
