package config

type CommenceConfig struct {
	// 数据库配置
	Database struct {
		Driver string `cfg:"DRIVER" default:"sqlite"`
		DSN    string `cfg:"DSN"`
	} `cfg:"DATABASE"`

	// 支付意图配置
	Intent struct {
		ExpireMinutes int    `cfg:"EXPIRE_MINUTES" default:"30"`
		Currency      string `cfg:"CURRENCY" default:"CNY"`
	} `cfg:"INTENT"`

	// 结算队列配置
	Settlement struct {
		QueueSize int `cfg:"QUEUE_SIZE" default:"256"`
	} `cfg:"SETTLEMENT"`

	// SQS事件桥配置（可选，将领域事件转发到外部系统）
	EventBridge struct {
		Enabled      bool   `cfg:"ENABLED" default:"false"`
		AWSRegion    string `cfg:"AWS_REGION"`
		AWSAccessKey string `cfg:"AWS_ACCESS_KEY"`
		AWSSecret    string `cfg:"AWS_SECRET"`
		SQSQueueURL  string `cfg:"SQS_QUEUE_URL"`
	} `cfg:"EVENT_BRIDGE"`

	LogLevel string `cfg:"LOG_LEVEL" default:"info"`
}

// ApplyDefaults 补齐宿主未设置的字段，取值与cfg标签中的default一致
func (c *CommenceConfig) ApplyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Intent.ExpireMinutes <= 0 {
		c.Intent.ExpireMinutes = 30
	}
	if c.Intent.Currency == "" {
		c.Intent.Currency = "CNY"
	}
	if c.Settlement.QueueSize <= 0 {
		c.Settlement.QueueSize = 256
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

var Config *CommenceConfig
