package settlement

import "context"

// Task 一次链上结算任务
type Task struct {
	TaskID      string `json:"task_id"`
	IntentID    uint   `json:"intent_id"`
	Amount      int64  `json:"amount"` // 分
	PayerWallet string `json:"payer_wallet"`
	LPWallet    string `json:"lp_wallet"`
}

// Executor 外部结算执行器：把payerWallet的资金转给lpWallet，
// 成功返回链上交易哈希。每个任务只调用一次，不做内部重试。
type Executor interface {
	ExecuteSettlement(ctx context.Context, task Task) (txHash string, err error)
}
