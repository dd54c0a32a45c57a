// Package settlement 串行化的结算管线。任意数量的生产者通过Add投递任务，
// 唯一的worker按入队顺序逐个提交给结算执行器——执行器共享签名/nonce上下文，
// 不允许并发提交。单个任务失败不会中断队列。
package settlement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flaboy/aira-pay/pkg/database"
	apperrors "github.com/flaboy/aira-pay/pkg/errors"
	"github.com/flaboy/aira-pay/pkg/events"
	"github.com/flaboy/aira-pay/pkg/intent"
	"github.com/flaboy/aira-pay/pkg/logger"
	"github.com/flaboy/aira-pay/pkg/models"
	"github.com/flaboy/aira-pay/pkg/quota"
	"github.com/flaboy/aira-pay/pkg/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Queue struct {
	tasks    chan Task
	executor Executor

	mu      sync.Mutex
	pending map[uint]struct{} // 按意图ID去重，同一意图不会重复在队列中

	cancel context.CancelFunc
	done   chan struct{}
}

func NewQueue(executor Executor, size int) *Queue {
	if size <= 0 {
		size = 256
	}
	return &Queue{
		tasks:    make(chan Task, size),
		executor: executor,
		pending:  make(map[uint]struct{}),
	}
}

// Start 启动worker。重复调用无效果。
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.done != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	q.done = make(chan struct{})
	go q.run(ctx)
}

// Stop 停止worker，不再处理剩余任务
func (q *Queue) Stop() {
	q.mu.Lock()
	cancel := q.cancel
	done := q.done
	q.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Add 投递结算任务，并发安全，按意图ID幂等。队列已满时不阻塞，
// 返回ErrSettlementQueueOverloaded，调用方稍后通过Resubmit重新投递。
func (q *Queue) Add(intentID uint, amount int64, payerWallet, lpWallet string) error {
	q.mu.Lock()
	if _, ok := q.pending[intentID]; ok {
		q.mu.Unlock()
		return nil
	}
	q.pending[intentID] = struct{}{}
	q.mu.Unlock()

	task := Task{
		TaskID:      uuid.NewString(),
		IntentID:    intentID,
		Amount:      amount,
		PayerWallet: payerWallet,
		LPWallet:    lpWallet,
	}

	select {
	case q.tasks <- task:
		return nil
	default:
		q.clearPending(intentID)
		return apperrors.ErrSettlementQueueOverloaded
	}
}

// Resubmit 重新投递结算失败的意图，仅限仍处于user_confirmed状态的意图
func (q *Queue) Resubmit(intentHashID string) error {
	id, err := models.DecodeIntentID(intentHashID)
	if err != nil {
		return apperrors.ErrIntentNotFound
	}

	var pi models.PaymentIntent
	if err := database.Database().First(&pi, id).Error; err != nil {
		return apperrors.ErrIntentNotFound
	}
	if pi.Status != models.IntentStatusUserConfirmed {
		return apperrors.ErrInvalidState
	}

	return q.Add(pi.ID, pi.Amount, pi.PayerWallet, pi.LPWallet)
}

func (q *Queue) run(ctx context.Context) {
	defer close(q.done)
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-q.tasks:
			q.process(ctx, task)
		}
	}
}

// clearPending 将意图移出去重表。必须发生在结果事件发出之前：
// 事件处理器收到settlement_failed后立即Resubmit时，任务必须能重新入队。
func (q *Queue) clearPending(intentID uint) {
	q.mu.Lock()
	delete(q.pending, intentID)
	q.mu.Unlock()
}

func (q *Queue) process(ctx context.Context, task Task) {
	intentHashID := models.EncodeIntentID(task.IntentID)

	txHash, err := q.execute(ctx, task)
	if err != nil {
		logger.Logger.Error().Err(err).
			Str("task_id", task.TaskID).
			Str("intent_id", intentHashID).
			Msg("settlement execution failed")

		// 意图保持user_confirmed，额度保持锁定，等待重新提交
		q.clearPending(task.IntentID)
		if err := events.EmitSettlementFailed(&types.SettlementFailedEvent{
			IntentID: intentHashID,
			Error:    err.Error(),
		}); err != nil {
			logger.Logger.Warn().Err(err).Msg("emit settlement_failed failed")
		}
		return
	}

	if err := q.settle(task, txHash); err != nil {
		logger.Logger.Error().Err(err).
			Str("task_id", task.TaskID).
			Str("intent_id", intentHashID).
			Msg("failed to record settlement result")

		q.clearPending(task.IntentID)
		if err := events.EmitSettlementFailed(&types.SettlementFailedEvent{
			IntentID: intentHashID,
			Error:    err.Error(),
		}); err != nil {
			logger.Logger.Warn().Err(err).Msg("emit settlement_failed failed")
		}
		return
	}

	q.clearPending(task.IntentID)
	logger.Logger.Info().
		Str("task_id", task.TaskID).
		Str("intent_id", intentHashID).
		Str("tx_hash", txHash).
		Msg("settlement completed")

	if err := events.EmitSettlementSuccess(&types.SettlementSuccessEvent{
		IntentID: intentHashID,
		TxHash:   txHash,
	}); err != nil {
		logger.Logger.Warn().Err(err).Msg("emit settlement_success failed")
	}
}

// execute 调用外部执行器，执行器内部的panic也按失败处理
func (q *Queue) execute(ctx context.Context, task Task) (txHash string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("settlement executor panic: %v", r)
		}
	}()
	return q.executor.ExecuteSettlement(ctx, task)
}

// settle 结算成功后的落账：意图迁移到settled、释放锁定额度、更新付款人统计
func (q *Queue) settle(task Task, txHash string) error {
	return database.Database().Transaction(func(tx *gorm.DB) error {
		var pi models.PaymentIntent
		if err := tx.First(&pi, task.IntentID).Error; err != nil {
			return err
		}

		now := time.Now()
		err := intent.Transition(tx, &pi, models.IntentStatusSettled, "On-chain settlement "+txHash, map[string]interface{}{
			"settlement_tx_hash": txHash,
			"settled_at":         &now,
		})
		if err != nil {
			return err
		}

		if pi.LPID != nil {
			if err := quota.Release(tx, *pi.LPID, pi.Amount); err != nil {
				return err
			}
		}

		return tx.Model(&models.User{}).
			Where("id = ?", pi.PayerUserID).
			Updates(map[string]interface{}{
				"transaction_count": gorm.Expr("transaction_count + 1"),
				"total_amount":      gorm.Expr("total_amount + ?", pi.Amount),
			}).Error
	})
}
