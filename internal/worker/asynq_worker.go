package worker

import (
	"context"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/provider"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
	mux.HandleFunc(queue.TaskCodeSweep, c.handleCodeSweep)
}

func (c *Consumer) handleOrderStatusEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || c.OrderNotifier == nil || task == nil {
		logger.Debugw("worker_order_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderStatusEmailPayload(task)
	if err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		// 载荷损坏重试也无济于事
		return asynq.SkipRetry
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if err := c.OrderNotifier.NotifyStatus(ctx, payload); err != nil {
		logger.Warnw("worker_order_status_email_failed", "order_id", payload.OrderID, "status", payload.Status, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleCodeSweep(ctx context.Context, _ *asynq.Task) error {
	if c == nil || c.Container == nil || c.CodeLedger == nil {
		return nil
	}
	removed, err := c.CodeLedger.Sweep(ctx)
	if err != nil {
		logger.Warnw("worker_code_sweep_failed", "error", err)
		return err
	}
	if removed > 0 {
		logger.Infow("worker_code_sweep_done", "removed", removed)
	}
	return nil
}
