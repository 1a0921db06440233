package service

import (
	"context"
	"strings"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/queue"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/repository"
)

// enqueueOrderStatusEmail 入队订单状态邮件任务，队列未启用时跳过
func enqueueOrderStatusEmail(queueClient *queue.Client, orderID uint, status string) error {
	if queueClient == nil || orderID == 0 {
		return nil
	}
	return queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID: orderID,
		Status:  strings.TrimSpace(status),
	})
}

// OrderNotifier 订单状态邮件投递，由队列 worker 调用
type OrderNotifier struct {
	orderRepo repository.OrderRepository
	email     *EmailService
}

// NewOrderNotifier 创建订单通知
func NewOrderNotifier(orderRepo repository.OrderRepository, email *EmailService) *OrderNotifier {
	return &OrderNotifier{orderRepo: orderRepo, email: email}
}

// NotifyStatus 以订单当前状态给下单人发信；订单或账号已不存在时直接跳过
func (n *OrderNotifier) NotifyStatus(ctx context.Context, payload queue.OrderStatusEmailPayload) error {
	order, err := n.orderRepo.GetByID(payload.OrderID)
	if err != nil {
		return err
	}
	if order == nil || order.Account == nil || strings.TrimSpace(order.Account.Email) == "" {
		logger.Warnw("order_status_email_skipped", "order_id", payload.OrderID)
		return nil
	}
	if payload.Status != "" && payload.Status != order.Status {
		// 任务排队期间状态又被推进，以后续任务为准
		logger.Infow("order_status_email_stale", "order_id", order.ID, "task_status", payload.Status, "current_status", order.Status)
		return nil
	}
	if err := n.email.SendOrderStatus(ctx, order.Account.Email, order); err != nil {
		if isEmailRecipientRejected(err) {
			logger.Warnw("order_status_email_recipient_rejected", "order_id", order.ID, "error", err)
			return nil
		}
		return err
	}
	return nil
}
