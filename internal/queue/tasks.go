package queue

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusEmail 订单状态邮件通知任务
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
	// TaskCodeSweep 过期验证码清理任务
	TaskCodeSweep = constants.TaskCodeSweep
)

// OrderStatusEmailPayload 订单状态邮件任务载荷
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// NewOrderStatusEmailTask 创建订单状态邮件任务
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	if payload.OrderID == 0 {
		return nil, fmt.Errorf("order status email task requires order id")
	}
	payload.Status = strings.TrimSpace(payload.Status)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}

// ParseOrderStatusEmailPayload 解析订单状态邮件任务载荷
func ParseOrderStatusEmailPayload(task *asynq.Task) (OrderStatusEmailPayload, error) {
	var payload OrderStatusEmailPayload
	if task == nil {
		return payload, fmt.Errorf("nil task")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// NewCodeSweepTask 创建验证码清理任务（无载荷）
func NewCodeSweepTask() *asynq.Task {
	return asynq.NewTask(TaskCodeSweep, nil)
}
