package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/constants"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/queue"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	queueClient *queue.Client
	now         func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		queueClient: queueClient,
		now:         time.Now,
	}
}

// CreateOrderInput 下单参数
type CreateOrderInput struct {
	AccountID     uint
	Customization models.JSON
}

// allowedTransitions 订单状态流转表
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusCompleted: true,
		constants.OrderStatusCancelled: true,
	},
}

// CreateFromCart 以购物车生成订单，价格按下单时快照，成功后清空购物车
func (s *OrderService) CreateFromCart(input CreateOrderInput) (*models.Order, error) {
	if input.AccountID == 0 {
		return nil, ErrUnauthorized
	}

	var order *models.Order
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		cartItems, err := cartRepo.ListByAccount(input.AccountID)
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(cartItems))
		var total models.Money
		for _, cartItem := range cartItems {
			product := cartItem.Product
			if product == nil || !product.IsActive || cartItem.Quantity <= 0 {
				continue
			}
			subtotal := product.Price.Times(cartItem.Quantity)
			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    cartItem.Quantity,
				TotalPrice:  subtotal,
			})
			total = total.Plus(subtotal)
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		customization := input.Customization
		if customization == nil {
			customization = models.JSON{}
		}
		order = &models.Order{
			OrderNo:       generateOrderNo(s.now()),
			AccountID:     input.AccountID,
			Status:        constants.OrderStatusPending,
			Currency:      constants.DefaultCurrency,
			TotalAmount:   total,
			Customization: customization,
		}
		if err := s.orderRepo.WithTx(tx).Create(order, items); err != nil {
			return err
		}
		return cartRepo.ClearByAccount(input.AccountID)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_no", order.OrderNo,
		"account_id", order.AccountID,
		"total_amount", order.TotalAmount.String(),
	)
	return order, nil
}

// ListByAccount 我的订单列表
func (s *OrderService) ListByAccount(accountID uint, status string, page, pageSize int) ([]models.Order, int64, error) {
	if accountID == 0 {
		return nil, 0, ErrUnauthorized
	}
	page, pageSize = normalizePagination(page, pageSize)
	return s.orderRepo.ListByAccount(repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		AccountID: accountID,
		Status:    strings.TrimSpace(status),
	})
}

// GetByAccountOrderNo 获取我的订单详情，他人订单视为不存在
func (s *OrderService) GetByAccountOrderNo(accountID uint, orderNo string) (*models.Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if accountID == 0 {
		return nil, ErrUnauthorized
	}
	if orderNo == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNoAndAccount(orderNo, accountID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListAdmin 管理端订单列表
func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.Page, filter.PageSize = normalizePagination(filter.Page, filter.PageSize)
	return s.orderRepo.ListAdmin(filter)
}

// GetForAdmin 管理端订单详情
func (s *OrderService) GetForAdmin(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus 管理端推进订单状态，成功后入队状态邮件
func (s *OrderService) UpdateStatus(orderID uint, target string) (*models.Order, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	order, err := s.GetForAdmin(orderID)
	if err != nil {
		return nil, err
	}
	if !isTransitionAllowed(order.Status, target) {
		return nil, ErrInvalidOrderStatus
	}

	now := s.now()
	updates := map[string]interface{}{"updated_at": now}
	switch target {
	case constants.OrderStatusCompleted:
		updates["completed_at"] = now
	case constants.OrderStatusCancelled:
		updates["canceled_at"] = now
	}
	affected, err := s.orderRepo.TransitionStatus(order.ID, order.Status, target, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// 并发修改，状态已被其他请求推进
		return nil, ErrInvalidOrderStatus
	}

	if err := enqueueOrderStatusEmail(s.queueClient, order.ID, target); err != nil {
		logger.Warnw("order_status_email_enqueue_failed", "order_id", order.ID, "status", target, "error", err)
	}
	logger.Infow("order_status_updated", "order_id", order.ID, "from", order.Status, "to", target)
	return s.GetForAdmin(order.ID)
}

func isTransitionAllowed(current, target string) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

func generateOrderNo(now time.Time) string {
	return fmt.Sprintf("MS%s%s", now.Format("20060102150405"), randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}
