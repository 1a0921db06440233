package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// 默认币种
const DefaultCurrency = "USD"

// 账号注册来源
const (
	AccountProviderLocal = "local"
)

// 验证码用途常量
const (
	VerifyPurposeRegistration  = "registration"
	VerifyPurposePasswordReset = "password_reset"
)

// 分页默认值
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// 队列常量
const (
	QueueDefault         = "default"
	QueueCritical        = "critical"
	TaskOrderStatusEmail = "order:status_email"
	TaskCodeSweep        = "verification:sweep"
)

// 缓存键常量
const (
	CacheKeyCatalogFirstPage = "catalog:first_page"
)
