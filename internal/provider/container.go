package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/authz"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/cache"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/config"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/queue"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/repository"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	AccountRepo          repository.AccountRepository
	VerificationCodeRepo repository.VerificationCodeRepository
	CategoryRepo         repository.CategoryRepository
	ProductRepo          repository.ProductRepository
	CartRepo             repository.CartRepository
	WishlistRepo         repository.WishlistRepository
	OrderRepo            repository.OrderRepository

	// Services
	AuthzService        *authz.Service
	EmailService        *service.EmailService
	CodeLedger          *service.CodeLedger
	TokenService        *service.TokenService
	SessionResolver     service.SessionResolver
	AccountService      *service.AccountService
	AuthorizationGate   *service.AuthorizationGate
	AccountAdminService *service.AccountAdminService
	CategoryService     *service.CategoryService
	ProductService      *service.ProductService
	CartService         *service.CartService
	WishlistService     *service.WishlistService
	OrderService        *service.OrderService
	OrderNotifier       *service.OrderNotifier
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config, db *gorm.DB) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if db == nil {
		return nil, errors.New("db is nil")
	}

	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		return nil, err
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
	}
	c.initRepositories()
	if err := c.initServices(); err != nil {
		return nil, err
	}
	c.bootstrapAdministrator()
	return c, nil
}

// NewDefaultContainer 使用全局数据库连接初始化容器
func NewDefaultContainer(cfg *config.Config) (*Container, error) {
	return NewContainer(cfg, models.DB)
}

func (c *Container) initRepositories() {
	db := c.DB
	c.AccountRepo = repository.NewAccountRepository(db)
	c.VerificationCodeRepo = repository.NewVerificationCodeRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.WishlistRepo = repository.NewWishlistRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}
	c.AuthzService = authzService

	cfg := c.Config
	c.EmailService = service.NewEmailService(service.NewSMTPMailer(&cfg.Email))
	c.CodeLedger = service.NewCodeLedger(
		c.VerificationCodeRepo,
		c.EmailService,
		time.Duration(cfg.Verification.CodeExpireMinutes)*time.Minute,
	)
	c.TokenService = service.NewTokenService(cfg.JWT)
	c.SessionResolver = service.NewBearerSessionResolver(c.TokenService)
	c.AccountService = service.NewAccountService(
		cfg.Security,
		c.AccountRepo,
		c.CodeLedger,
		c.TokenService,
		service.NewExternalIdentityVerifier(cfg.ExternalAuth),
	)
	c.AuthorizationGate = service.NewAuthorizationGate(c.AccountRepo)
	c.AccountAdminService = service.NewAccountAdminService(c.AccountRepo)

	catalog := cache.NewCatalogCache(time.Duration(cfg.Cache.CatalogTTLSeconds) * time.Second)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo, catalog)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, catalog)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.WishlistService = service.NewWishlistService(c.WishlistRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo, c.QueueClient)
	c.OrderNotifier = service.NewOrderNotifier(c.OrderRepo, c.EmailService)
	return nil
}

// bootstrapAdministrator 配置了 admin.bootstrap_email 时尝试认领首个管理员
func (c *Container) bootstrapAdministrator() {
	email := strings.TrimSpace(c.Config.Admin.BootstrapEmail)
	if email == "" {
		return
	}
	_, err := c.AuthorizationGate.ClaimFirstAdmin(context.Background(), email)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrConflict):
		logger.Debugw("provider_bootstrap_admin_skipped", "reason", "administrator_exists")
	default:
		logger.Warnw("provider_bootstrap_admin_failed", "email", email, "error", err)
	}
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
