package router

import (
	"sort"
	"strings"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/authz"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/cache"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/config"
	adminhandlers "github.com/Memoriestore01/Memoriestore-sub001/internal/http/handlers/admin"
	publichandlers "github.com/Memoriestore01/Memoriestore-sub001/internal/http/handlers/public"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/http/response"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisClient := cache.Client()
	loginRule := NewRateLimitRule(cache.BuildKey("rate:login"), cfg.Security.RateLimit.Login)
	sendCodeRule := NewRateLimitRule(cache.BuildKey("rate:send_code"), cfg.Security.RateLimit.SendCode)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/health", publicHandler.Health)

		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/categories", publicHandler.ListCategories)
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:slug", publicHandler.GetProduct)
		}

		// 认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/send-code", RateLimitMiddleware(redisClient, sendCodeRule, KeyByIPAndJSONField("email")), publicHandler.SendCode)
			auth.POST("/verify-code", publicHandler.VerifyCode)
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.POST("/reset-password", publicHandler.ResetPassword)
			auth.POST("/external", publicHandler.ExternalSignIn)
			auth.POST("/bootstrap-admin", publicHandler.BootstrapAdmin)
		}

		// 会员接口（需鉴权）
		member := apiV1.Group("")
		member.Use(SessionMiddleware(c.SessionResolver, c.AuthorizationGate))
		{
			member.GET("/me", publicHandler.GetMe)
			member.PUT("/me", publicHandler.UpdateMe)
			member.GET("/cart", publicHandler.GetCart)
			member.POST("/cart", publicHandler.UpsertCartItem)
			member.DELETE("/cart/:product_id", publicHandler.DeleteCartItem)
			member.GET("/wishlist", publicHandler.GetWishlist)
			member.POST("/wishlist", publicHandler.AddWishlistItem)
			member.DELETE("/wishlist/:product_id", publicHandler.DeleteWishlistItem)
			member.POST("/orders", publicHandler.CreateOrder)
			member.GET("/orders", publicHandler.ListOrders)
			member.GET("/orders/:order_no", publicHandler.GetOrder)
		}

		// 管理端接口（管理员 + 角色策略）
		admin := apiV1.Group("/admin")
		admin.Use(AdminMiddleware(c.SessionResolver, c.AuthorizationGate, c.AuthzService))
		{
			admin.GET("/users", adminHandler.GetAdminUsers)
			admin.PATCH("/users/:id/role", adminHandler.UpdateAdminUserRole)
			admin.PATCH("/users/:id/active", adminHandler.UpdateAdminUserActive)

			admin.GET("/categories", adminHandler.GetAdminCategories)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

			admin.GET("/products", adminHandler.GetAdminProducts)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeactivateProduct)

			admin.GET("/orders", adminHandler.GetAdminOrders)
			admin.GET("/orders/:id", adminHandler.GetAdminOrder)
			admin.PATCH("/orders/:id/status", adminHandler.UpdateAdminOrderStatus)

			admin.GET("/authz/policies", adminHandler.GetAuthzRolePolicies)
			admin.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
			admin.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
			admin.POST("/authz/reload", adminHandler.ReloadAuthzPolicy)
			admin.GET("/authz/permissions", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminPermissionCatalog(r))
			})
		}
	}

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog 汇总已注册的管理端路由，供配置角色策略时参考
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
