package router

import (
	"context"
	"net/http"
	"time"

	"github.com/vip-affiliates/internal/cache"
	"github.com/vip-affiliates/internal/config"
	adminhandlers "github.com/vip-affiliates/internal/http/handlers/admin"
	publichandlers "github.com/vip-affiliates/internal/http/handlers/public"
	"github.com/vip-affiliates/internal/http/response"
	"github.com/vip-affiliates/internal/logger"
	"github.com/vip-affiliates/internal/models"
	"github.com/vip-affiliates/internal/provider"

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
	loginRule := NewLoginRateLimitRule(cfg.Redis.Prefix, "login", cfg.Security.LoginRateLimit)
	adminLoginRule := NewLoginRateLimitRule(cfg.Redis.Prefix, "admin_login", cfg.Security.LoginRateLimit)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口，携带有效用户令牌时按该用户展开短代码
		public := apiV1.Group("/public")
		public.Use(OptionalUserJWTMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			public.GET("/pages/:slug", publicHandler.GetPublicPage)
			public.POST("/render", publicHandler.RenderPreview)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.GET("/me/vip", publicHandler.GetMyVIP)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", adminHandler.GetAdminProfile)

				// 推广账号
				authorized.GET("/affiliates", adminHandler.ListAffiliates)
				authorized.POST("/affiliates", adminHandler.CreateAffiliate)
				authorized.GET("/affiliates/form", adminHandler.GetAffiliateNewForm)
				authorized.GET("/affiliates/:id", adminHandler.GetAffiliate)
				authorized.PUT("/affiliates/:id", adminHandler.UpdateAffiliate)
				authorized.DELETE("/affiliates/:id", adminHandler.DeleteAffiliate)
				authorized.PUT("/affiliates/:id/vip", adminHandler.UpdateAffiliateVIP)
				authorized.GET("/vip-audit-logs", adminHandler.ListVIPAuditLogs)

				// 用户
				authorized.GET("/users", adminHandler.ListUsers)
				authorized.PUT("/users/:id/status", adminHandler.UpdateUserStatus)

				// 设置
				authorized.GET("/settings/tabs", adminHandler.GetSettingsTabs)
				authorized.GET("/settings/schema", adminHandler.GetSettingsSchema)
				authorized.GET("/settings/vip", adminHandler.GetVIPSettings)
				authorized.PUT("/settings/vip", adminHandler.UpdateVIPSettings)
				authorized.GET("/settings/general", adminHandler.GetGeneralSettings)
				authorized.PUT("/settings/general", adminHandler.UpdateGeneralSettings)

				// 内容页面
				authorized.GET("/pages", adminHandler.ListPages)
				authorized.POST("/pages", adminHandler.CreatePage)
				authorized.GET("/pages/:id", adminHandler.GetPage)
				authorized.PUT("/pages/:id", adminHandler.UpdatePage)
				authorized.DELETE("/pages/:id", adminHandler.DeletePage)

				// 权限管理
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.POST("/authz/capabilities", adminHandler.GrantAuthzCapability)
				authorized.DELETE("/authz/capabilities", adminHandler.RevokeAuthzCapability)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
			}
		}
	}

	r.GET("/health", healthHandler)

	return r
}

// healthHandler 数据库与 Redis 均可达时返回 ok，否则 degraded
func healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok", "redis": "disabled"}
	status := "ok"
	if err := models.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status = "degraded"
	}
	if cache.Enabled() {
		checks["redis"] = "ok"
		if err := cache.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			status = "degraded"
		}
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "checks": checks})
}
