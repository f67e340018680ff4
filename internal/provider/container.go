package provider

import (
	"github.com/vip-affiliates/internal/authz"
	"github.com/vip-affiliates/internal/cache"
	"github.com/vip-affiliates/internal/config"
	"github.com/vip-affiliates/internal/hooks"
	"github.com/vip-affiliates/internal/logger"
	"github.com/vip-affiliates/internal/models"
	"github.com/vip-affiliates/internal/queue"
	"github.com/vip-affiliates/internal/repository"
	"github.com/vip-affiliates/internal/service"
	"github.com/vip-affiliates/internal/shortcode"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	VIPOptions  service.VIPOptions

	// 扩展点
	Dispatcher *hooks.Dispatcher
	Shortcodes *shortcode.Registry

	// Repositories
	AdminRepo         repository.AdminRepository
	UserRepo          repository.UserRepository
	AffiliateRepo     repository.AffiliateRepository
	AffiliateMetaRepo repository.AffiliateMetaRepository
	SettingRepo       repository.SettingRepository
	PageRepo          repository.PageRepository
	VIPAuditLogRepo   repository.VIPAuditLogRepository

	// Services
	AuthzService         *authz.Service
	AuthService          *service.AuthService
	UserAuthService      *service.UserAuthService
	SettingService       *service.SettingService
	SettingsPanelService *service.SettingsPanelService
	AffiliateMetaService *service.AffiliateMetaService
	AffiliateService     *service.AffiliateService
	VIPAuditService      *service.VIPAuditService
	VIPGateService       *service.VIPGateService
	VIPEditorService     *service.VIPEditorService
	PageService          *service.PageService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		VIPOptions:  service.NewVIPOptions(cfg.VIP),
		Dispatcher:  hooks.NewDispatcher(),
		Shortcodes:  shortcode.NewRegistry(),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	// 3. 登记扩展点回调
	c.registerExtensions()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.AffiliateRepo = repository.NewAffiliateRepository(db)
	c.AffiliateMetaRepo = repository.NewAffiliateMetaRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.PageRepo = repository.NewPageRepository(db)
	c.VIPAuditLogRepo = repository.NewVIPAuditLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.SettingsPanelService = service.NewSettingsPanelService(c.Dispatcher)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)

	c.AffiliateMetaService = service.NewAffiliateMetaService(c.AffiliateMetaRepo, c.VIPOptions.CacheTTL)
	c.AffiliateService = service.NewAffiliateService(c.AffiliateRepo, c.AffiliateMetaRepo, c.UserRepo, c.AffiliateMetaService, c.Dispatcher)
	c.VIPAuditService = service.NewVIPAuditService(c.VIPAuditLogRepo, c.AffiliateMetaService)
	c.VIPGateService = service.NewVIPGateService(c.VIPOptions, c.AffiliateService, c.AffiliateMetaService, c.SettingService, c.Dispatcher)
	c.VIPEditorService = service.NewVIPEditorService(
		c.VIPOptions,
		c.AffiliateMetaService,
		c.SettingService,
		c.AuthzService,
		service.NewVIPMetaChangePublisher(c.QueueClient, c.VIPAuditService),
	)
	c.PageService = service.NewPageService(c.PageRepo, c.Shortcodes)
}

func (c *Container) registerExtensions() {
	if err := c.VIPEditorService.Register(c.Dispatcher); err != nil {
		logger.Errorw("provider_register_vip_editor_failed", "error", err)
		panic(err)
	}
	if err := c.VIPGateService.RegisterShortcode(c.Shortcodes); err != nil {
		logger.Errorw("provider_register_vip_shortcode_failed", "tag", c.VIPOptions.ShortcodeTag, "error", err)
		panic(err)
	}
	if c.VIPOptions.MetaKeysDiverge() {
		logger.Warnw("vip_meta_key_mismatch",
			"gate_meta_key", c.VIPOptions.GateMetaKey,
			"editor_meta_key", c.VIPOptions.EditorMetaKey,
		)
	}
}
