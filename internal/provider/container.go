package provider

import (
	"errors"

	"github.com/bookstore-next/internal/authz"
	"github.com/bookstore-next/internal/cache"
	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/queue"
	"github.com/bookstore-next/internal/repository"
	"github.com/bookstore-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	BookRepo         repository.BookRepository
	OrderRepo        repository.OrderRepository
	CouponRepo       repository.CouponRepository
	UserCouponRepo   repository.UserCouponRepository
	ReviewRepo       repository.ReviewRepository
	CommentRepo      repository.CommentRepository
	CartRepo         repository.CartRepository
	FavoriteRepo     repository.FavoriteRepository
	StatsRepo        repository.StatsRepository

	// Services
	AuthzService       *authz.Service
	CaptchaService     *service.CaptchaService
	AuthService        *service.AuthService
	UserService        *service.UserService
	BookService        *service.BookService
	OrderService       *service.OrderService
	CouponService      *service.CouponService
	CouponAdminService *service.CouponAdminService
	ReviewService      *service.ReviewService
	CommentService     *service.CommentService
	CartService        *service.CartService
	FavoriteService    *service.FavoriteService
	LibraryService     *service.LibraryService
	AdminService       *service.AdminService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config, db *gorm.DB) (*Container, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("config and db are required")
	}

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
		DB:          db,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories() {
	db := c.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.RefreshTokenRepo = repository.NewRefreshTokenRepository(db)
	c.BookRepo = repository.NewBookRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.UserCouponRepo = repository.NewUserCouponRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.CommentRepo = repository.NewCommentRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.FavoriteRepo = repository.NewFavoriteRepository(db)
	c.StatsRepo = repository.NewStatsRepository(db)
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}

	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.RefreshTokenRepo, c.CaptchaService)
	c.UserService = service.NewUserService(c.DB, c.UserRepo, c.Config.Security.PasswordPolicy)
	c.BookService = service.NewBookService(c.BookRepo, c.Config.Catalog.CacheTTLSeconds)
	c.OrderService = service.NewOrderService(c.DB, c.OrderRepo, c.BookRepo, c.CouponRepo, c.UserCouponRepo, c.QueueClient, c.Config.Order)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.UserCouponRepo)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo, c.UserCouponRepo, c.UserRepo)
	c.ReviewService = service.NewReviewService(c.DB, c.ReviewRepo, c.BookRepo, c.OrderRepo)
	c.CommentService = service.NewCommentService(c.DB, c.CommentRepo, c.ReviewRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.BookRepo)
	c.FavoriteService = service.NewFavoriteService(c.FavoriteRepo, c.BookRepo)
	c.LibraryService = service.NewLibraryService(c.OrderRepo, c.BookRepo)
	c.AdminService = service.NewAdminService(c.UserRepo, c.StatsRepo)
	return nil
}

// Close 释放容器持有的外部连接
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var firstErr error
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
			firstErr = err
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
