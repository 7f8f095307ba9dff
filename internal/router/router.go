package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bookstore-next/internal/authz"
	"github.com/bookstore-next/internal/cache"
	"github.com/bookstore-next/internal/config"
	adminhandlers "github.com/bookstore-next/internal/http/handlers/admin"
	publichandlers "github.com/bookstore-next/internal/http/handlers/public"
	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := cache.KeyPrefix(&cfg.Redis)
	redisClient := cache.Client()
	loginRule := RuleFromConfig(fmt.Sprintf("%s:rate:login", redisPrefix), cfg.Security.LoginRateLimit)
	signupRule := RuleFromConfig(fmt.Sprintf("%s:rate:signup", redisPrefix), cfg.Security.SignupRateLimit)
	apiRule := RuleFromConfig(fmt.Sprintf("%s:rate:api", redisPrefix), cfg.Security.APIRateLimit)

	userAuth := UserJWTAuthMiddleware(c.AuthService, c.UserRepo)
	optionalAuth := OptionalUserJWTMiddleware(c.AuthService, c.UserRepo)
	roleRBAC := RoleRBACMiddleware(c.AuthzService)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(RateLimitMiddleware(redisClient, apiRule, KeyByIP))
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 认证
		auth := apiV1.Group("/auth")
		{
			auth.POST("/signup", RateLimitMiddleware(redisClient, signupRule, KeyByIP), publicHandler.Signup)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.POST("/refresh", publicHandler.RefreshToken)
			auth.POST("/logout", publicHandler.Logout)
		}

		// 图书目录（游客可访问，登录后记录浏览人）
		catalog := apiV1.Group("")
		catalog.Use(optionalAuth)
		{
			catalog.GET("/books", publicHandler.SearchBooks)
			catalog.GET("/books/:id", publicHandler.GetBook)
			catalog.GET("/reviews", publicHandler.ListReviews)
			catalog.GET("/reviews/:id", publicHandler.GetReview)
			catalog.GET("/reviews/:id/comments", publicHandler.ListReviewComments)
			catalog.GET("/comments/:id", publicHandler.GetComment)
			catalog.GET("/coupons/available", publicHandler.ListAvailableCoupons)
		}

		// 上架管理（SELLER / ADMIN）
		seller := apiV1.Group("")
		seller.Use(userAuth, roleRBAC)
		{
			seller.POST("/books", publicHandler.CreateBook)
			seller.PUT("/books/:id", publicHandler.UpdateBook)
			seller.PATCH("/books/:id", publicHandler.UpdateBook)
			seller.DELETE("/books/:id", publicHandler.DeleteBook)
		}

		// 登录用户接口
		user := apiV1.Group("")
		user.Use(userAuth)
		{
			user.GET("/me", publicHandler.GetMyProfile)
			user.PUT("/me", publicHandler.UpdateMyProfile)
			user.DELETE("/me", publicHandler.DeleteMyAccount)
			user.GET("/me/comments", publicHandler.ListMyComments)

			user.POST("/orders/preview", publicHandler.PreviewOrder)
			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)

			user.GET("/coupons/mine", publicHandler.ListMyCoupons)

			user.POST("/reviews", publicHandler.CreateReview)
			user.PUT("/reviews/:id", publicHandler.UpdateReview)
			user.DELETE("/reviews/:id", publicHandler.DeleteReview)
			user.POST("/reviews/:id/like", publicHandler.ToggleReviewLike)
			user.POST("/reviews/:id/comments", publicHandler.CreateComment)

			user.PUT("/comments/:id", publicHandler.UpdateComment)
			user.DELETE("/comments/:id", publicHandler.DeleteComment)
			user.POST("/comments/:id/like", publicHandler.ToggleCommentLike)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PUT("/cart/items/:id", publicHandler.UpdateCartItem)
			user.DELETE("/cart/items/:id", publicHandler.RemoveCartItem)

			user.POST("/favorites", publicHandler.AddFavorite)
			user.GET("/favorites", publicHandler.ListFavorites)
			user.DELETE("/favorites/:id", publicHandler.RemoveFavorite)

			user.GET("/library", publicHandler.ListLibrary)
		}

		// 管理后台
		admin := apiV1.Group("/admin")
		admin.Use(userAuth, roleRBAC)
		{
			admin.GET("/stats", adminHandler.GetStats)

			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/role", adminHandler.UpdateUserRole)

			admin.GET("/orders", adminHandler.ListOrders)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)

			admin.GET("/coupons", adminHandler.ListCoupons)
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.POST("/coupons/:id/issue", adminHandler.IssueCoupon)

			admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
			admin.POST("/authz/roles", adminHandler.CreateAuthzRole)
			admin.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
			admin.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			admin.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
			admin.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
			admin.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
				response.Success(ctx, buildPermissionCatalog(r))
			})
		}
	}

	r.GET("/health", publicHandler.Health)

	return r
}

type permissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildPermissionCatalog(engine *gin.Engine) []permissionCatalogItem {
	if engine == nil {
		return []permissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]permissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !isGuardedRoute(method, item.Path) {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, permissionCatalogItem{
			Module:     derivePermissionModule(object),
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

func derivePermissionModule(object string) string {
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
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}

// isGuardedRoute 经过角色鉴权的路由：后台接口与图书写操作
func isGuardedRoute(method, path string) bool {
	if strings.HasPrefix(path, "/api/v1/admin/") {
		return true
	}
	if method == "GET" {
		return false
	}
	return path == "/api/v1/books" || path == "/api/v1/books/:id"
}
