package router

import (
	"fmt"
	"strings"

	"github.com/projectstore/internal/cache"
	"github.com/projectstore/internal/config"
	"github.com/projectstore/internal/http/handlers"
	"github.com/projectstore/internal/logger"
	"github.com/projectstore/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	h := handlers.New(
		c.AuthService,
		c.CaptchaService,
		c.CategoryService,
		c.ProductService,
		c.CartService,
		c.OrderService,
		c.InventoryService,
		c.ReviewService,
	)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ps"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}

	authRequired := AuthRequired(c.AuthService, c.UserRepo)
	authOptional := AuthOptional(c.AuthService, c.UserRepo)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/categories", h.ListCategories)
			public.GET("/categories/:slug", h.GetCategoryBySlug)
			public.GET("/products", h.ListProducts)
			public.GET("/products/featured", h.ListFeaturedProducts)
			public.GET("/products/recommended", h.ListRecommendedProducts)
			public.GET("/products/search", h.SearchProducts)
			public.GET("/products/:id", h.GetProduct)
			public.GET("/products/by-slug/:slug", h.GetProductBySlug)
			public.GET("/products/:id/reviews", h.ListProductReviews)
			public.GET("/captcha/image", h.Captcha)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), h.Login)
			auth.POST("/refresh", h.Refresh)
			auth.GET("/captcha", h.Captcha)
			auth.GET("/me", authRequired, h.Me)
		}

		// 购物车接口，匿名凭 X-Session-ID 使用
		cart := apiV1.Group("/cart")
		cart.Use(authOptional)
		{
			cart.GET("", h.GetCart)
			cart.POST("/items", h.AddCartItem)
			cart.PUT("/items/:product_id", h.UpdateCartItem)
			cart.DELETE("/items/:product_id", h.RemoveCartItem)
			cart.DELETE("", h.ClearCart)
		}

		// 下单支持登录用户与游客会话
		apiV1.POST("/orders", authOptional, h.Checkout)

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(authRequired)
		{
			user.PUT("/me/profile", h.UpdateMe)
			user.PUT("/me/password", h.ChangePassword)
			user.GET("/orders", h.ListOrders)
			user.GET("/orders/:id", h.GetOrder)
			user.GET("/orders/by-order-no/:order_no", h.GetOrderByNo)
			user.POST("/orders/:id/cancel", h.CancelOrder)
			user.POST("/reviews", h.CreateReview)
			user.PUT("/reviews/:id", h.UpdateReview)
			user.DELETE("/reviews/:id", h.DeleteReview)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(authRequired, AdminRequired())
		{
			admin.GET("/categories", h.AdminListCategories)
			admin.GET("/categories/:id", h.AdminGetCategory)
			admin.POST("/categories", h.CreateCategory)
			admin.PUT("/categories/:id", h.UpdateCategory)
			admin.DELETE("/categories/:id", h.DeleteCategory)

			admin.GET("/products", h.AdminListProducts)
			admin.GET("/products/:id", h.AdminGetProduct)
			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)

			admin.GET("/orders", h.ListOrders)
			admin.GET("/orders/:id", h.GetOrder)
			admin.PATCH("/orders/:id", h.UpdateOrderStatus)
			admin.PUT("/orders/:id/notes", h.UpdateOrderNotes)
			admin.POST("/orders/:id/cancel", h.CancelOrder)

			admin.POST("/stock/adjust", h.AdjustStock)
			admin.GET("/stock/movements", h.ListStockMovements)
			admin.GET("/stock/low", h.ListLowStockProducts)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
