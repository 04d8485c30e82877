package handler

import (
	"campus-wallet/internal/adapter/http/middleware"
	redisStore "campus-wallet/internal/adapter/storage/redis"
	"campus-wallet/internal/core/domain"
	"campus-wallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	LedgerSvc      ports.LedgerService
	UserSvc        ports.UserService
	ReportingSvc   ports.ReportingService
	AuditRec       ports.AuditRecorder
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	walletHandler := NewWalletHandler(deps.LedgerSvc)
	wallets := v1.Group("/wallets", jwtAuth)
	{
		wallets.GET("/balance", rl("reports"), walletHandler.GetBalance)
		wallets.POST("/transfer", rl("transfers"), walletHandler.Transfer)
		wallets.POST("/pay", rl("transfers"), walletHandler.Pay)
	}

	userHandler := NewUserHandler(deps.UserSvc)
	users := v1.Group("/users", jwtAuth)
	{
		users.GET("/me", rl("reports"), userHandler.GetProfile)
	}

	reportingHandler := NewReportingHandler(deps.ReportingSvc)
	v1.GET("/transactions", jwtAuth, rl("reports"), reportingHandler.ListTransactions)
	v1.GET("/reports/stats", jwtAuth, rl("reports"), reportingHandler.GetStats)

	// --- Teller routes (top-up operators and cashiers) ---
	// Role checks happen in the ledger service against the database; the
	// routes only require a valid token.
	tellerHandler := NewTellerHandler(deps.LedgerSvc)
	teller := v1.Group("/teller", jwtAuth)
	{
		teller.POST("/topup", rl("teller"), tellerHandler.TopUp)
		teller.POST("/withdraw", rl("teller"), tellerHandler.Withdraw)
	}

	// --- Admin routes ---
	adminHandler := NewAdminHandler(deps.UserSvc, deps.LedgerSvc, deps.AuditRec)
	admin := v1.Group("/admin", jwtAuth, middleware.RequireRole(domain.AccountTypeAdmin))
	{
		admin.GET("/users", rl("admin"), adminHandler.ListUsers)
		admin.PUT("/users/:id/role", rl("admin"), adminHandler.UpdateRole)
		admin.PUT("/users/:id/verified", rl("admin"), adminHandler.SetVerified)
		admin.PUT("/users/:id/balance", rl("admin"), adminHandler.SetBalance)
		admin.DELETE("/users/:id", rl("admin"), adminHandler.DeleteUser)
		admin.GET("/users/:id/audits", rl("admin"), adminHandler.ListAudits)
	}

	return r
}
