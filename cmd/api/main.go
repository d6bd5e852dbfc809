package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"homeroom/internal/auth"
	"homeroom/internal/config"
	"homeroom/internal/handler"
	"homeroom/internal/httpmiddleware"
	"homeroom/internal/notify"
	"homeroom/internal/schedule"
	"homeroom/internal/staff"
	"homeroom/internal/store"
	"homeroom/internal/student"
)

func main() {
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	ctx := context.Background()

	var (
		students student.Store
		accounts staff.Store
		state    schedule.State
		notifier notify.Notifier
		db       *store.DB
		redisCli *store.Redis
	)

	if cfg.StoreBackend == "memory" {
		// Dev mode: everything in-process, seed one staff account.
		students = student.NewMemory()
		accounts = staff.NewMemory()
		state = schedule.NewMemoryState()
		notifier = notify.NewInMemory()
		if _, err := accounts.Create(ctx, "admin", "admin-dev-password", "Dev Admin"); err != nil {
			log.Printf("seed staff account: %v", err)
		}
		log.Println("memory backend: data is lost on restart")
	} else {
		var err error
		db, err = store.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Printf("warning: db not reachable: %v", err)
		}
		if db == nil {
			return err
		}
		if err := db.Migrate(ctx); err != nil {
			log.Printf("warning: migrate failed: %v", err)
		}
		students = student.NewRepository(db.Client)
		accounts = staff.NewRepository(db.Client)
		redisCli = store.NewRedis(cfg.RedisAddr)
		state = schedule.NewRedisState(redisCli.Client)
		notifier = notify.NewRedisNotifier(redisCli.Client)
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
		if redisCli != nil {
			_ = redisCli.Close()
		}
	}()

	eval := schedule.NewEvaluator(schedule.DefaultSlots(), cfg.SlotWindow)
	engine := schedule.NewEngine(state, students, notifier)
	sched := schedule.NewScheduler(state, engine, eval, cfg.Location())
	h := handler.New(cfg, students, accounts, state, engine, sched, eval, notifier)

	r := gin.New()

	// Recovery middleware
	r.Use(gin.Recovery())

	// Custom logger
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))

	// CORS middleware
	r.Use(corsMiddleware())

	// Security headers
	r.Use(securityHeaders())

	// Rate limiting
	r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).
		GinMiddleware("/healthz", "/metrics", "/v1/changes"))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := cfg.StoreBackend == "memory" || redisCli.Healthy(c.Request.Context())
		dbHealthy := cfg.StoreBackend == "memory" || db != nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	r.POST("/v1/login", h.Login)
	r.GET("/v1/students", h.ListStudents)
	r.GET("/v1/students/:id", h.GetStudent)
	r.PUT("/v1/students/:id/status", h.ReportStatus)
	r.GET("/v1/display", h.Display)
	r.GET("/v1/changes", h.Changes)
	r.GET("/v1/slots", h.Slots)

	r.POST("/v1/scheduler/tick", h.Tick)

	staffGroup := r.Group("/v1", auth.StaffAuth(cfg.JWTSigningKey, cfg.JWTIssuer))
	staffGroup.POST("/students", h.CreateStudent)
	staffGroup.PUT("/students/:id", h.UpdateStudent)
	staffGroup.DELETE("/students/:id", h.DeleteStudent)
	staffGroup.POST("/students/bulk", h.BulkStatus)
	staffGroup.POST("/students/:id/approve", h.ApproveStudent)
	staffGroup.GET("/templates/:day/:slot", h.GetTemplate)
	staffGroup.PUT("/templates/:day/:slot", h.SaveTemplate)
	staffGroup.GET("/scheduler/enabled", h.GetEnabled)
	staffGroup.PUT("/scheduler/enabled", h.SetEnabled)
	staffGroup.POST("/scheduler/apply", h.Apply)
	staffGroup.POST("/password", h.ChangePassword)

	r.StaticFile("/", "web/index.html")
	r.Static("/static", "web/static")

	// Graceful shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Cron-Secret")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
