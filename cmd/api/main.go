package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"resultportal/internal/config"
	"resultportal/internal/otp"
	"resultportal/internal/queue"
	"resultportal/internal/recheck"
	"resultportal/internal/session"
	"resultportal/internal/store"
	"resultportal/internal/student"
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
	var d deps

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "resultportal:otp")
	}

	dispatch := func(ctx context.Context, email, code string) error {
		body, err := json.Marshal(loginCodeMessage{Email: email, Code: code})
		if err != nil {
			return err
		}
		return q.Publish(ctx, queue.Message{Type: "otp", Body: body})
	}

	if cfg.StoreBackend == "memory" {
		// In-memory rendition of the portal, no external services needed.
		otpStore := otp.NewMemory()
		if cfg.AdminEmail != "" {
			otpStore.AddAdmin(cfg.AdminEmail)
		}
		d = deps{
			students: student.NewMemory(),
			rechecks: recheck.NewMemory(),
			sessions: session.NewMemoryStore(),
			login:    otp.NewEngine(otpStore, cfg.OTPTTL, dispatch),
			health: func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": "memory"})
			},
		}
	} else {
		db, err := store.NewDB(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		if err := db.SeedAdmin(ctx, cfg.AdminEmail); err != nil {
			log.Printf("warning: admin seed failed: %v", err)
		}

		d = deps{
			students: student.NewRepository(db.Client),
			rechecks: recheck.NewRepository(db.Client),
			sessions: session.NewRedisStore(redisClient.Client),
			login:    otp.NewEngine(otp.NewRepository(db.Client), cfg.OTPTTL, dispatch),
			health: func(c *gin.Context) {
				redisHealthy := redisClient.Healthy(c.Request.Context())
				dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
				status := http.StatusOK
				if !redisHealthy || !dbHealthy {
					status = http.StatusServiceUnavailable
				}
				c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
			},
		}
	}

	r := newRouter(d)

	// Graceful shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

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

// loginCodeMessage is the queue payload consumed by the notification worker.
type loginCodeMessage struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
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
