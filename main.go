package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/portfoliokit/portfolio/handlers"
	"github.com/portfoliokit/portfolio/internal/admins"
	"github.com/portfoliokit/portfolio/internal/config"
	"github.com/portfoliokit/portfolio/internal/database"
	"github.com/portfoliokit/portfolio/internal/mailer"
	"github.com/portfoliokit/portfolio/internal/messages"
	"github.com/portfoliokit/portfolio/internal/projects"
	"github.com/portfoliokit/portfolio/internal/sessions"
	"github.com/portfoliokit/portfolio/internal/settings"
	"github.com/portfoliokit/portfolio/internal/spamcheck"
	"github.com/portfoliokit/portfolio/internal/storage"
	"github.com/portfoliokit/portfolio/pkg/logger"
	"github.com/portfoliokit/portfolio/pkg/metrics"
	"github.com/portfoliokit/portfolio/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v storage=%v smtp=%v",
		cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Storage.Endpoint != "", cfg.SMTP.Host != "")

	ctx := context.Background()

	// MongoDB is the system of record; refuse to start without it
	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
	if err != nil {
		logger.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()
	db := client.Database(cfg.MongoDB.Database)

	// Redis is optional: sessions and the distributed rate limiter prefer it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s), falling back to Mongo sessions: %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// persistence layer
	projectsSvc := projects.NewService(projects.NewMongoRepository(db.Collection("projects")))
	settingsRepo := settings.NewMongoRepository(db.Collection("settings"))
	settingsCache := settings.NewCache(settingsRepo, settings.DefaultTTL)
	messagesRepo := messages.NewMongoRepository(db.Collection("messages"))
	adminsSvc := admins.NewService(admins.NewMongoRepository(db.Collection("admins")))

	if err := adminsSvc.Bootstrap(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		logger.Fatalf("failed to bootstrap admin account: %v", err)
	}

	var sessionRepo sessions.Repository
	if redisClient != nil {
		sessionRepo = sessions.NewRedisRepository(redisClient, "session:")
		logger.Info("using Redis for session storage")
	} else {
		sessionRepo = sessions.NewMongoRepository(db.Collection("sessions"))
		logger.Info("using MongoDB for session storage")
	}
	sessionsSvc := sessions.NewService(sessionRepo)

	// optional collaborators
	var images *storage.ImageStorage
	if cfg.Storage.Endpoint != "" {
		images, err = storage.NewImageStorage(cfg.Storage)
		if err != nil {
			logger.Warnf("image storage unavailable, uploads disabled: %v", err)
			images = nil
		}
	}

	var mail mailer.Mailer = mailer.Noop{}
	if cfg.SMTP.Host != "" {
		m, err := mailer.NewSMTPMailer(cfg.SMTP)
		if err != nil {
			logger.Warnf("SMTP mailer unavailable, notifications disabled: %v", err)
		} else if m != nil {
			mail = m
		}
	}

	var spam spamcheck.Checker = spamcheck.Disabled{}
	if cfg.Spamcheck.APIKey != "" {
		spam = spamcheck.NewClient(cfg.Spamcheck.APIKey, cfg.Spamcheck.SiteURL)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowCredentials = false
	r.Use(cors.New(corsCfg))

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimit(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.Use(middleware.SessionAuth(sessionsSvc, cfg.Session.CookieName))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{"mongo": true}
		ready := true
		if err := client.Ping(c.Request.Context(), nil); err != nil {
			deps["mongo"] = false
			ready = false
		}
		if redisClient != nil {
			deps["redis"] = redisClient.Ping(c.Request.Context()).Err() == nil
			if !deps["redis"] {
				ready = false
			}
		}
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.LoadHTMLGlob(cfg.Server.TemplateGlob)
	handlers.NewPublicHandler(projectsSvc, settingsCache, messagesRepo, mail, spam).Register(r)
	handlers.NewAdminHandler(cfg, projectsSvc, settingsRepo, settingsCache, messagesRepo, adminsSvc, sessionsSvc, images).Register(r)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting portfolio server on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
