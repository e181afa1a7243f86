package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/breezie/breezie/internal/config"
	"github.com/breezie/breezie/internal/database"
	"github.com/breezie/breezie/internal/handler"
	"github.com/breezie/breezie/internal/repository"
	"github.com/breezie/breezie/internal/router"
	"github.com/breezie/breezie/internal/service"
	"github.com/breezie/breezie/pkg/log"
)

func main() {
	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Init(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	// 设置 Gin 模式
	gin.SetMode(cfg.Server.Mode)

	// 初始化数据库
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	log.Infof("Database connected: %s", cfg.Database.DBName)

	// 初始化 Redis，连不上也不致命，对话缓存会降级
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warnf("Redis unavailable, conversation cache disabled: %v", err)
		redisClient = nil
	}

	// 初始化各层
	repos := repository.NewRepositories(db.DB)
	services := service.NewServices(repos, cfg, redisClient)
	handlers := handler.NewHandlers(services)

	// 初始化路由
	r := router.SetupRouter(handlers, services)

	// 创建 HTTP 服务器
	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// 启动服务器
	go func() {
		log.Infof("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infof("Shutting down server...")

	// 优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Infof("Server exited")
}
