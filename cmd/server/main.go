package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-system/config"
	"social-system/internal/graph"
	"social-system/internal/handler"
	"social-system/internal/service"
	dbPkg "social-system/pkg/db"
	"social-system/pkg/jwt"
	"social-system/pkg/logger"
	"social-system/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	// 2. 初始化日志系统
	log, err := logger.InitLogger(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("=== 社交系统启动 ===")
	log.Info("服务器配置信息",
		zap.String("port", cfg.Server.Port),
		zap.String("database_driver", cfg.Database.Driver),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Duration("jwt_expire_time", cfg.JWT.ExpireTime),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化存储后端
	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("存储后端初始化失败", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := dbPkg.CloseDB(closeCtx); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()
	log.Info("存储后端就绪", zap.String("driver", cfg.Database.Driver))

	// 4. 初始化Redis（可选）
	jwtSvc := jwt.NewJWTService(cfg.JWT)
	deps := service.Deps{Tokens: jwtSvc}
	var revoked jwt.RevocationChecker
	if cfg.Redis.Enabled {
		if err := redis.InitRedis(ctx, cfg.Redis); err != nil {
			log.Fatal("Redis连接失败", zap.Error(err))
		}
		defer redis.Close()

		revoker := redis.TokenRevoker{TTL: cfg.JWT.ExpireTime}
		deps.Revoker = revoker
		deps.Limiter = redis.LoginLimiter{MaxAttempts: cfg.Auth.LoginMaxAttempts, Window: cfg.Auth.LoginWindow}
		deps.Unread = redis.UnreadCounter{}
		revoked = revoker
		log.Info("Redis连接成功")
	}

	// 5. 初始化业务服务与GraphQL模式
	svc := service.New(store, deps)
	schema, err := graph.NewSchema(svc, cfg.GraphQL)
	if err != nil {
		log.Fatal("GraphQL模式解析失败", zap.Error(err))
	}

	// 6. 设置Gin模式并创建路由
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.RouterDeps{
		GraphQL: handler.NewGraphQLHandler(schema),
		Health:  handler.NewHealthHandler(cfg.Database.Driver, store.Ping),
		JWT:     jwtSvc,
		Revoked: revoked,
	})

	// 7. 创建HTTP服务器
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 8. 启动HTTP服务器
	go func() {
		log.Info("HTTP服务器启动", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 9. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP服务器关闭失败", zap.Error(err))
	}

	log.Info("服务器已安全关闭")
}
