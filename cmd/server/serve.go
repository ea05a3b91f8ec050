package main

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"org-directory-service/internal/app/routes"
	"org-directory-service/internal/domain/repository"
	"org-directory-service/internal/domain/seed"
	"org-directory-service/internal/domain/services"
	"org-directory-service/internal/domain/services/container"
	"org-directory-service/internal/infrastructure/config"
	"org-directory-service/internal/infrastructure/database"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	flags := newEnvFlags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(flags)
			if err != nil {
				return err
			}
			defer log.Sync()
			return serve(cmd.Context(), cfg, log)
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	provider, pool, err := newProvider(ctx, cfg, log)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
		printSystemInfo(pool, log)
	}

	var redisService services.InterfaceRedisService
	if cfg.RedisEnabled {
		redisService = services.NewRedisService(cfg)
		defer redisService.Close()
	}

	serviceContainer := container.NewServiceContainer(provider, cfg, log, redisService)
	router := routes.SetupRouter(ctx, serviceContainer)

	// 监听所有接口(0.0.0.0)而不是只监听localhost
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("服务器启动", zap.String("addr", "http://"+srv.Addr), zap.String("store", provider.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("正在关闭服务器")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newProvider DB_ENABLED=false 时使用内存存储和参考数据
func newProvider(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Provider, *database.ConnectionPool, error) {
	if !cfg.DBEnabled {
		log.Warn("数据库未启用，使用内存存储和参考数据")
		return repository.NewMemoryProvider(seed.Reference()), nil, nil
	}

	pool, err := database.NewConnectionPool(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	if err := database.Migrate(ctx, pool.GetDB(), cfg.DBMigrationMode, log); err != nil {
		pool.Close()
		return nil, nil, err
	}
	if cfg.DBSeed {
		if _, err := database.Seed(ctx, pool.GetDB(), seed.Reference(), log); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return repository.NewGormProvider(pool.GetDB()), pool, nil
}

// printSystemInfo 打印系统信息
func printSystemInfo(pool *database.ConnectionPool, log *zap.Logger) {
	if stats, err := pool.Stats(); err == nil {
		log.Info("数据库连接池状态", zap.Any("stats", stats))
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Info("系统资源",
		zap.Int("cpu", runtime.NumCPU()),
		zap.Int("goroutines", runtime.NumGoroutine()),
		zap.Uint64("alloc_mib", m.Alloc/1024/1024),
		zap.Uint64("sys_mib", m.Sys/1024/1024),
	)
}
