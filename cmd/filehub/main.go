// Точка входа FileHub — многопользовательского файлового хранилища.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// подключается к Redis (сессии), инициализирует blob-хранилище,
// сервисный слой и API handlers, запускает topologymetrics
// и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/filehub/internal/api/handlers"
	"github.com/bigkaa/filehub/internal/api/middleware"
	"github.com/bigkaa/filehub/internal/config"
	"github.com/bigkaa/filehub/internal/database"
	"github.com/bigkaa/filehub/internal/repository"
	"github.com/bigkaa/filehub/internal/server"
	"github.com/bigkaa/filehub/internal/service"
	"github.com/bigkaa/filehub/internal/session"
	"github.com/bigkaa/filehub/internal/storage/filestore"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("FileHub запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	if os.Getenv("FH_DEPHEALTH_GROUP") == "" {
		logger.Warn("FH_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Redis — ephemeral-хранилище сессий
	redisStore, err := session.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("Ошибка подключения к Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisStore.Close()
	logger.Info("Redis подключён", slog.String("addr", cfg.RedisAddr))

	// 6. Blob-хранилище на диске
	blobs, err := filestore.New(cfg.DataDir)
	if err != nil {
		logger.Error("Ошибка инициализации blob-хранилища",
			slog.String("data_dir", cfg.DataDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	logger.Info("Blob-хранилище готово", slog.String("data_dir", cfg.DataDir))

	// 7. Repositories
	userRepo := repository.NewUserRepository(pool)
	fileRepo := repository.NewFileRepository(pool)

	// 8. Services
	sessionMgr := session.NewManager(redisStore, logger)
	cacheSvc := service.NewCacheService(cfg.CacheSize, cfg.CacheTTL)
	authSvc := service.NewAuthService(userRepo, sessionMgr, cfg.SessionTTL, logger)
	userSvc := service.NewUserService(userRepo, logger)
	fileSvc := service.NewFileService(fileRepo, blobs, cacheSvc, logger)
	statsSvc := service.NewStatsService(userRepo, fileRepo, redisStore, pool, logger)

	// 9. topologymetrics — мониторинг зависимостей (PostgreSQL)
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"filehub",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
			defer dephealthSvc.Stop()
		}
	}

	// 10. Readiness checkers (PostgreSQL + Redis)
	pgChecker := database.NewReadinessChecker(pool)
	healthHandler := handlers.NewHealthHandler(pgChecker, redisStore)

	// 11. Auth middleware — токен сессии в X-Token
	authMW := middleware.NewAuth(authSvc)

	// 12. API handler
	apiHandler := handlers.NewAPIHandler(
		handlers.NewAuthHandler(authSvc, logger),
		handlers.NewUsersHandler(userSvc, logger),
		handlers.NewFilesHandler(fileSvc, logger),
		handlers.NewSystemHandler(statsSvc, logger),
		healthHandler,
		authMW,
	)

	// 13. HTTP-сервер: metrics снаружи, логирование внутри
	srv := server.New(cfg, logger, apiHandler,
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
	)

	// 14. Запуск сервера (блокирующий вызов с graceful shutdown)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("FileHub остановлен")
}
