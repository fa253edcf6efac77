package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"unidraw/internal/bootstrap/config"
	"unidraw/internal/bootstrap/database"
	"unidraw/internal/bootstrap/logging"
	sqliterepo "unidraw/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "unidraw/internal/infrastructure/persistence/sqlite/uow"
	registryinfra "unidraw/internal/infrastructure/registry"
	"unidraw/internal/ports"
	"unidraw/internal/usecase/lottery"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(provideRegistry),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewLotteryRepository,
			fx.As(new(ports.LotteryRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(lottery.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

// provideRegistry returns the HTTP registry client, or the disabled stand-in
// when no registry is configured. Disabled behaves exactly like an outage,
// so enrollment always degrades the same way.
func provideRegistry(cfg config.Config) ports.StudentRegistry {
	if !cfg.Registry.Enabled {
		return registryinfra.Disabled()
	}
	return registryinfra.NewHTTPClient(cfg.Registry.BaseURL, cfg.Registry.Timeout)
}
