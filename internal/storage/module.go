package storage

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/frelanci/orderchat/internal/config"
	"github.com/frelanci/orderchat/internal/domain/repository"
	"github.com/frelanci/orderchat/internal/storage/memory"
	"github.com/frelanci/orderchat/internal/storage/postgres"
)

// Module selects the storage backend from configuration and exposes its
// repositories. An empty DSN picks the in-memory store, which suits local
// development of the conversation client.
var Module = fx.Options(
	fx.Provide(newFactory),
	fx.Provide(
		func(f repository.Factory) repository.UserRepository { return f.Users() },
		func(f repository.Factory) repository.OrderRepository { return f.Orders() },
	),
	fx.Invoke(registerLifecycle),
)

type factoryParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newFactory(p factoryParams) (repository.Factory, error) {
	if p.Config.DatabaseURI == "" {
		p.Logger.Info("using in-memory storage")
		return memory.New(), nil
	}
	return postgres.New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, factory repository.Factory) {
	store, ok := factory.(*postgres.Storage)
	if !ok {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			store.Close()
			return nil
		},
	})
}
