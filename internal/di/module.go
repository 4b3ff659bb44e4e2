package di

import (
	"go.uber.org/fx"

	"github.com/frelanci/orderchat/internal/adapter/marketplace"
	"github.com/frelanci/orderchat/internal/app"
	"github.com/frelanci/orderchat/internal/config"
	"github.com/frelanci/orderchat/internal/logger"
	"github.com/frelanci/orderchat/internal/pkg/auth"
	"github.com/frelanci/orderchat/internal/server/http/handlers"
	"github.com/frelanci/orderchat/internal/server/http/router"
	"github.com/frelanci/orderchat/internal/session"
	"github.com/frelanci/orderchat/internal/storage"
	"github.com/frelanci/orderchat/internal/usecase"
)

// ServerModule assembles the development marketplace server.
func ServerModule(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		storage.Module,
		usecase.Module,
		fx.Provide(func(f *app.MarketplaceFacade) handlers.MarketplaceFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

// ClientModule assembles the conversation client's dependencies: config,
// logging, the persisted session store, and the marketplace HTTP adapter.
func ClientModule(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		session.Module,
		marketplace.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
