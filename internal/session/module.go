package session

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/frelanci/orderchat/internal/adapter/marketplace"
	"github.com/frelanci/orderchat/internal/config"
)

// Module wires the persisted session store into the fx graph.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Provide(func(s *Store) marketplace.TokenSource { return s }),
)

type storeParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newStore(p storeParams) *Store {
	return NewStore(p.Config.SessionFile, p.Logger)
}
