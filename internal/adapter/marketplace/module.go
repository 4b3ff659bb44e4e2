package marketplace

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/frelanci/orderchat/internal/config"
)

// Module exposes the marketplace client implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Tokens TokenSource
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.APIBaseURL, p.Config.RequestTimeout, p.Tokens, p.Logger)
}
