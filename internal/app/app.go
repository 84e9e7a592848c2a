package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/mimiro-io/heroes-datalayer/internal/conf"
	"github.com/mimiro-io/heroes-datalayer/internal/store"
	"github.com/mimiro-io/heroes-datalayer/internal/web"
)

func wire() *fx.App {
	app := fx.New(
		fx.WithLogger(func(env *conf.Env) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: env.Logger.Desugar().Named("fx")}
		}),
		fx.Provide(
			conf.NewEnv,
			conf.NewStatsd,
			conf.ProvideLogger,
			conf.NewConfigurationManager,
			store.NewHeroStore,
			web.NewWebServer,
			web.NewMiddleware,
		),
		fx.Invoke(
			web.Register,
			web.NewHeroesHandler,
		),
	)
	return app
}

func Run() {
	wire().Run()
}

func Start(ctx context.Context) (*fx.App, error) {
	app := wire()
	err := app.Start(ctx)
	return app, err
}
