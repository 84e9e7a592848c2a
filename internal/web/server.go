package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/mimiro-io/heroes-datalayer/internal/conf"
)

func NewWebServer(lc fx.Lifecycle, env *conf.Env) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	log := env.Logger.Named("web")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting Http server on :%s", env.Port)
			go func() {
				if err := e.Start(":" + env.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("Http server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infof("Shutting down Http server")
			return e.Shutdown(ctx)
		},
	})

	return e
}

type Middleware struct {
	logger *zap.SugaredLogger
}

func NewMiddleware(env *conf.Env) *Middleware {
	return &Middleware{logger: env.Logger.Named("http")}
}

// Register installs the middleware chain shared by every route.
func Register(e *echo.Echo, mw *Middleware) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(mw.requestLogger())
}

func (mw *Middleware) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"requestId", v.RequestID,
			}
			if v.Error != nil {
				mw.logger.Warnw("Request failed", append(fields, "error", v.Error.Error())...)
				return nil
			}
			mw.logger.Infow("Request", fields...)
			return nil
		},
	})
}
