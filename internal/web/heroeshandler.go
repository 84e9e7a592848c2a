package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/mimiro-io/heroes-datalayer/internal/hero"
	"github.com/mimiro-io/heroes-datalayer/internal/store"
)

const heroesPath = "/api/heroes"

type heroesHandler struct {
	logger *zap.SugaredLogger
	store  store.HeroStore
}

func NewHeroesHandler(lc fx.Lifecycle, e *echo.Echo, logger *zap.SugaredLogger, heroes store.HeroStore) {
	hh := newHeroesHandler(logger, heroes)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			hh.register(e)
			return nil
		},
	})
}

func newHeroesHandler(logger *zap.SugaredLogger, heroes store.HeroStore) *heroesHandler {
	return &heroesHandler{
		logger: logger.Named("web"),
		store:  heroes,
	}
}

func (hh *heroesHandler) register(e *echo.Echo) {
	e.GET(heroesPath, hh.listHeroesHandler)
	// search urls carry a trailing slash: /api/heroes/?name=term
	e.GET(heroesPath+"/", hh.listHeroesHandler)
	e.GET(heroesPath+"/:id", hh.getHeroHandler)
	e.POST(heroesPath, hh.addHeroHandler)
	e.PUT(heroesPath, hh.updateHeroHandler)
	e.DELETE(heroesPath+"/:id", hh.deleteHeroHandler)
}

func (hh *heroesHandler) listHeroesHandler(c echo.Context) error {
	if c.QueryParams().Has("name") {
		return c.JSON(http.StatusOK, hh.store.Search(c.QueryParam("name")))
	}
	return c.JSON(http.StatusOK, hh.store.List())
}

func (hh *heroesHandler) getHeroHandler(c echo.Context) error {
	id, err := heroId(c)
	if err != nil {
		return err
	}
	h, err := hh.store.Get(id)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, h)
}

func (hh *heroesHandler) addHeroHandler(c echo.Context) error {
	h := hero.Hero{}
	if err := c.Bind(&h); err != nil {
		hh.logger.Debugw("Could not bind hero", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "could not parse the hero payload")
	}
	added, err := hh.store.Add(h)
	if err != nil {
		return storeError(err)
	}
	hh.logger.Infow("Added hero", "id", added.ID)
	return c.JSON(http.StatusCreated, added)
}

func (hh *heroesHandler) updateHeroHandler(c echo.Context) error {
	h := hero.Hero{}
	if err := c.Bind(&h); err != nil {
		hh.logger.Debugw("Could not bind hero", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "could not parse the hero payload")
	}
	if h.IsNew() {
		return echo.NewHTTPError(http.StatusBadRequest, "hero id is required")
	}
	if err := hh.store.Update(h); err != nil {
		return storeError(err)
	}
	hh.logger.Infow("Updated hero", "id", h.ID)
	return c.NoContent(http.StatusNoContent)
}

func (hh *heroesHandler) deleteHeroHandler(c echo.Context) error {
	id, err := heroId(c)
	if err != nil {
		return err
	}
	if _, err := hh.store.Delete(id); err != nil {
		return storeError(err)
	}
	hh.logger.Infow("Deleted hero", "id", id)
	return c.NoContent(http.StatusNoContent)
}

// heroId only accepts the canonical decimal form, cast would read 013 as octal and 0x0b as hex.
func heroId(c echo.Context) (int, error) {
	param := c.Param("id")
	id, err := cast.ToIntE(param)
	if err != nil || id <= 0 || strconv.Itoa(id) != param {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid hero id")
	}
	return id, nil
}

func storeError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return echo.ErrNotFound
	case errors.Is(err, store.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.ErrInternalServerError
	}
}
