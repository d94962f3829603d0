package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/davronbek/proteach/core/lead"
)

type leadApi struct {
	svc *lead.Service
}

func registerLeadAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *lead.Service) {
	api := leadApi{svc: svc}

	lg := g.Group("/leads")

	// lead capture is open: the public site form posts here
	lg.POST("", api.create)

	ag := lg.Group("", jwt)
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

func (api *leadApi) create(ctx echo.Context) error {
	var data lead.NewLead
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLead")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ld, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating lead")
	}
	return ctx.JSON(http.StatusCreated, ld)
}

func (api *leadApi) query(ctx echo.Context) error {
	var page FeedPage
	if err := page.Bind(ctx); err != nil {
		return err
	}

	leads, err := api.svc.Query(ctx.Request().Context(), page.Limit)
	if err != nil {
		return errors.Wrap(err, "querying leads")
	}
	return ctx.JSON(http.StatusOK, leads)
}

func (api *leadApi) retrieve(ctx echo.Context) error {
	ld, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == lead.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding lead by ID")
	}
	return ctx.JSON(http.StatusOK, ld)
}

func (api *leadApi) update(ctx echo.Context) error {
	var data lead.UpdateLead
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLead")
	}

	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == lead.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding lead by ID")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	ld, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == lead.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating lead")
	}
	return ctx.JSON(http.StatusOK, ld)
}

func (api *leadApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == lead.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting lead")
	}
	return ctx.NoContent(http.StatusNoContent)
}
