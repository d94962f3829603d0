package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/davronbek/proteach/core/attendance"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.create)
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

func (api *attendanceApi) create(ctx echo.Context) error {
	var data attendance.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rec, err := api.svc.Save(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving attendance")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	var page FeedPage
	if err := page.Bind(ctx); err != nil {
		return err
	}

	recs, err := api.svc.Query(ctx.Request().Context(), page.After, page.Limit)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	rec, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == attendance.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding attendance by ID")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) update(ctx echo.Context) error {
	var data struct {
		Statuses map[string]string `json:"statuses"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding attendance statuses")
	}

	rec, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data.Statuses)
	if err != nil {
		if errors.Cause(err) == attendance.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating attendance")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == attendance.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting attendance")
	}
	return ctx.NoContent(http.StatusNoContent)
}
