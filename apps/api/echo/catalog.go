package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/davronbek/proteach/core/catalog"
)

type catalogApi struct {
	svc *catalog.Service
}

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *catalog.Service) {
	api := catalogApi{svc: svc}

	sg := g.Group("/subjects", jwt)
	sg.POST("", api.createSubject)
	sg.GET("", api.querySubjects)
	sg.DELETE("/:id", api.destroySubject)

	rg := g.Group("/rooms", jwt)
	rg.POST("", api.createRoom)
	rg.GET("", api.queryRooms)
	rg.DELETE("/:id", api.destroyRoom)

	vg := g.Group("/videos", jwt)
	vg.POST("", api.createVideo)
	vg.GET("", api.queryVideos)
	vg.DELETE("/:id", api.destroyVideo)

	eg := g.Group("/schedule", jwt)
	eg.POST("", api.createScheduleEntry)
	eg.GET("", api.queryScheduleEntries)
	eg.DELETE("/:id", api.destroyScheduleEntry)
}

func (api *catalogApi) createSubject(ctx echo.Context) error {
	var data catalog.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	s, err := api.svc.CreateSubject(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *catalogApi) querySubjects(ctx echo.Context) error {
	subjects, err := api.svc.QuerySubjects(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *catalogApi) destroySubject(ctx echo.Context) error {
	return api.destroy(ctx, api.svc.DeleteSubject, "deleting subject")
}

func (api *catalogApi) createRoom(ctx echo.Context) error {
	var data catalog.NewRoom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoom")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	r, err := api.svc.CreateRoom(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating room")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *catalogApi) queryRooms(ctx echo.Context) error {
	rooms, err := api.svc.QueryRooms(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying rooms")
	}
	return ctx.JSON(http.StatusOK, rooms)
}

func (api *catalogApi) destroyRoom(ctx echo.Context) error {
	return api.destroy(ctx, api.svc.DeleteRoom, "deleting room")
}

func (api *catalogApi) createVideo(ctx echo.Context) error {
	var data catalog.NewVideo
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVideo")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	v, err := api.svc.CreateVideo(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating video")
	}
	return ctx.JSON(http.StatusCreated, v)
}

func (api *catalogApi) queryVideos(ctx echo.Context) error {
	videos, err := api.svc.QueryVideos(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying videos")
	}
	return ctx.JSON(http.StatusOK, videos)
}

func (api *catalogApi) destroyVideo(ctx echo.Context) error {
	return api.destroy(ctx, api.svc.DeleteVideo, "deleting video")
}

func (api *catalogApi) createScheduleEntry(ctx echo.Context) error {
	var data catalog.NewScheduleEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewScheduleEntry")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	e, err := api.svc.CreateScheduleEntry(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating schedule entry")
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *catalogApi) queryScheduleEntries(ctx echo.Context) error {
	entries, err := api.svc.QueryScheduleEntries(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying schedule entries")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *catalogApi) destroyScheduleEntry(ctx echo.Context) error {
	return api.destroy(ctx, api.svc.DeleteScheduleEntry, "deleting schedule entry")
}

func (api *catalogApi) destroy(ctx echo.Context, del func(context.Context, string) error, wrap string) error {
	if err := del(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, wrap)
	}
	return ctx.NoContent(http.StatusNoContent)
}
