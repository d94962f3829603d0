package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/davronbek/proteach/core/schooldata"
)

type schoolDataApi struct {
	hub *schooldata.Hub
}

// registerSchoolDataAPI exposes the live in-memory mirror that backs the
// admin dashboard: one snapshot endpoint plus load-more endpoints for the
// paginated feeds.
func registerSchoolDataAPI(g *echo.Group, jwt echo.MiddlewareFunc, hub *schooldata.Hub) {
	api := schoolDataApi{hub: hub}

	dg := g.Group("/data", jwt)
	dg.GET("/snapshot", api.snapshot)
	dg.POST("/finance/more", api.moreFinance)
	dg.POST("/attendance/more", api.moreAttendance)
	dg.POST("/activities/more", api.moreActivities)
}

func (api *schoolDataApi) snapshot(ctx echo.Context) error {
	if !api.hub.Ready() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "data mirror is still loading")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"students":   api.hub.Students(),
		"teachers":   api.hub.Teachers(),
		"courses":    api.hub.Courses(),
		"subjects":   api.hub.Subjects(),
		"rooms":      api.hub.Rooms(),
		"finance":    api.hub.Finance(),
		"attendance": api.hub.Attendance(),
		"activities": api.hub.Activities(),
		"leads":      api.hub.Leads(),
	})
}

func (api *schoolDataApi) moreFinance(ctx echo.Context) error {
	if err := api.hub.LoadMoreFinance(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "loading more finance")
	}
	return ctx.JSON(http.StatusOK, api.hub.Finance())
}

func (api *schoolDataApi) moreAttendance(ctx echo.Context) error {
	if err := api.hub.LoadMoreAttendance(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "loading more attendance")
	}
	return ctx.JSON(http.StatusOK, api.hub.Attendance())
}

func (api *schoolDataApi) moreActivities(ctx echo.Context) error {
	if err := api.hub.LoadMoreActivities(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "loading more activities")
	}
	return ctx.JSON(http.StatusOK, api.hub.Activities())
}
