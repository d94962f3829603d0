package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/davronbek/proteach/core/stats"
)

func registerStatsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *stats.Service) {
	g.GET("/stats", func(ctx echo.Context) error {
		s, err := svc.Get(ctx.Request().Context())
		if err != nil {
			return errors.Wrap(err, "getting stats")
		}
		return ctx.JSON(http.StatusOK, s)
	}, jwt)
}
