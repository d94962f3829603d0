package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/davronbek/proteach/core/deduction"
)

// registerDeductionAPI exposes the daily tuition sweep. The sweep is
// idempotent per course per day, so triggering it repeatedly is harmless.
func registerDeductionAPI(g *echo.Group, jwt echo.MiddlewareFunc, engine *deduction.Engine) {
	g.POST("/deductions/run", func(ctx echo.Context) error {
		summary, err := engine.Run(ctx.Request().Context(), time.Now())
		if err != nil {
			return errors.Wrap(err, "running tuition sweep")
		}
		return ctx.JSON(http.StatusOK, summary)
	}, jwt)

	// which courses have already been charged today
	g.GET("/deductions/status", func(ctx echo.Context) error {
		markers, err := engine.Settled(ctx.Request().Context(), time.Now())
		if err != nil {
			return errors.Wrap(err, "listing settled deductions")
		}
		return ctx.JSON(http.StatusOK, markers)
	}, jwt)
}
