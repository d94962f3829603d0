package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/davronbek/proteach/core/finance"
)

type financeApi struct {
	svc *finance.Service
}

func registerFinanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *finance.Service) {
	api := financeApi{svc: svc}

	fg := g.Group("/finance", jwt)
	fg.POST("", api.create)
	fg.GET("", api.query)
	fg.DELETE("/:id", api.destroy)
}

func (api *financeApi) create(ctx echo.Context) error {
	var data finance.NewTransaction
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTransaction")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	txn, err := api.svc.Add(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding transaction")
	}
	return ctx.JSON(http.StatusCreated, txn)
}

func (api *financeApi) query(ctx echo.Context) error {
	var page FeedPage
	if err := page.Bind(ctx); err != nil {
		return err
	}

	txns, err := api.svc.Query(ctx.Request().Context(), page.After, page.Limit)
	if err != nil {
		return errors.Wrap(err, "querying transactions")
	}
	return ctx.JSON(http.StatusOK, txns)
}

// destroy removes the transaction and rolls its amount out of total revenue
// in the same commit.
func (api *financeApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == finance.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting transaction")
	}
	return ctx.NoContent(http.StatusNoContent)
}
