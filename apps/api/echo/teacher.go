package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/davronbek/proteach/core/teacher"
)

type teacherApi struct {
	svc *teacher.Service
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *teacher.Service) {
	api := teacherApi{svc: svc}

	tg := g.Group("/teachers", jwt)
	tg.POST("", api.create)
	tg.GET("", api.query)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data teacher.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	tch, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, tch)
}

func (api *teacherApi) query(ctx echo.Context) error {
	teachers, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	tch, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == teacher.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding teacher by ID")
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *teacherApi) update(ctx echo.Context) error {
	var data teacher.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}

	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == teacher.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding teacher by ID")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	tch, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == teacher.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *teacherApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == teacher.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}
