package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core/access"
	"github.com/trezcool/kosoa/core/annotation"
)

type annotationApi struct {
	svc annotation.Service
}

func registerAnnotationAPI(g *echo.Group, jwt echo.MiddlewareFunc, guarded *guardedAPI, svc annotation.Service) {
	api := annotationApi{svc: svc}

	ag := g.Group("/annotations", jwt)
	dg := ag.Group("/:id")
	dg.GET("", api.retrieve, guarded.authorize(access.VerbRead, access.ResourceAnnotation, "id"))
	dg.PUT("", api.update, guarded.authorize(access.VerbUpdate, access.ResourceAnnotation, "id"))
	dg.DELETE("", api.destroy, guarded.authorize(access.VerbDelete, access.ResourceAnnotation, "id"))
}

// Handlers

func (api *annotationApi) retrieve(ctx echo.Context) error {
	ann, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ann)
}

func (api *annotationApi) update(ctx echo.Context) error {
	ann, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data annotation.UpdateAnnotation
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAnnotation")
	}
	if err = data.Validate(ann); err != nil {
		return err
	}

	ann, err = api.svc.Update(ann, data)
	if err != nil {
		return errors.Wrap(err, "updating annotation")
	}
	return ctx.JSON(http.StatusOK, ann)
}

func (api *annotationApi) destroy(ctx echo.Context) error {
	ann, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ann.ID); err != nil {
		return errors.Wrap(err, "deleting annotation")
	}
	return ctx.NoContent(http.StatusNoContent)
}
