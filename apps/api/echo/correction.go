package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core/access"
	"github.com/trezcool/kosoa/core/annotation"
	"github.com/trezcool/kosoa/core/correction"
	"github.com/trezcool/kosoa/core/user"
)

type correctionApi struct {
	svc    correction.Service
	annSvc annotation.Service
	usrSvc user.Service
}

func registerCorrectionAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	guarded *guardedAPI,
	svc correction.Service,
	annSvc annotation.Service,
	usrSvc user.Service,
) {
	api := correctionApi{svc: svc, annSvc: annSvc, usrSvc: usrSvc}

	cg := g.Group("/corrections", jwt)
	dg := cg.Group("/:id")
	dg.GET("", api.retrieve, guarded.authorize(access.VerbRead, access.ResourceCorrection, "id"))
	dg.PUT("", api.update, guarded.authorize(access.VerbUpdate, access.ResourceCorrection, "id"))
	dg.DELETE("", api.destroy, guarded.authorize(access.VerbDelete, access.ResourceCorrection, "id"))
	dg.PATCH("/status", api.updateStatus, guarded.authorize(access.VerbUpdate, access.ResourceCorrection, "id"))
	dg.POST("/complete", api.complete, guarded.authorize(access.VerbUpdate, access.ResourceCorrection, "id"))

	// correction-scoped annotations
	dg.POST("/annotations", api.createAnnotation, guarded.authorize(access.VerbCreate, access.ResourceAnnotation, "id"))
	dg.GET("/annotations", api.queryAnnotations, guarded.authorize(access.VerbList, access.ResourceAnnotation, "id"))
}

// Handlers

func (api *correctionApi) retrieve(ctx echo.Context) error {
	cor, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cor)
}

func (api *correctionApi) update(ctx echo.Context) error {
	cor, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data correction.UpdateCorrection
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCorrection")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	cor, err = api.svc.Update(cor, data)
	if err != nil {
		return errors.Wrap(err, "updating correction")
	}
	return ctx.JSON(http.StatusOK, cor)
}

func (api *correctionApi) updateStatus(ctx echo.Context) error {
	cor, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data StatusUpdateRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdateRequest")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	cor, err = api.svc.UpdateStatus(cor, correction.Status(data.Status))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cor)
}

// destroy removes the correction and its annotations; the submission keeps
// its current status.
func (api *correctionApi) destroy(ctx echo.Context) error {
	cor, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.svc.Delete(cor.ID); err != nil {
		return errors.Wrap(err, "deleting correction")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// complete marks the correction completed and flips its submission to
// corrected; completing an already-completed correction is a no-op.
func (api *correctionApi) complete(ctx echo.Context) error {
	cor, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	cor, err = api.svc.Complete(cor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cor)
}

// Annotations

func (api *correctionApi) createAnnotation(ctx echo.Context) error {
	cor, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data annotation.NewAnnotation
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnotation")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	ann, err := api.annSvc.Create(cor.ID, actor.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating annotation")
	}
	setAuditTarget(ctx, ann.UID)

	return ctx.JSON(http.StatusCreated, ann)
}

func (api *correctionApi) queryAnnotations(ctx echo.Context) error {
	cor, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var kinds []annotation.Kind
	if k := ctx.QueryParam("kind"); k != "" {
		kinds = append(kinds, annotation.Kind(k))
	}

	anns, err := api.annSvc.QueryByCorrection(cor.ID, kinds...)
	if err != nil {
		return errors.Wrap(err, "querying annotations")
	}
	if anns == nil {
		anns = []annotation.Annotation{}
	}
	return ctx.JSON(http.StatusOK, anns)
}
