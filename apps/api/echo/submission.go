package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core/access"
	"github.com/trezcool/kosoa/core/correction"
	"github.com/trezcool/kosoa/core/submission"
	"github.com/trezcool/kosoa/core/user"
)

type submissionApi struct {
	svc    submission.Service
	corSvc correction.Service
	usrSvc user.Service
}

func registerSubmissionAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	guarded *guardedAPI,
	svc submission.Service,
	corSvc correction.Service,
	usrSvc user.Service,
) {
	api := submissionApi{svc: svc, corSvc: corSvc, usrSvc: usrSvc}

	sg := g.Group("/submissions", jwt)
	dg := sg.Group("/:id")
	dg.GET("", api.retrieve, guarded.authorize(access.VerbRead, access.ResourceSubmission, "id"))
	dg.PUT("", api.update, guarded.authorize(access.VerbUpdate, access.ResourceSubmission, "id"))
	dg.DELETE("", api.destroy, guarded.authorize(access.VerbDelete, access.ResourceSubmission, "id"))
	dg.PATCH("/status", api.updateStatus, guarded.authorize(access.VerbUpdate, access.ResourceSubmission, "id"))

	// submission-scoped correction (at most one per submission)
	dg.POST("/correction", api.createCorrection, guarded.authorize(access.VerbCreate, access.ResourceCorrection, "id"))
	dg.GET("/correction", api.retrieveCorrection, guarded.authorize(access.VerbList, access.ResourceCorrection, "id"))
}

// Handlers

func (api *submissionApi) retrieve(ctx echo.Context) error {
	sub, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *submissionApi) update(ctx echo.Context) error {
	sub, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data submission.UpdateSubmission
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubmission")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	sub, err = api.svc.Update(sub, data)
	if err != nil {
		return errors.Wrap(err, "updating submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *submissionApi) updateStatus(ctx echo.Context) error {
	sub, err := api.svc.GetByUID(ctx.Param("id"))
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

	sub, err = api.svc.UpdateStatus(sub, submission.Status(data.Status))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *submissionApi) destroy(ctx echo.Context) error {
	sub, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.svc.Delete(sub.ID); err != nil {
		return errors.Wrap(err, "deleting submission")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Correction

func (api *submissionApi) createCorrection(ctx echo.Context) error {
	sub, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data correction.NewCorrection
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCorrection")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	cor, err := api.corSvc.Create(sub, actor.ID, data)
	if err != nil {
		return err
	}
	setAuditTarget(ctx, cor.UID)

	return ctx.JSON(http.StatusCreated, cor)
}

func (api *submissionApi) retrieveCorrection(ctx echo.Context) error {
	sub, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	cor, err := api.corSvc.GetBySubmissionID(sub.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cor)
}
