package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core"
	"github.com/trezcool/kosoa/core/access"
	"github.com/trezcool/kosoa/core/membership"
	"github.com/trezcool/kosoa/core/submission"
	"github.com/trezcool/kosoa/core/task"
	"github.com/trezcool/kosoa/core/taskresource"
	"github.com/trezcool/kosoa/core/user"
)

type taskApi struct {
	svc    task.Service
	trSvc  taskresource.Service
	subSvc submission.Service
	usrSvc user.Service
}

func registerTaskAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	guarded *guardedAPI,
	svc task.Service,
	trSvc taskresource.Service,
	subSvc submission.Service,
	usrSvc user.Service,
) {
	api := taskApi{svc: svc, trSvc: trSvc, subSvc: subSvc, usrSvc: usrSvc}

	tg := g.Group("/tasks", jwt)
	dg := tg.Group("/:id")
	dg.GET("", api.retrieve, guarded.authorize(access.VerbRead, access.ResourceTask, "id"))
	dg.PUT("", api.update, guarded.authorize(access.VerbUpdate, access.ResourceTask, "id"))
	dg.DELETE("", api.destroy, guarded.authorize(access.VerbDelete, access.ResourceTask, "id"))
	dg.PATCH("/status", api.updateStatus, guarded.authorize(access.VerbUpdate, access.ResourceTask, "id"))

	// task-scoped collections
	dg.POST("/resources", api.createResource, guarded.authorize(access.VerbCreate, access.ResourceTaskResource, "id"))
	dg.GET("/resources", api.queryResources, guarded.authorize(access.VerbList, access.ResourceTaskResource, "id"))
	dg.POST("/submissions", api.createSubmission, guarded.authorize(access.VerbCreate, access.ResourceSubmission, "id"))
	dg.GET("/submissions", api.querySubmissions, guarded.authorize(access.VerbList, access.ResourceSubmission, "id"))

	// task-resource detail endpoints
	rg := g.Group("/task-resources", jwt)
	rg.GET("/:id", api.retrieveResource, guarded.authorize(access.VerbRead, access.ResourceTaskResource, "id"))
	rg.PUT("/:id", api.updateResource, guarded.authorize(access.VerbUpdate, access.ResourceTaskResource, "id"))
	rg.DELETE("/:id", api.destroyResource, guarded.authorize(access.VerbDelete, access.ResourceTaskResource, "id"))
}

// StatusUpdateRequest carries a workflow status change for any of the
// status-bearing resources.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

func (r *StatusUpdateRequest) Validate() error {
	r.Status = core.CleanString(r.Status, true /* lower */)
	return core.Validate.Struct(r)
}

// Handlers

func (api *taskApi) retrieve(ctx echo.Context) error {
	t, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *taskApi) update(ctx echo.Context) error {
	t, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data task.UpdateTask
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTask")
	}
	if err = data.Validate(t); err != nil {
		return err
	}

	t, err = api.svc.Update(t, data)
	if err != nil {
		return errors.Wrap(err, "updating task")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *taskApi) updateStatus(ctx echo.Context) error {
	t, err := api.svc.GetByUID(ctx.Param("id"))
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

	t, err = api.svc.UpdateStatus(t, task.Status(data.Status))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *taskApi) destroy(ctx echo.Context) error {
	t, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.svc.Delete(t.ID); err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Resources

func (api *taskApi) createResource(ctx echo.Context) error {
	t, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data taskresource.NewTaskResource
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTaskResource")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	tr, err := api.trSvc.Create(t.ID, actor.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating task resource")
	}
	setAuditTarget(ctx, tr.UID)

	return ctx.JSON(http.StatusCreated, tr)
}

func (api *taskApi) queryResources(ctx echo.Context) error {
	t, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	trs, err := api.trSvc.QueryByTask(t.ID)
	if err != nil {
		return errors.Wrap(err, "querying task resources")
	}
	if trs == nil {
		trs = []taskresource.TaskResource{}
	}
	return ctx.JSON(http.StatusOK, trs)
}

func (api *taskApi) retrieveResource(ctx echo.Context) error {
	tr, err := api.trSvc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tr)
}

func (api *taskApi) updateResource(ctx echo.Context) error {
	tr, err := api.trSvc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data taskresource.UpdateTaskResource
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTaskResource")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	tr, err = api.trSvc.Update(tr, data)
	if err != nil {
		return errors.Wrap(err, "updating task resource")
	}
	return ctx.JSON(http.StatusOK, tr)
}

func (api *taskApi) destroyResource(ctx echo.Context) error {
	tr, err := api.trSvc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.trSvc.Delete(tr.ID); err != nil {
		return errors.Wrap(err, "deleting task resource")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Submissions

func (api *taskApi) createSubmission(ctx echo.Context) error {
	t, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data submission.NewSubmission
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	sub, err := api.subSvc.Create(t.ID, actor.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating submission")
	}
	setAuditTarget(ctx, sub.UID)

	return ctx.JSON(http.StatusCreated, sub)
}

func (api *taskApi) querySubmissions(ctx echo.Context) error {
	t, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	subs, err := api.subSvc.QueryByTask(t.ID)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}

	// students only see their own submissions
	if dec, ok := ctx.Get(contextDecisionKey).(access.Decision); ok {
		if dec.ClassRole == membership.RoleStudent {
			actor, err := getContextUser(ctx, api.usrSvc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			own := make([]submission.Submission, 0, 1)
			for _, sub := range subs {
				if sub.StudentID == actor.ID {
					own = append(own, sub)
				}
			}
			subs = own
		}
	}
	if subs == nil {
		subs = []submission.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}
