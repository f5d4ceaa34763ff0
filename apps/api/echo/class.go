package echoapi

import (
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core"
	"github.com/trezcool/kosoa/core/access"
	"github.com/trezcool/kosoa/core/class"
	"github.com/trezcool/kosoa/core/membership"
	"github.com/trezcool/kosoa/core/task"
	"github.com/trezcool/kosoa/core/user"
)

type classApi struct {
	svc     class.Service
	mbSvc   membership.Service
	taskSvc task.Service
	usrSvc  user.Service
	mailSvc core.EmailService
}

func registerClassAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	guarded *guardedAPI,
	svc class.Service,
	mbSvc membership.Service,
	taskSvc task.Service,
	usrSvc user.Service,
	mailSvc core.EmailService,
) {
	api := classApi{svc: svc, mbSvc: mbSvc, taskSvc: taskSvc, usrSvc: usrSvc, mailSvc: mailSvc}

	cg := g.Group("/classes", jwt)
	cg.POST("", api.create, guarded.authorize(access.VerbCreate, access.ResourceClass, ""))
	cg.GET("", api.query, guarded.authorize(access.VerbList, access.ResourceClass, ""))

	dg := cg.Group("/:id")
	dg.GET("", api.retrieve, guarded.authorize(access.VerbRead, access.ResourceClass, "id"))
	dg.PUT("", api.update, guarded.authorize(access.VerbUpdate, access.ResourceClass, "id"))
	dg.DELETE("", api.destroy, guarded.authorize(access.VerbDelete, access.ResourceClass, "id"))

	// class-scoped collections
	dg.POST("/memberships", api.addMember, guarded.authorize(access.VerbCreate, access.ResourceMembership, "id"))
	dg.GET("/memberships", api.queryMembers, guarded.authorize(access.VerbList, access.ResourceMembership, "id"))
	dg.POST("/tasks", api.createTask, guarded.authorize(access.VerbCreate, access.ResourceTask, "id"))
	dg.GET("/tasks", api.queryTasks, guarded.authorize(access.VerbList, access.ResourceTask, "id"))

	// membership detail endpoints
	mg := g.Group("/memberships", jwt)
	mg.GET("/:id", api.retrieveMember, guarded.authorize(access.VerbRead, access.ResourceMembership, "id"))
	mg.PUT("/:id", api.updateMember, guarded.authorize(access.VerbUpdate, access.ResourceMembership, "id"))
	mg.DELETE("/:id", api.removeMember, guarded.authorize(access.VerbDelete, access.ResourceMembership, "id"))
}

// Handlers

func (api *classApi) create(ctx echo.Context) error {
	var data class.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	cls, err := api.svc.Create(actor, data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	setAuditTarget(ctx, cls.UID)

	return ctx.JSON(http.StatusCreated, cls)
}

func (api *classApi) query(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var classes []class.Class
	if actor.IsAdmin() {
		classes, err = api.svc.QueryAll()
	} else {
		classes, err = api.svc.QueryForMember(actor.ID)
	}
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []class.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	cls, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) update(ctx echo.Context) error {
	cls, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data class.UpdateClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	if err = data.Validate(cls); err != nil {
		return err
	}

	cls, err = api.svc.Update(cls, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) destroy(ctx echo.Context) error {
	cls, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.svc.Delete(cls.ID); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Memberships

type AddMemberRequest struct {
	UserID string          `json:"user_id" validate:"required"`
	Role   membership.Role `json:"role" validate:"required,oneof=teacher student"`
}

func (r *AddMemberRequest) Validate() error {
	return core.Validate.Struct(r)
}

func (api *classApi) addMember(ctx echo.Context) error {
	cls, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data AddMemberRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddMemberRequest")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	usr, err := api.usrSvc.GetByUID(data.UserID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return core.NewValidationError(nil, core.FieldError{Field: "user_id", Error: "user not found"})
		}
		return errors.Wrap(err, "finding user by id")
	}

	nm := membership.NewMembership{UserID: usr.ID, ClassID: cls.ID, Role: data.Role}
	if err = nm.Validate(); err != nil {
		return err
	}
	mb, err := api.mbSvc.Create(nm)
	if err != nil {
		return err
	}
	setAuditTarget(ctx, mb.UID)

	api.sendInviteEmail(usr, cls)
	return ctx.JSON(http.StatusCreated, mb)
}

func (api *classApi) sendInviteEmail(usr user.User, cls class.Class) {
	if usr.Email == "" {
		return
	}
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "You have been invited to join " + cls.Name,
		TemplateName: "class-invite",
		TemplateData: struct{ Name, ClassName string }{usr.Name, cls.Name},
		BodyStr:      "Hi " + usr.Name + ", you have been invited to join the class " + cls.Name + ".",
	}
	api.mailSvc.SendMessages(msg)
}

func (api *classApi) queryMembers(ctx echo.Context) error {
	cls, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	mbs, err := api.mbSvc.QueryByClass(cls.ID)
	if err != nil {
		return errors.Wrap(err, "querying memberships")
	}
	if mbs == nil {
		mbs = []membership.Membership{}
	}
	return ctx.JSON(http.StatusOK, mbs)
}

func (api *classApi) retrieveMember(ctx echo.Context) error {
	mb, err := api.mbSvc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mb)
}

func (api *classApi) updateMember(ctx echo.Context) error {
	mb, err := api.mbSvc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data membership.UpdateMembership
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMembership")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	mb, err = api.mbSvc.Update(mb, data)
	if err != nil {
		return errors.Wrap(err, "updating membership")
	}
	return ctx.JSON(http.StatusOK, mb)
}

// removeMember deactivates the membership; the row is kept for history and
// the user loses class access on their next request.
func (api *classApi) removeMember(ctx echo.Context) error {
	mb, err := api.mbSvc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	if _, err = api.mbSvc.Remove(mb); err != nil {
		return errors.Wrap(err, "removing membership")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Tasks

func (api *classApi) createTask(ctx echo.Context) error {
	cls, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data task.NewTask
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	t, err := api.taskSvc.Create(cls.ID, actor.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	setAuditTarget(ctx, t.UID)

	return ctx.JSON(http.StatusCreated, t)
}

func (api *classApi) queryTasks(ctx echo.Context) error {
	cls, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	tasks, err := api.taskSvc.QueryByClass(cls.ID)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}

	// students only see published tasks
	if dec, ok := ctx.Get(contextDecisionKey).(access.Decision); ok {
		if dec.ClassRole == membership.RoleStudent {
			published := make([]task.Task, 0, len(tasks))
			for _, t := range tasks {
				if t.IsPublished() {
					published = append(published, t)
				}
			}
			tasks = published
		}
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return ctx.JSON(http.StatusOK, tasks)
}
