package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core"
	"github.com/trezcool/kosoa/core/access"
	"github.com/trezcool/kosoa/core/audit"
)

type auditApi struct {
	svc audit.Service
}

func registerAuditAPI(g *echo.Group, jwt echo.MiddlewareFunc, guarded *guardedAPI, svc audit.Service) {
	api := auditApi{svc: svc}

	// only admins pass the guard for audit logs
	ag := g.Group("/audit-logs", jwt)
	ag.GET("", api.query, guarded.authorize(access.VerbList, access.ResourceAuditLog, ""))
	ag.GET("/:id", api.retrieve, guarded.authorize(access.VerbRead, access.ResourceAuditLog, ""))
}

// Handlers

func (api *auditApi) query(ctx echo.Context) error {
	filter := audit.QueryFilter{
		Action:     core.CleanString(ctx.QueryParam("action"), true /* lower */),
		TargetType: core.CleanString(ctx.QueryParam("target_type"), true /* lower */),
	}
	if since := ctx.QueryParam("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "since", Error: "must be a valid RFC3339 timestamp"})
		}
		filter.Since = t
	}
	if until := ctx.QueryParam("until"); until != "" {
		t, err := time.Parse(time.RFC3339, until)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "until", Error: "must be a valid RFC3339 timestamp"})
		}
		filter.Until = t
	}

	entries, err := api.svc.Filter(filter)
	if err != nil {
		return errors.Wrap(err, "querying audit entries")
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *auditApi) retrieve(ctx echo.Context) error {
	entry, err := api.svc.GetByUID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, entry)
}
