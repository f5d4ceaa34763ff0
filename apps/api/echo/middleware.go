package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core/access"
	"github.com/trezcool/kosoa/core/audit"
	"github.com/trezcool/kosoa/core/user"
)

const (
	contextDecisionKey    = "accessDecision"
	contextAuditTargetKey = "auditTarget"
)

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// guardedAPI wraps routes with authorization checks and records mutating
// decisions (and all admin bypasses) to the audit trail.
type guardedAPI struct {
	usrSvc   user.Service
	guard    *access.Guard
	auditSvc audit.Service
}

// authorize guards a route for (verb, resource). param names the path
// parameter carrying the target's public id; for create/list routes it names
// the parent scope's id, and may be empty for unscoped kinds.
func (g *guardedAPI) authorize(verb access.Verb, res access.Resource, param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			actor, err := getContextUser(ctx, g.usrSvc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}

			var ref string
			if param != "" {
				ref = ctx.Param(param)
			}
			dec, err := g.guard.Authorize(actor, verb, res, ref)
			if err != nil {
				switch errors.Cause(err) {
				case access.ErrNotFound:
					return errHttpNotFound
				case access.ErrForbidden:
					return errHttpForbidden
				}
				return errors.Wrap(err, "authorizing request")
			}
			ctx.Set(contextDecisionKey, dec)

			if err = next(ctx); err != nil {
				return err
			}
			if verb.IsMutating() || dec.AdminBypass {
				g.record(ctx, actor, res, dec, ref)
			}
			return nil
		}
	}
}

func (g *guardedAPI) record(ctx echo.Context, actor user.User, res access.Resource, dec access.Decision, ref string) {
	targetUID := ref
	if uid, ok := ctx.Get(contextAuditTargetKey).(string); ok {
		targetUID = uid
	}

	entry := audit.Entry{
		ActorID:    actor.ID,
		ActorUID:   actor.UID,
		Action:     string(dec.Permission),
		TargetType: res.String(),
		TargetUID:  targetUID,
	}
	if dec.AdminBypass {
		entry.Metadata = map[string]string{"admin_bypass": "true"}
	}
	g.auditSvc.Record(entry)
}

// setAuditTarget lets create handlers expose the new resource's id to the
// audit record; updates and deletes default to the path parameter.
func setAuditTarget(ctx echo.Context, uid string) {
	ctx.Set(contextAuditTargetKey, uid)
}
