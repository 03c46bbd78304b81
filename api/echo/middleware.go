package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core/auth"
	"github.com/shulehq/shule/core/role"
	"github.com/shulehq/shule/core/scope"
)

const (
	gatewayHeader       = "X-API-Key"
	bearerPrefix        = "Bearer "
	contextPrincipalKey = "principal"
)

var errPrincipalNotFoundInCtx = errors.New("principal not found in echo.Context")

// gatewayMiddleware checks the shared deployment secret before anything
// else, login and registration included.
func gatewayMiddleware(guard *auth.GatewayGuard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if err := guard.Check(ctx.Request().Header.Get(gatewayHeader)); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

// authMiddleware verifies the bearer token and stores the resulting
// principal on the request context.
func authMiddleware(tokenSvc *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return auth.ErrInvalidToken
			}
			principal, err := tokenSvc.Verify(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				return err
			}
			ctx.Set(contextPrincipalKey, principal)
			return next(ctx)
		}
	}
}

// permissionMiddleware evaluates the page/action permission for the
// authenticated principal; a denial carries the full decision trace.
func permissionMiddleware(evaluator *auth.Evaluator, page string, action role.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			principal, err := getContextPrincipal(ctx)
			if err != nil {
				return err
			}
			dec, err := evaluator.Allow(ctx.Request().Context(), principal, page, action)
			if err != nil {
				return errors.Wrap(err, "evaluating permission")
			}
			if !dec.Allowed {
				return &auth.PermissionError{Decision: dec}
			}
			return next(ctx)
		}
	}
}

// superAdminMiddleware restricts an endpoint to tenant superadmins.
func superAdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			principal, err := getContextPrincipal(ctx)
			if err != nil {
				return err
			}
			if !principal.IsSuperAdmin {
				return &auth.PermissionError{Decision: auth.Decision{
					UserID:   principal.UserID,
					TenantID: principal.TenantID,
					Rule:     auth.RuleActionNotGranted,
				}}
			}
			return next(ctx)
		}
	}
}

// mustKey wraps ids that come from stored records, which are never empty.
func mustKey(tenantID string) scope.TenantKey {
	key, _ := scope.NewKey(tenantID)
	return key
}

func getContextPrincipal(ctx echo.Context) (auth.Principal, error) {
	if p, ok := ctx.Get(contextPrincipalKey).(auth.Principal); ok {
		return p, nil
	}
	return auth.Principal{}, errors.Wrap(errPrincipalNotFoundInCtx, "getting context principal")
}

// contextScope derives the mandatory read predicate for the request.
func contextScope(ctx echo.Context, kind scope.Kind, roles scope.RoleNamer) (scope.Filter, error) {
	principal, err := getContextPrincipal(ctx)
	if err != nil {
		return scope.Filter{}, err
	}
	return scope.BuildFilter(ctx.Request().Context(), principal.Actor(), kind, roles)
}

// contextOwnership stamps write ownership from the principal, rejecting
// payloads that assert a foreign tenant.
func contextOwnership(ctx echo.Context, payloadTenantID, payloadBranchID string) (scope.Ownership, error) {
	principal, err := getContextPrincipal(ctx)
	if err != nil {
		return scope.Ownership{}, err
	}
	return scope.OwnFields(principal.Actor(), payloadTenantID, payloadBranchID)
}
