// Package router declares the HTTP route table and registers it on echo.
// Every route is listed explicitly with its role requirement so the access
// rules of the API can be read in one place.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/realestate-listing/internal/handler"
	"github.com/iliyamo/realestate-listing/internal/middleware"
	"github.com/iliyamo/realestate-listing/internal/model"
)

// Route is one endpoint.  Roles left at its zero value inherit the
// controller default.
type Route struct {
	Method     string
	Path       string
	Handler    echo.HandlerFunc
	Roles      middleware.RoleRequirement
	Middleware []echo.MiddlewareFunc
}

// Controller groups routes under a prefix with a default requirement.
type Controller struct {
	Prefix string
	Roles  middleware.RoleRequirement
	Routes []Route
}

// Register adds every route of table to e.  The gate runs after the route's
// own middleware so rate limiting and caching see the request first.
//
// Routes are added one by one instead of through echo groups: group
// middleware would also wrap the group's 404/405 handlers.
func Register(e *echo.Echo, gate *middleware.Gate, table []Controller) {
	for _, ctrl := range table {
		for _, r := range ctrl.Routes {
			req := middleware.ResolveRequirement(r.Roles, ctrl.Roles)
			mws := make([]echo.MiddlewareFunc, 0, len(r.Middleware)+1)
			mws = append(mws, r.Middleware...)
			mws = append(mws, gate.Require(req))
			e.Add(r.Method, ctrl.Prefix+r.Path, r.Handler, mws...)
		}
	}
}

// AuthController covers signup, signin and the identity endpoints.  Any
// signed-in role may call routes that do not say otherwise.
func AuthController(a *handler.AuthHandler, limiter echo.MiddlewareFunc) Controller {
	var limit []echo.MiddlewareFunc
	if limiter != nil {
		limit = []echo.MiddlewareFunc{limiter}
	}
	return Controller{
		Prefix: "/v1/auth",
		Roles:  middleware.Roles(model.RoleBuyer, model.RoleRealtor, model.RoleAdmin),
		Routes: []Route{
			{Method: echo.POST, Path: "/signup/:userType", Handler: a.Signup, Roles: middleware.Roles(), Middleware: limit},
			{Method: echo.POST, Path: "/signin", Handler: a.Signin, Roles: middleware.Roles(), Middleware: limit},
			{Method: echo.POST, Path: "/key", Handler: a.ProductKey, Roles: middleware.Roles(model.RoleAdmin)},
			{Method: echo.GET, Path: "/me", Handler: a.Me},
		},
	}
}

// HomesController covers listings and inquiries.  It has no default, so
// every route declares its own requirement.
func HomesController(h *handler.HomeHandler, cache echo.MiddlewareFunc) Controller {
	var cached []echo.MiddlewareFunc
	if cache != nil {
		cached = []echo.MiddlewareFunc{cache}
	}
	realtor := middleware.Roles(model.RoleRealtor)
	return Controller{
		Prefix: "/v1/homes",
		Routes: []Route{
			{Method: echo.GET, Path: "", Handler: h.List, Roles: middleware.Roles(), Middleware: cached},
			{Method: echo.GET, Path: "/:id", Handler: h.Get, Roles: middleware.Roles(), Middleware: cached},
			{Method: echo.POST, Path: "", Handler: h.Create, Roles: realtor},
			{Method: echo.PUT, Path: "/:id", Handler: h.Update, Roles: realtor},
			{Method: echo.DELETE, Path: "/:id", Handler: h.Delete, Roles: realtor},
			{Method: echo.POST, Path: "/:id/inquire", Handler: h.Inquire, Roles: middleware.Roles(model.RoleBuyer)},
			{Method: echo.GET, Path: "/:id/messages", Handler: h.ListMessages, Roles: realtor},
		},
	}
}

// HealthController exposes the liveness probe.
func HealthController(db handler.Pinger) Controller {
	return Controller{
		Routes: []Route{
			{Method: echo.GET, Path: "/healthz", Handler: handler.Health(db), Roles: middleware.Roles()},
		},
	}
}
