package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/apperror"
)

// Kind is the kind of a route binding.
type Kind int

const (
	// KindAPI binds a path prefix to a Controller.
	KindAPI Kind = iota
	// KindPage binds a path to a template.
	KindPage
	// KindCallable binds a path to a fiber.Handler.
	KindCallable
)

func (k Kind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindPage:
		return "page"
	case KindCallable:
		return "callable"
	default:
		return "unknown"
	}
}

// Guard runs before the bound handler; a non-nil error ends the request.
type Guard func(c *fiber.Ctx) error

// Controller handles the four verbs of an API route.
type Controller interface {
	Get(c *fiber.Ctx) error
	Post(c *fiber.Ctx) error
	Put(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
}

// Unsupported answers every verb with 501. Embed it to implement only some verbs.
type Unsupported struct{}

func (Unsupported) Get(c *fiber.Ctx) error    { return notImplemented(c) }
func (Unsupported) Post(c *fiber.Ctx) error   { return notImplemented(c) }
func (Unsupported) Put(c *fiber.Ctx) error    { return notImplemented(c) }
func (Unsupported) Delete(c *fiber.Ctx) error { return notImplemented(c) }

func notImplemented(c *fiber.Ctx) error {
	return apperror.NotImplemented("method [%s] is not supported on [%s]", c.Method(), c.Path())
}

// Route is one binding of the route table.
type Route struct {
	Path       string
	Kind       Kind
	Controller Controller
	Template   string
	Handler    fiber.Handler
	Guards     []Guard
}

// APIRoute binds the path prefix to ctrl.
func APIRoute(path string, ctrl Controller, guards ...Guard) Route {
	return Route{Path: normalize(path), Kind: KindAPI, Controller: ctrl, Guards: guards}
}

// PageRoute binds the path to a template.
func PageRoute(path, template string, guards ...Guard) Route {
	return Route{Path: normalize(path), Kind: KindPage, Template: template, Guards: guards}
}

// CallableRoute binds the path to h.
func CallableRoute(path string, h fiber.Handler, guards ...Guard) Route {
	return Route{Path: normalize(path), Kind: KindCallable, Handler: h, Guards: guards}
}

// matches reports whether the route serves path and whether it did so exactly.
// Only API routes match by prefix, and only on a segment boundary.
func (r *Route) matches(path string) (ok, exact bool) {
	if path == r.Path {
		return true, true
	}

	if r.Kind != KindAPI {
		return false, false
	}

	if r.Path == "/" {
		return true, false
	}

	if len(path) > len(r.Path) && path[:len(r.Path)] == r.Path && path[len(r.Path)] == '/' {
		return true, false
	}

	return false, false
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}

	if path[0] != '/' {
		path = "/" + path
	}

	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	return path
}
