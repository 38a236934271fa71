// Package router dispatches requests through an ordered route table to API
// controllers, page templates or plain handlers.
//
// Match prefers an exact binding over a prefix binding; among prefix bindings the
// longest path wins and equal lengths go to the binding added first. A path without
// a binding fails with a 404 RequestError and an API verb other than
// GET, POST, PUT and DELETE fails with a 501 RequestError.
package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/apperror"
)

// Table is an ordered collection of route bindings.
type Table struct {
	routes []Route
	layout []string
	data   func(c *fiber.Ctx) fiber.Map
}

// New creates an empty table. Pages are rendered within layout when given.
func New(layout ...string) *Table {
	return &Table{layout: layout}
}

// WithPageData sets the function providing the bind data of page routes.
func (t *Table) WithPageData(data func(c *fiber.Ctx) fiber.Map) *Table {
	t.data = data
	return t
}

// Add appends routes to the table.
func (t *Table) Add(routes ...Route) *Table {
	t.routes = append(t.routes, routes...)
	return t
}

// Routes returns the bindings in insertion order.
func (t *Table) Routes() []Route {
	return t.routes
}

// Match returns the binding serving path.
func (t *Table) Match(path string) (*Route, error) {
	path = normalize(path)

	var best *Route

	for i := range t.routes {
		r := &t.routes[i]

		ok, exact := r.matches(path)
		if !ok {
			continue
		}

		if exact {
			return r, nil
		}

		if best == nil || len(r.Path) > len(best.Path) {
			best = r
		}
	}

	if best == nil {
		return nil, apperror.NotFound("no route found for path [%s]", path)
	}

	return best, nil
}

// Dispatch serves the request with the matching binding. Mount it as the last handler.
func (t *Table) Dispatch(c *fiber.Ctx) error {
	r, err := t.Match(c.Path())
	if err != nil {
		return err
	}

	log.Debug().Str("path", c.Path()).Str("route", r.Path).Stringer("kind", r.Kind).Msg("dispatch")

	for _, guard := range r.Guards {
		if err = guard(c); err != nil {
			return err
		}
	}

	switch r.Kind {
	case KindAPI:
		return dispatchAPI(c, r.Controller)
	case KindPage:
		data := fiber.Map{}
		if t.data != nil {
			data = t.data(c)
		}

		return c.Render(r.Template, data, t.layout...)
	default:
		return r.Handler(c)
	}
}

func dispatchAPI(c *fiber.Ctx, ctrl Controller) error {
	switch c.Method() {
	case fiber.MethodGet:
		return ctrl.Get(c)
	case fiber.MethodPost:
		return ctrl.Post(c)
	case fiber.MethodPut:
		return ctrl.Put(c)
	case fiber.MethodDelete:
		return ctrl.Delete(c)
	default:
		return notImplemented(c)
	}
}
