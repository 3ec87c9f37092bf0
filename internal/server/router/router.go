package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Registry collects route groups until they are mounted on an engine.
type Registry struct {
	groups []*GroupRouter
}

func NewRegistry() *Registry {
	return &Registry{}
}

// GroupRouter is a set of routes sharing a path prefix and middlewares.
type GroupRouter struct {
	Path        string
	Routes      []*Route
	Middlewares []gin.HandlerFunc
}

// NewGroupRouter creates a group and adds it to the registry.
func (r *Registry) NewGroupRouter(path string) *GroupRouter {
	g := &GroupRouter{
		Path:   path,
		Routes: make([]*Route, 0),
	}
	r.groups = append(r.groups, g)
	return g
}

func (g *GroupRouter) Use(middlewares ...gin.HandlerFunc) *GroupRouter {
	g.Middlewares = append(g.Middlewares, middlewares...)
	return g
}

func (g *GroupRouter) AddRoute(route *Route) *GroupRouter {
	g.Routes = append(g.Routes, route)
	return g
}

// Route is a single endpoint with its own middlewares and handlers.
type Route struct {
	Path        string
	Method      string
	Handlers    []gin.HandlerFunc
	Middlewares []gin.HandlerFunc
}

func NewRoute(path string, method string) *Route {
	return &Route{
		Path:     path,
		Method:   method,
		Handlers: make([]gin.HandlerFunc, 0),
	}
}

func (r *Route) Handle(handlers ...gin.HandlerFunc) *Route {
	r.Handlers = append(r.Handlers, handlers...)
	return r
}

func (r *Route) Use(middlewares ...gin.HandlerFunc) *Route {
	r.Middlewares = append(r.Middlewares, middlewares...)
	return r
}

func (r *Route) Validate() error {
	if len(r.Handlers) == 0 {
		return fmt.Errorf("route %s %s must have at least one handler", r.Method, r.Path)
	}
	switch r.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete,
		http.MethodHead, http.MethodOptions, http.MethodPatch:
		return nil
	}
	return fmt.Errorf("route %s has unsupported method %q", r.Path, r.Method)
}

// RouteCount returns the number of routes across all groups.
func (r *Registry) RouteCount() int {
	count := 0
	for _, g := range r.groups {
		count += len(g.Routes)
	}
	return count
}

// RegisterAll validates every route, then mounts all groups on the engine.
func (r *Registry) RegisterAll(engine *gin.Engine) error {
	for _, g := range r.groups {
		for _, route := range g.Routes {
			if err := route.Validate(); err != nil {
				return fmt.Errorf("invalid route in group %s: %w", g.Path, err)
			}
		}
	}
	for _, g := range r.groups {
		group := engine.Group(g.Path, g.Middlewares...)
		for _, route := range g.Routes {
			handlers := make([]gin.HandlerFunc, 0, len(route.Middlewares)+len(route.Handlers))
			handlers = append(handlers, route.Middlewares...)
			handlers = append(handlers, route.Handlers...)

			path := route.Path
			if path != "" && !strings.HasPrefix(path, "/") {
				path = "/" + path
			}
			group.Handle(route.Method, path, handlers...)
		}
	}
	return nil
}
