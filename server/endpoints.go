package server

import (
	"net/http"
	"time"

	"github.com/dekarrin/tunamud/server/api"
	"github.com/dekarrin/tunamud/server/middle"
	"github.com/dekarrin/tunamud/server/result"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func newRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.StripSlashes)
	r.Mount(api.PathPrefix, newAPIRouter(a))

	return r
}

func newAPIRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount("/login", newLoginRouter(a))
	r.Mount("/commands", newCommandsRouter(a))
	r.Mount("/info", newInfoRouter(a))
	r.Mount("/ws", newWSRouter(a))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		result.NotFound().WriteResponse(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(a.UnauthDelay)
		result.MethodNotAllowed(r).WriteResponse(w)
	})

	return r
}

func newLoginRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Post("/", a.HTTPCreateLogin())

	return r
}

func newCommandsRouter(a api.API) chi.Router {
	reqAuth := middle.RequireAuth(a.Backend.World, a.Secret, a.UnauthDelay)

	r := chi.NewRouter()

	r.Use(reqAuth)

	r.Get("/", a.HTTPGetAllCommands())
	r.Post("/", a.HTTPCreateCommand())

	return r
}

func newInfoRouter(a api.API) chi.Router {
	optAuth := middle.OptionalAuth(a.Backend.World, a.Secret, a.UnauthDelay)

	r := chi.NewRouter()

	r.With(optAuth).Get("/", a.HTTPGetInfo())

	return r
}

func newWSRouter(a api.API) chi.Router {
	reqAuth := middle.RequireAuth(a.Backend.World, a.Secret, a.UnauthDelay)

	r := chi.NewRouter()

	r.With(reqAuth).Get("/", a.HTTPLineSession())

	return r
}
