package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/km-arc/go-state/framework/app"
	gohttp "github.com/km-arc/go-state/framework/http"
	"github.com/km-arc/go-state/framework/providers"
	"github.com/km-arc/go-state/framework/routing"
	"github.com/km-arc/go-state/framework/state"
	"github.com/km-arc/go-state/statecontainers"
)

func main() {
	application := newApplication()

	if err := application.Run(); err != nil {
		application.Logger().Error("server error", "error", err)
		os.Exit(1)
	}
}

// newApplication wires the state containers and routes.
func newApplication(envFiles ...string) *app.Application {
	application := app.New(envFiles...) // loads .env automatically
	application.Register(&providers.StateServiceProvider{Unit: statecontainers.Unit})

	application.Router().Group(routes(application))
	return application
}

func routes(application *app.Application) func(r *routing.Router) {
	return func(r *routing.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			gohttp.NewResponse(w).Success(map[string]any{
				"message": "Welcome to Go-State!",
				"env":     application.Environment(),
				"debug":   application.IsDebug(),
			})
		})

		r.Get("/state/{name}", stateInfo)
		counterRoutes(r)
		profileRoutes(r)
	}
}

// stateInfo reports how the state container whose type name matches {name}
// is registered.
func stateInfo(w http.ResponseWriter, req *http.Request) {
	request := gohttp.NewRequest(req)
	res := gohttp.NewResponse(w)

	scope, ok := request.Scope()
	if !ok {
		res.NotFound()
		return
	}
	name := request.RouteParam("name")
	for _, key := range scope.Root().TaggedKeys(state.Tag) {
		typeName := key[strings.LastIndex(key, ".")+1:]
		if !strings.EqualFold(typeName, name) {
			continue
		}
		lifetime, _ := scope.Root().LifetimeOf(key)
		res.Success(map[string]any{"key": key, "lifetime": lifetime.String()})
		return
	}
	res.NotFound("Unknown state container.")
}

// ── Counter ──────────────────────────────────────────────────────────────────

func counterRoutes(r *routing.Router) {
	r.Prefix("/counter", func(r *routing.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			counter := gohttp.Resolve[*statecontainers.Counter](gohttp.NewRequest(req), statecontainers.CounterKey)
			gohttp.NewResponse(w).Success(map[string]any{"count": counter.Count()})
		})

		r.Put("/", func(w http.ResponseWriter, req *http.Request) {
			request := gohttp.NewRequest(req)
			res := gohttp.NewResponse(w)

			var body struct {
				Count *int `json:"count" validate:"required,gte=0"`
			}
			if err := request.Bind(&body); err != nil {
				res.BindError(err)
				return
			}

			counter := gohttp.Resolve[*statecontainers.Counter](request, statecontainers.CounterKey)
			changes := 0
			sub := counter.Subscribe(func() { changes++ })
			defer sub.Dispose()

			counter.SetCount(*body.Count)
			res.Success(map[string]any{"count": counter.Count(), "changed": changes > 0})
		})

		r.Post("/increment", func(w http.ResponseWriter, req *http.Request) {
			counter := gohttp.Resolve[*statecontainers.Counter](gohttp.NewRequest(req), statecontainers.CounterKey)
			gohttp.NewResponse(w).Success(map[string]any{"count": counter.Increment()})
		})
	})
}

// ── Profile ──────────────────────────────────────────────────────────────────

func profileRoutes(r *routing.Router) {
	r.Prefix("/profile", func(r *routing.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			profile := gohttp.Resolve[*statecontainers.Profile](gohttp.NewRequest(req), statecontainers.ProfileKey)
			gohttp.NewResponse(w).Success(profileView(profile))
		})

		r.Put("/", func(w http.ResponseWriter, req *http.Request) {
			request := gohttp.NewRequest(req)
			res := gohttp.NewResponse(w)

			var body struct {
				Name  string   `json:"name" validate:"required,max=100"`
				Theme string   `json:"theme" validate:"omitempty,oneof=light dark LIGHT DARK"`
				Tags  []string `json:"tags" validate:"max=10,dive,min=1"`
			}
			if err := request.Bind(&body); err != nil {
				res.BindError(err)
				return
			}

			profile := gohttp.Resolve[*statecontainers.Profile](request, statecontainers.ProfileKey)
			profile.SetName(body.Name)
			if body.Theme != "" {
				profile.SetTheme(body.Theme)
			}
			profile.SetTags(body.Tags)
			res.Success(profileView(profile))
		})
	})
}

func profileView(p *statecontainers.Profile) map[string]any {
	return map[string]any{"name": p.Name(), "theme": p.Theme(), "tags": p.Tags()}
}
