package di

import (
	"net/http"
	"slices"
	"strings"

	"github.com/defval/di"
	"github.com/etherlabsio/healthcheck/v2"
	"github.com/gorilla/mux"
	"github.com/spf13/viper"

	. "github.com/gml/skins/internal/http"
	"github.com/gml/skins/internal/textures"
)

var handlersDiOptions = di.Options(
	di.Provide(newHandlerFactory, di.As(new(http.Handler))),
	di.Provide(newSkinsystemHandler, di.WithName(ModuleSkinsystem)),
	di.Provide(newApiHandler, di.WithName(ModuleApi)),
)

func newHandlerFactory(
	container *di.Container,
	config *viper.Viper,
	emitter Emitter,
) (*mux.Router, error) {
	enabledModules := config.GetStringSlice("modules")

	// gorilla.mux has no native way to combine multiple routers.
	// The hack used later in the code works for prefixes in addresses, but leads to misbehavior
	// if you set an empty prefix. Since the main application should be mounted at the root prefix,
	// we use it as the base router
	var router *mux.Router
	if slices.Contains(enabledModules, ModuleSkinsystem) {
		if err := container.Resolve(&router, di.Name(ModuleSkinsystem)); err != nil {
			return nil, err
		}
	} else {
		router = mux.NewRouter()
	}

	router.StrictSlash(true)
	requestIdMiddleware := NewRequestIdMiddleware()
	requestEventsMiddleware := CreateRequestEventsMiddleware(emitter)
	router.Use(requestIdMiddleware, requestEventsMiddleware)
	// NotFoundHandler doesn't call for registered middlewares, so we must wrap it manually.
	// See https://github.com/gorilla/mux/issues/416#issuecomment-600079279
	router.NotFoundHandler = requestIdMiddleware(requestEventsMiddleware(http.HandlerFunc(NotFoundHandler)))

	if slices.Contains(enabledModules, ModuleApi) {
		var apiRouter *mux.Router
		if err := container.Resolve(&apiRouter, di.Name(ModuleApi)); err != nil {
			return nil, err
		}

		mount(router, "/api", apiRouter)
	}

	// Resolve health checkers last, because all the services required by the application
	// must first be initialized and each of them can publish its own checkers
	var healthCheckers []*namedHealthChecker
	if has, _ := container.Has(&healthCheckers); has {
		if err := container.Resolve(&healthCheckers); err != nil {
			return nil, err
		}

		checkersOptions := make([]healthcheck.Option, len(healthCheckers))
		for i, checker := range healthCheckers {
			checkersOptions[i] = healthcheck.WithChecker(checker.Name, checker.Checker)
		}

		router.Handle("/healthcheck", healthcheck.Handler(checkersOptions...)).Methods("GET")
	}

	return router, nil
}

func newSkinsystemHandler(
	config *viper.Viper,
	resolver *textures.Resolver,
	storage texturesStorage,
	emitter Emitter,
) *mux.Router {
	return (&Skinsystem{
		TexturesResolver: resolver,
		TexturesReader:   storage,
		Emitter:          emitter,
		PublicUrl:        config.GetString("server.public_url"),
	}).Handler()
}

func newApiHandler(
	config *viper.Viper,
	resolver *textures.Resolver,
	storage texturesStorage,
	authenticator Authenticator,
	emitter Emitter,
) *mux.Router {
	config.SetDefault("textures.max_upload_size", 1<<20)

	return (&Api{
		TexturesPaths:  resolver,
		TexturesWriter: storage,
		Authenticator:  authenticator,
		Emitter:        emitter,
		MaxUploadSize:  config.GetInt64("textures.max_upload_size"),
	}).Handler()
}

func mount(router *mux.Router, path string, handler http.Handler) {
	router.PathPrefix(path).Handler(
		http.StripPrefix(
			strings.TrimSuffix(path, "/"),
			handler,
		),
	)
}

type namedHealthChecker struct {
	Name    string
	Checker healthcheck.Checker
}
