package di

import (
	"fmt"
	"net/http"
	"time"

	"github.com/defval/di"
	"github.com/getsentry/raven-go"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serverDiOptions = di.Options(
	di.Provide(newServer),
)

type serverParams struct {
	di.Inject

	Config  *viper.Viper  `di:""`
	Handler http.Handler  `di:""`
	Logger  *zap.Logger   `di:""`
	Sentry  *raven.Client `di:"" optional:"true"`
}

func newServer(params serverParams) *http.Server {
	params.Config.SetDefault("server.host", "")
	params.Config.SetDefault("server.port", 80)

	var handler http.Handler
	if params.Sentry != nil {
		// raven.Recoverer uses DefaultClient and nothing can be done about it.
		// newSentry replaces DefaultClient, so the Recoverer works with the configured instance
		handler = raven.Recoverer(params.Handler)
	} else {
		// Without a panic handler mux will just reset the connection
		handler = http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					params.Logger.Error("Panic during the request handling",
						zap.Any("panic", recovered),
						zap.String("path", request.URL.Path),
						zap.Stack("stacktrace"),
					)
					response.WriteHeader(http.StatusInternalServerError)
				}
			}()

			params.Handler.ServeHTTP(response, request)
		})
	}

	address := fmt.Sprintf("%s:%d", params.Config.GetString("server.host"), params.Config.GetInt("server.port"))
	server := &http.Server{
		Addr:           address,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
		Handler:        handler,
	}

	return server
}
