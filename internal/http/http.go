package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gml/skins/internal/dispatcher"
	"github.com/gml/skins/internal/security"
)

type Emitter interface {
	Emit(topic string, args ...any)
}

func StartServer(ctx context.Context, server *http.Server, logger *zap.Logger) {
	srvErr := make(chan error, 1)
	go func() {
		logger.Info("Starting the server", zap.String("addr", server.Addr))
		srvErr <- server.ListenAndServe()
		close(srvErr)
	}()

	select {
	case err := <-srvErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Error in the server", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("Got stop signal, starting graceful shutdown")

		stopCtx, cancelFunc := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancelFunc()

		_ = server.Shutdown(stopCtx)

		logger.Info("Graceful shutdown succeed, exiting")
	}
}

func CreateRequestEventsMiddleware(emitter Emitter) mux.MiddlewareFunc {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
			emitter.Emit(dispatcher.TopicBeforeRequest, req)

			writer := &loggingResponseWriter{
				ResponseWriter: resp,
				Status:         http.StatusOK,
			}
			handler.ServeHTTP(writer, req)

			emitter.Emit(dispatcher.TopicAfterRequest, req, writer.Status)
		})
	}
}

const requestIdHeader = "X-Request-Id"

// NewRequestIdMiddleware keeps the request id passed by a proxy or generates a new one
func NewRequestIdMiddleware() mux.MiddlewareFunc {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
			requestId := req.Header.Get(requestIdHeader)
			if requestId == "" {
				requestId = uuid.NewString()
				req.Header.Set(requestIdHeader, requestId)
			}

			resp.Header().Set(requestIdHeader, requestId)
			handler.ServeHTTP(resp, req)
		})
	}
}

type Authenticator interface {
	Authenticate(req *http.Request, scope security.Scope) (*security.Grant, error)
}

func NewAuthenticationMiddleware(authenticator Authenticator, emitter Emitter, scope security.Scope) mux.MiddlewareFunc {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
			grant, err := authenticator.Authenticate(req, scope)
			if err != nil {
				emitter.Emit(dispatcher.TopicAuthenticationError, err)
				apiForbidden(resp, err.Error())
				return
			}

			emitter.Emit(dispatcher.TopicAuthenticationSuccess)
			handler.ServeHTTP(resp, req.WithContext(security.WithGrant(req.Context(), grant)))
		})
	}
}

func NotFoundHandler(response http.ResponseWriter, _ *http.Request) {
	data, _ := json.Marshal(map[string]string{
		"status":  "404",
		"message": "Not Found",
	})

	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(http.StatusNotFound)
	_, _ = response.Write(data)
}

var usernameValidator = createUsernameValidator()

func createUsernameValidator() *validator.Validate {
	validate := validator.New()

	regexUsername := regexp.MustCompile(`^[-\w.!$%^&*()\[\]:;]+$`)
	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return regexUsername.MatchString(fl.Field().String())
	})

	return validate
}

// parseUsername trims the optional .png suffix and returns the list of validation errors
func parseUsername(username string) (string, []string) {
	username = strings.TrimSuffix(username, ".png")
	err := usernameValidator.Var(username, "required,max=32,username")
	if err == nil {
		return username, nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return username, []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, "username is a required field")
		case "max":
			messages = append(messages, "username must be a maximum of 32 in length")
		default:
			messages = append(messages, "username must be a valid username")
		}
	}

	return username, messages
}

func apiBadRequest(resp http.ResponseWriter, errorsPerField map[string][]string) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(http.StatusBadRequest)
	result, _ := json.Marshal(map[string]any{
		"errors": errorsPerField,
	})
	_, _ = resp.Write(result)
}

var internalServerError = []byte("Internal server error")

func apiServerError(resp http.ResponseWriter, req *http.Request, emitter Emitter, err error) {
	emitter.Emit(dispatcher.TopicServerError, req, err)

	resp.Header().Set("Content-Type", "text/plain")
	resp.WriteHeader(http.StatusInternalServerError)
	_, _ = resp.Write(internalServerError)
}

func apiForbidden(resp http.ResponseWriter, reason string) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(http.StatusForbidden)
	result, _ := json.Marshal(map[string]any{
		"error": reason,
	})
	_, _ = resp.Write(result)
}

func writeJson(resp http.ResponseWriter, status int, data any) {
	result, _ := json.Marshal(data)
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(status)
	_, _ = resp.Write(result)
}

type loggingResponseWriter struct {
	http.ResponseWriter
	Status int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.Status = code
	lrw.ResponseWriter.WriteHeader(code)
}
