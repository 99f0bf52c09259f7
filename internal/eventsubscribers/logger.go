package eventsubscribers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/gml/skins/internal/dispatcher"
	"github.com/gml/skins/internal/textures"
)

type Subscriber interface {
	Subscribe(topic string, fn any)
}

type Logger struct {
	*zap.Logger
}

func (l *Logger) ConfigureWithDispatcher(d Subscriber) {
	d.Subscribe(dispatcher.TopicAfterRequest, l.handleAfterRequest)
	d.Subscribe(dispatcher.TopicTexturesResolved, l.handleTexturesResolved)
	d.Subscribe(dispatcher.TopicTextureUploaded, l.createTextureChangeHandler("Texture uploaded"))
	d.Subscribe(dispatcher.TopicTextureRemoved, l.createTextureChangeHandler("Texture removed"))
	d.Subscribe(dispatcher.TopicServerError, l.handleServerError)
	d.Subscribe(dispatcher.TopicAuthenticationError, l.handleAuthenticationError)
}

func (l *Logger) handleAfterRequest(req *http.Request, statusCode int) {
	l.Info("Request",
		zap.String("ip", trimPort(req.RemoteAddr)),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("statusCode", statusCode),
		zap.String("userAgent", req.UserAgent()),
		zap.String("forwardedIp", req.Header.Get("X-Forwarded-For")),
		zap.String("requestId", req.Header.Get("X-Request-Id")),
	)
}

func (l *Logger) handleTexturesResolved(username string, texture *textures.UserTexture, err error) {
	if err == nil {
		l.Debug("Textures resolved",
			zap.String("username", username),
			zap.Bool("hasSkin", texture.HasSkin),
			zap.Bool("hasCloak", texture.HasCloak),
			zap.Stringer("format", texture.SkinFormat),
			zap.Stringer("model", texture.SkinModel),
		)
		return
	}

	var decodeErr *textures.ImageDecodeError
	if errors.As(err, &decodeErr) || errors.Is(err, textures.ErrImageTooSmall) {
		l.Warn("Unable to classify the skin", zap.String("username", username), zap.Error(err))
		return
	}

	l.Error("Unable to resolve textures", zap.String("username", username), zap.Error(err))
}

func (l *Logger) createTextureChangeHandler(message string) func(kind string, username string, err error) {
	return func(kind string, username string, err error) {
		if err != nil {
			l.Error(message+" with an error", zap.String("kind", kind), zap.String("username", username), zap.Error(err))
			return
		}

		l.Info(message, zap.String("kind", kind), zap.String("username", username))
	}
}

func (l *Logger) handleServerError(req *http.Request, err error) {
	l.Error("Unexpected error during request processing",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("requestId", req.Header.Get("X-Request-Id")),
		zap.Error(err),
	)
}

func (l *Logger) handleAuthenticationError(err error) {
	l.Debug("Authentication failed", zap.Error(err))
}

func trimPort(ip string) string {
	// Don't care about possible -1 result because RemoteAddr will always contain ip and port
	cutTo := len(ip) - 1
	for ; cutTo >= 0 && ip[cutTo] != ':'; cutTo-- {
	}

	if cutTo < 0 {
		return ip
	}

	return ip[0:cutTo]
}
