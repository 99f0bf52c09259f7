package eventsubscribers

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mono83/slf"

	"github.com/gml/skins/internal/dispatcher"
	"github.com/gml/skins/internal/textures"
)

type StatsReporter struct {
	slf.StatsReporter

	timersMap   map[*http.Request]time.Time
	timersMutex sync.Mutex
}

func (s *StatsReporter) ConfigureWithDispatcher(d Subscriber) {
	s.timersMap = make(map[*http.Request]time.Time)

	d.Subscribe(dispatcher.TopicBeforeRequest, s.handleBeforeRequest)
	d.Subscribe(dispatcher.TopicAfterRequest, s.handleAfterRequest)

	d.Subscribe(dispatcher.TopicTexturesResolved, s.handleTexturesResolved)
	d.Subscribe(dispatcher.TopicTextureUploaded, s.createTextureChangeHandler("uploaded", "upload_failed"))
	d.Subscribe(dispatcher.TopicTextureRemoved, s.createTextureChangeHandler("removed", "remove_failed"))

	d.Subscribe(dispatcher.TopicAuthenticationSuccess, s.incCounterHandler("authentication.success"))
	d.Subscribe(dispatcher.TopicAuthenticationError, s.incCounterHandler("authentication.failed"))
	d.Subscribe(dispatcher.TopicServerError, s.incCounterHandler("errors.server"))
}

func (s *StatsReporter) handleBeforeRequest(req *http.Request) {
	key := requestStatsKey(req)
	if key == "" {
		return
	}

	s.IncCounter(key+".request", 1)

	s.timersMutex.Lock()
	s.timersMap[req] = time.Now()
	s.timersMutex.Unlock()
}

func (s *StatsReporter) handleAfterRequest(req *http.Request, code int) {
	key := requestStatsKey(req)
	if key == "" {
		return
	}

	s.timersMutex.Lock()
	startedAt, ok := s.timersMap[req]
	delete(s.timersMap, req)
	s.timersMutex.Unlock()

	if ok {
		s.RecordTimer(key+".duration", time.Since(startedAt))
	}

	if !strings.HasPrefix(key, "api.") {
		return
	}

	switch {
	case code >= 200 && code < 300:
		s.IncCounter(key+".success", 1)
	case code == http.StatusBadRequest:
		s.IncCounter(key+".validation_failed", 1)
	case code == http.StatusForbidden:
		s.IncCounter(key+".forbidden", 1)
	}
}

func (s *StatsReporter) handleTexturesResolved(_ string, texture *textures.UserTexture, err error) {
	if err != nil {
		s.IncCounter("textures.resolve_failed", 1)
		return
	}

	if !texture.HasSkin {
		s.IncCounter("textures.default_skin", 1)
		return
	}

	s.IncCounter("textures.model."+texture.SkinModel.String(), 1)
	s.IncCounter("textures.format."+texture.SkinFormat.String(), 1)
}

func (s *StatsReporter) createTextureChangeHandler(success string, failure string) func(kind string, username string, err error) {
	return func(kind string, _ string, err error) {
		if err != nil {
			s.IncCounter("textures."+kind+"."+failure, 1)
			return
		}

		s.IncCounter("textures."+kind+"."+success, 1)
	}
}

func (s *StatsReporter) incCounterHandler(name string) func(...any) {
	return func(...any) {
		s.IncCounter(name, 1)
	}
}

// requestStatsKey returns an empty string for the requests which aren't reported
func requestStatsKey(req *http.Request) string {
	m := req.Method
	p := req.URL.Path
	switch {
	case strings.HasPrefix(p, "/textures/"):
		return "textures"
	case strings.HasPrefix(p, "/minecraft/textures/"):
		return "minecraft_textures"
	case strings.HasPrefix(p, "/skin/s-"):
		return "skins"
	case strings.HasPrefix(p, "/cloak/c-"):
		return "capes"
	case strings.HasPrefix(p, "/api/skins/") && m == http.MethodPut:
		return "api.skins.put"
	case strings.HasPrefix(p, "/api/skins/") && m == http.MethodDelete:
		return "api.skins.delete"
	case strings.HasPrefix(p, "/api/cloaks/") && m == http.MethodPut:
		return "api.cloaks.put"
	case strings.HasPrefix(p, "/api/cloaks/") && m == http.MethodDelete:
		return "api.cloaks.delete"
	case p == "/api/classify" && m == http.MethodPost:
		return "api.classify"
	}

	return ""
}
