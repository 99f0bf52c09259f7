package dispatcher

import "github.com/asaskevich/EventBus"

const (
	// TopicBeforeRequest receives (*http.Request)
	TopicBeforeRequest = "skinsystem:before_request"
	// TopicAfterRequest receives (*http.Request, statusCode int)
	TopicAfterRequest = "skinsystem:after_request"
	// TopicTexturesResolved receives (username string, *textures.UserTexture, error)
	TopicTexturesResolved = "textures:resolved"
	// TopicTextureUploaded receives (kind string, username string, error)
	TopicTextureUploaded = "textures:uploaded"
	// TopicTextureRemoved receives (kind string, username string, error)
	TopicTextureRemoved = "textures:removed"
	// TopicServerError receives (*http.Request, error)
	TopicServerError = "skinsystem:error"
	// TopicAuthenticationSuccess receives no arguments
	TopicAuthenticationSuccess = "authentication:success"
	// TopicAuthenticationError receives (error)
	TopicAuthenticationError = "authentication:error"
)

type Subscriber interface {
	Subscribe(topic string, fn any)
}

type Emitter interface {
	Emit(topic string, args ...any)
}

type Dispatcher interface {
	Subscriber
	Emitter
}

type localEventDispatcher struct {
	bus EventBus.Bus
}

func (d *localEventDispatcher) Subscribe(topic string, fn any) {
	_ = d.bus.Subscribe(topic, fn)
}

// Emit calls all subscribers synchronously in the emitter's goroutine
func (d *localEventDispatcher) Emit(topic string, args ...any) {
	d.bus.Publish(topic, args...)
}

func New() Dispatcher {
	return &localEventDispatcher{
		bus: EventBus.New(),
	}
}
