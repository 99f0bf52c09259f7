package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/gml/skins/internal/dispatcher"
	"github.com/gml/skins/internal/textures"
)

type TexturesResolver interface {
	Resolve(ctx context.Context, userName string, basePath string) (*textures.UserTexture, error)
	SkinPath(userName string) string
	CloakPath(userName string) string
	DefaultSkinPath() string
}

type TexturesReader interface {
	// Open must return nil reader and nil error when the texture doesn't exist
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

type Skinsystem struct {
	TexturesResolver
	TexturesReader
	Emitter
	// PublicUrl is used as the base for all links. When empty, it's built from the request
	PublicUrl string
}

func (s *Skinsystem) Handler() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	router.HandleFunc("/textures/{username}", s.texturesHandler).Methods(http.MethodGet)
	router.HandleFunc("/minecraft/textures/{username}", s.minecraftTexturesHandler).Methods(http.MethodGet)
	router.HandleFunc("/skin/s-{username}", s.skinHandler).Methods(http.MethodGet)
	router.HandleFunc("/cloak/c-{username}", s.cloakHandler).Methods(http.MethodGet)

	return router
}

func (s *Skinsystem) texturesHandler(response http.ResponseWriter, request *http.Request) {
	texture, ok := s.resolve(response, request)
	if !ok {
		return
	}

	writeJson(response, http.StatusOK, texture)
}

type minecraftTextures struct {
	Skin *minecraftSkin  `json:"SKIN,omitempty"`
	Cape *minecraftCloak `json:"CAPE,omitempty"`
}

type minecraftSkin struct {
	Url      string             `json:"url"`
	Metadata *minecraftMetadata `json:"metadata,omitempty"`
}

type minecraftMetadata struct {
	Model string `json:"model"`
}

type minecraftCloak struct {
	Url string `json:"url"`
}

func (s *Skinsystem) minecraftTexturesHandler(response http.ResponseWriter, request *http.Request) {
	texture, ok := s.resolve(response, request)
	if !ok {
		return
	}

	if !texture.HasSkin && !texture.HasCloak {
		response.WriteHeader(http.StatusNoContent)
		return
	}

	result := &minecraftTextures{}
	if texture.HasSkin {
		result.Skin = &minecraftSkin{Url: texture.SkinUrl}
		// The game treats the missing metadata as the classic model
		if texture.SkinModel == textures.ModelSlim {
			result.Skin.Metadata = &minecraftMetadata{Model: texture.SkinModel.String()}
		}
	}

	if texture.HasCloak {
		result.Cape = &minecraftCloak{Url: texture.CloakUrl}
	}

	writeJson(response, http.StatusOK, result)
}

func (s *Skinsystem) skinHandler(response http.ResponseWriter, request *http.Request) {
	username, validationErrors := parseUsername(mux.Vars(request)["username"])
	if validationErrors != nil {
		apiBadRequest(response, map[string][]string{"username": validationErrors})
		return
	}

	file, err := s.TexturesReader.Open(request.Context(), s.TexturesResolver.SkinPath(username))
	if err != nil {
		apiServerError(response, request, s.Emitter, fmt.Errorf("unable to open the skin: %w", err))
		return
	}

	if file == nil {
		file, err = s.TexturesReader.Open(request.Context(), s.TexturesResolver.DefaultSkinPath())
		if err != nil {
			apiServerError(response, request, s.Emitter, fmt.Errorf("unable to open the default skin: %w", err))
			return
		}
	}

	s.serveTexture(response, file)
}

func (s *Skinsystem) cloakHandler(response http.ResponseWriter, request *http.Request) {
	username, validationErrors := parseUsername(mux.Vars(request)["username"])
	if validationErrors != nil {
		apiBadRequest(response, map[string][]string{"username": validationErrors})
		return
	}

	file, err := s.TexturesReader.Open(request.Context(), s.TexturesResolver.CloakPath(username))
	if err != nil {
		apiServerError(response, request, s.Emitter, fmt.Errorf("unable to open the cloak: %w", err))
		return
	}

	s.serveTexture(response, file)
}

func (s *Skinsystem) serveTexture(response http.ResponseWriter, file io.ReadCloser) {
	if file == nil {
		response.WriteHeader(http.StatusNotFound)
		return
	}

	defer file.Close()

	response.Header().Set("Content-Type", "image/png")
	_, _ = io.Copy(response, file)
}

func (s *Skinsystem) resolve(response http.ResponseWriter, request *http.Request) (*textures.UserTexture, bool) {
	username, validationErrors := parseUsername(mux.Vars(request)["username"])
	if validationErrors != nil {
		apiBadRequest(response, map[string][]string{"username": validationErrors})
		return nil, false
	}

	texture, err := s.TexturesResolver.Resolve(request.Context(), username, s.basePath(request))
	s.Emitter.Emit(dispatcher.TopicTexturesResolved, username, texture, err)
	if err != nil {
		apiServerError(response, request, s.Emitter, fmt.Errorf("unable to resolve textures: %w", err))
		return nil, false
	}

	return texture, true
}

func (s *Skinsystem) basePath(request *http.Request) string {
	if s.PublicUrl != "" {
		return strings.TrimSuffix(s.PublicUrl, "/")
	}

	scheme := "http"
	if request.TLS != nil {
		scheme = "https"
	}

	if proto := request.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return scheme + "://" + request.Host
}
