package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gml/skins/internal/dispatcher"
	"github.com/gml/skins/internal/security"
	"github.com/gml/skins/internal/textures"
)

const (
	skinKind  = "skin"
	cloakKind = "cloak"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

type TexturesPaths interface {
	SkinPath(userName string) string
	CloakPath(userName string) string
	DefaultSkinPath() string
}

type TexturesWriter interface {
	Save(ctx context.Context, path string, data []byte) error
	Remove(ctx context.Context, path string) error
}

type Api struct {
	TexturesPaths
	TexturesWriter
	Authenticator
	Emitter
	MaxUploadSize int64
}

func (a *Api) Handler() *mux.Router {
	texturesAuth := NewAuthenticationMiddleware(a.Authenticator, a.Emitter, security.TexturesScope)
	classifyAuth := NewAuthenticationMiddleware(a.Authenticator, a.Emitter, security.ClassifyScope)

	router := mux.NewRouter().StrictSlash(true)
	router.Handle("/skins/{username}", texturesAuth(http.HandlerFunc(a.putSkinHandler))).Methods(http.MethodPut)
	router.Handle("/skins/{username}", texturesAuth(a.deleteHandler(skinKind))).Methods(http.MethodDelete)
	router.Handle("/cloaks/{username}", texturesAuth(http.HandlerFunc(a.putCloakHandler))).Methods(http.MethodPut)
	router.Handle("/cloaks/{username}", texturesAuth(a.deleteHandler(cloakKind))).Methods(http.MethodDelete)
	router.Handle("/classify", classifyAuth(http.HandlerFunc(a.classifyHandler))).Methods(http.MethodPost)

	return router
}

type classificationResponse struct {
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Format textures.Format `json:"format"`
	Model  textures.Model  `json:"model"`
}

func (a *Api) putSkinHandler(resp http.ResponseWriter, req *http.Request) {
	username, ok := a.authorizedUsername(resp, req, skinKind)
	if !ok {
		return
	}

	body, classification, ok := a.readSkin(resp, req)
	if !ok {
		return
	}

	err := a.TexturesWriter.Save(req.Context(), a.TexturesPaths.SkinPath(username), body)
	a.Emitter.Emit(dispatcher.TopicTextureUploaded, skinKind, username, err)
	if err != nil {
		apiServerError(resp, req, a.Emitter, fmt.Errorf("unable to save the skin: %w", err))
		return
	}

	writeJson(resp, http.StatusCreated, classification)
}

func (a *Api) putCloakHandler(resp http.ResponseWriter, req *http.Request) {
	username, ok := a.authorizedUsername(resp, req, cloakKind)
	if !ok {
		return
	}

	body, _, ok := a.readTexture(resp, req)
	if !ok {
		return
	}

	err := a.TexturesWriter.Save(req.Context(), a.TexturesPaths.CloakPath(username), body)
	a.Emitter.Emit(dispatcher.TopicTextureUploaded, cloakKind, username, err)
	if err != nil {
		apiServerError(resp, req, a.Emitter, fmt.Errorf("unable to save the cloak: %w", err))
		return
	}

	resp.WriteHeader(http.StatusCreated)
}

func (a *Api) deleteHandler(kind string) http.HandlerFunc {
	return func(resp http.ResponseWriter, req *http.Request) {
		username, ok := a.authorizedUsername(resp, req, kind)
		if !ok {
			return
		}

		path := a.TexturesPaths.SkinPath(username)
		if kind == cloakKind {
			path = a.TexturesPaths.CloakPath(username)
		}

		err := a.TexturesWriter.Remove(req.Context(), path)
		a.Emitter.Emit(dispatcher.TopicTextureRemoved, kind, username, err)
		if err != nil {
			apiServerError(resp, req, a.Emitter, fmt.Errorf("unable to remove the %s: %w", kind, err))
			return
		}

		resp.WriteHeader(http.StatusNoContent)
	}
}

// authorizedUsername validates the route's username and checks that the token may manage its textures
func (a *Api) authorizedUsername(resp http.ResponseWriter, req *http.Request, kind string) (string, bool) {
	username, validationErrors := parseUsername(mux.Vars(req)["username"])
	if validationErrors != nil {
		apiBadRequest(resp, map[string][]string{"username": validationErrors})
		return "", false
	}

	if kind == skinKind && a.TexturesPaths.SkinPath(username) == a.TexturesPaths.DefaultSkinPath() {
		apiBadRequest(resp, map[string][]string{"username": {"username is reserved for the default skin"}})
		return "", false
	}

	grant := security.GrantFromContext(req.Context())
	if grant == nil || !grant.AllowsUser(username) {
		apiForbidden(resp, "the token doesn't allow to manage textures of this user")
		return "", false
	}

	return username, true
}

func (a *Api) classifyHandler(resp http.ResponseWriter, req *http.Request) {
	_, classification, ok := a.readSkin(resp, req)
	if !ok {
		return
	}

	writeJson(resp, http.StatusOK, classification)
}

func (a *Api) readSkin(resp http.ResponseWriter, req *http.Request) ([]byte, *classificationResponse, bool) {
	body, img, ok := a.readTexture(resp, req)
	if !ok {
		return nil, nil, false
	}

	model, err := textures.ClassifyModel(img)
	if err != nil {
		apiBadRequest(resp, map[string][]string{
			"texture": {"The skin must be at least 64 pixels wide and contain both arm regions"},
		})
		return nil, nil, false
	}

	bounds := img.Bounds()
	return body, &classificationResponse{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: textures.ClassifyFormat(bounds.Dx()),
		Model:  model,
	}, true
}

func (a *Api) readTexture(resp http.ResponseWriter, req *http.Request) ([]byte, image.Image, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(resp, req.Body, a.MaxUploadSize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			apiBadRequest(resp, map[string][]string{
				"texture": {fmt.Sprintf("The texture must not exceed %d bytes", a.MaxUploadSize)},
			})
			return nil, nil, false
		}

		apiBadRequest(resp, map[string][]string{
			"texture": {"Unable to read the request body"},
		})
		return nil, nil, false
	}

	if !bytes.HasPrefix(body, pngSignature) {
		apiBadRequest(resp, map[string][]string{
			"texture": {"The texture must be a PNG image"},
		})
		return nil, nil, false
	}

	img, err := textures.DecodeImage(bytes.NewReader(body))
	if err != nil {
		apiBadRequest(resp, map[string][]string{
			"texture": {"The texture must be a valid PNG image"},
		})
		return nil, nil, false
	}

	return body, img, true
}
