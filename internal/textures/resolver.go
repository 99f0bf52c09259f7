package textures

import (
	"context"
	"image"
	"path"
)

const DefaultSkinName = "default.png"

type Storage interface {
	Exists(ctx context.Context, path string) (bool, error)
	LoadImage(ctx context.Context, path string) (image.Image, error)
}

type UserTexture struct {
	UserName string `json:"userName"`
	HasSkin  bool   `json:"hasSkin"`
	HasCloak bool   `json:"hasCloak"`
	// SkinPath contains the storage location of the skin. Points at the default skin when the user has no own one
	SkinPath string `json:"-"`
	// CloakPath contains the storage location of the cloak or an empty string when the user has no cloak
	CloakPath  string   `json:"-"`
	SkinFormat Format   `json:"skinFormat"`
	SkinModel  Model    `json:"skinModel"`
	SkinUrl    string   `json:"skinUrl"`
	CloakUrl   string   `json:"cloakUrl"`
	Texture    Partials `json:"texture"`
}

// Partials holds links to the crops, rendered by the textures renderer
type Partials struct {
	Head      string `json:"head"`
	Front     string `json:"front"`
	Back      string `json:"back"`
	CloakBack string `json:"cloakBack"`
	Cloak     string `json:"cloak"`
}

func NewResolver(storage Storage, skinsDir string, cloaksDir string) *Resolver {
	return &Resolver{
		Storage:   storage,
		SkinsDir:  skinsDir,
		CloaksDir: cloaksDir,
	}
}

type Resolver struct {
	Storage
	SkinsDir  string
	CloaksDir string
}

// Resolve doesn't wrap errors from the storage, so the caller receives them as is
func (r *Resolver) Resolve(ctx context.Context, userName string, basePath string) (*UserTexture, error) {
	skinPath := r.SkinPath(userName)
	hasSkin := false
	// The shared default skin never counts as the user's own texture
	if skinPath != r.DefaultSkinPath() {
		var err error
		hasSkin, err = r.Storage.Exists(ctx, skinPath)
		if err != nil {
			return nil, err
		}
	}

	if !hasSkin {
		skinPath = r.DefaultSkinPath()
	}

	cloakPath := r.CloakPath(userName)
	hasCloak, err := r.Storage.Exists(ctx, cloakPath)
	if err != nil {
		return nil, err
	}

	if !hasCloak {
		cloakPath = ""
	}

	texture := &UserTexture{
		UserName:  userName,
		HasSkin:   hasSkin,
		HasCloak:  hasCloak,
		SkinPath:  skinPath,
		CloakPath: cloakPath,
		SkinUrl:   basePath + "/skin/s-" + userName,
		CloakUrl:  basePath + "/cloak/c-" + userName,
		Texture: Partials{
			Head:      basePath + "/skin/" + userName + "/head/128",
			Front:     basePath + "/skin/" + userName + "/front/128",
			Back:      basePath + "/skin/" + userName + "/back/128",
			CloakBack: basePath + "/skin/" + userName + "/full-back/128",
			Cloak:     basePath + "/cloak/" + userName + "/128",
		},
	}

	// The default skin is shared between all users and isn't classified
	if !texture.HasSkin {
		return texture, nil
	}

	img, err := r.Storage.LoadImage(ctx, skinPath)
	if err != nil {
		return nil, err
	}

	model, err := ClassifyModel(img)
	if err != nil {
		return nil, err
	}

	texture.SkinFormat = ClassifyFormat(img.Bounds().Dx())
	texture.SkinModel = model

	return texture, nil
}

func (r *Resolver) SkinPath(userName string) string {
	return path.Join(r.SkinsDir, userName+".png")
}

func (r *Resolver) CloakPath(userName string) string {
	return path.Join(r.CloaksDir, userName+".png")
}

func (r *Resolver) DefaultSkinPath() string {
	return path.Join(r.SkinsDir, DefaultSkinName)
}
