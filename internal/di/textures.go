package di

import (
	"github.com/defval/di"
	"github.com/spf13/viper"

	"github.com/gml/skins/internal/textures"
)

var texturesDiOptions = di.Options(
	di.Provide(newTexturesResolver),
)

func newTexturesResolver(config *viper.Viper, storage texturesStorage) *textures.Resolver {
	config.SetDefault("textures.skins_dir", "Skins")
	config.SetDefault("textures.cloaks_dir", "Cloak")

	return textures.NewResolver(
		storage,
		config.GetString("textures.skins_dir"),
		config.GetString("textures.cloaks_dir"),
	)
}
