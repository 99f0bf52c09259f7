package cmd

import (
	"errors"
	"log"
	"os"
	"strings"

	. "github.com/defval/di"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gml/skins/internal/di"
	"github.com/gml/skins/internal/http"
	"github.com/gml/skins/internal/version"
)

var RootCmd = &cobra.Command{
	Use:     "skins",
	Short:   "Minecraft skins system server with textures classification",
	Version: version.Version(),
}

func shouldGetContainer() *Container {
	container, err := di.New()
	if err != nil {
		panic(err)
	}

	return container
}

func startServer(modules ...string) error {
	container, err := di.New()
	if err != nil {
		return err
	}

	var config *viper.Viper
	err = container.Resolve(&config)
	if err != nil {
		return err
	}

	config.Set("modules", modules)

	return container.Invoke(http.StartServer)
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// The .env file is optional, the real environment always takes precedence
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("unable to load .env file: %v", err)
	}

	viper.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
}
