package di

import (
	"errors"

	"github.com/defval/di"
	"github.com/spf13/viper"

	"github.com/gml/skins/internal/http"
	"github.com/gml/skins/internal/security"
)

var securityDiOptions = di.Options(
	di.Provide(newAuthenticator, di.As(new(http.Authenticator))),
)

func newAuthenticator(config *viper.Viper) (*security.Jwt, error) {
	key := config.GetString("skins.secret")
	if key == "" {
		return nil, errors.New("skins.secret must be set in order to use authenticator")
	}

	return security.NewJwt([]byte(key)), nil
}
