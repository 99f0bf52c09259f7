package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gml/skins/internal/security"
)

var tokenCmd = &cobra.Command{
	Use:   "token [scope...]",
	Short: "Creates a new token, which allows to interact with the skins system API",
	Long: `Creates a new token, which allows to interact with the skins system API.
Available scopes are "textures" and "classify". When no scope is passed, the token gets both.
With --username the token can upload and remove only the textures of that user.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		container := shouldGetContainer()
		var auth *security.Jwt
		err := container.Resolve(&auth)
		if err != nil {
			return err
		}

		scopes := []security.Scope{security.TexturesScope, security.ClassifyScope}
		if len(args) > 0 {
			scopes = make([]security.Scope, len(args))
			for i, arg := range args {
				scopes[i] = security.Scope(arg)
			}
		}

		token, err := auth.NewUserToken(tokenUsername, scopes...)
		if err != nil {
			return fmt.Errorf("unable to create a new token: %w", err)
		}

		fmt.Println(token)

		return nil
	},
}

var tokenUsername string

func init() {
	tokenCmd.Flags().StringVar(&tokenUsername, "username", "", "bind the token to the textures of a single user")
	RootCmd.AddCommand(tokenCmd)
}
