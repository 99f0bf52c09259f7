package di

import (
	"context"
	"testing"

	"github.com/defval/di"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/gml/skins/internal/db/fs"
)

func TestNewStorage(t *testing.T) {
	t.Run("fs driver registers its health checker", func(t *testing.T) {
		container, err := di.New()
		require.NoError(t, err)

		config := viper.New()
		config.Set("storage.fs.path", t.TempDir())

		storage, err := newStorage(context.Background(), container, config)
		require.NoError(t, err)
		require.IsType(t, &fs.Filesystem{}, storage)

		var checkers []*namedHealthChecker
		require.NoError(t, container.Resolve(&checkers))
		require.Len(t, checkers, 1)
		require.Equal(t, "fs", checkers[0].Name)
		require.NoError(t, checkers[0].Checker.Check(context.Background()))
	})

	t.Run("unknown driver", func(t *testing.T) {
		config := viper.New()
		config.Set("storage.driver", "ftp")

		_, err := newStorage(context.Background(), nil, config)
		require.ErrorContains(t, err, `unknown storage driver "ftp"`)
	})

	t.Run("s3 driver without bucket", func(t *testing.T) {
		config := viper.New()
		config.Set("storage.driver", "s3")

		_, err := newStorage(context.Background(), nil, config)
		require.ErrorContains(t, err, "storage.s3.bucket must be set")
	})
}
