package di

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/defval/di"
	"github.com/spf13/viper"

	"github.com/gml/skins/internal/db/fs"
	"github.com/gml/skins/internal/db/redis"
	"github.com/gml/skins/internal/db/s3"
	"github.com/gml/skins/internal/eventsubscribers"
)

// texturesStorage is the full set of operations each storage driver provides
type texturesStorage interface {
	Exists(ctx context.Context, path string) (bool, error)
	LoadImage(ctx context.Context, path string) (image.Image, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Save(ctx context.Context, path string, data []byte) error
	Remove(ctx context.Context, path string) error
	Ping(ctx context.Context) error
}

var dbDiOptions = di.Options(
	di.Provide(newStorage),
)

func newStorage(ctx context.Context, container *di.Container, config *viper.Viper) (texturesStorage, error) {
	config.SetDefault("storage.driver", "fs")

	var storage texturesStorage
	var err error
	driver := config.GetString("storage.driver")
	switch driver {
	case "fs":
		storage, err = newFilesystem(config)
	case "redis":
		storage, err = newRedis(ctx, config)
	case "s3":
		storage, err = newS3(ctx, config)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}

	if err != nil {
		return nil, err
	}

	if err := container.Provide(func() *namedHealthChecker {
		return &namedHealthChecker{
			Name:    driver,
			Checker: eventsubscribers.StorageChecker(driver, storage),
		}
	}); err != nil {
		return nil, err
	}

	return storage, nil
}

func newFilesystem(config *viper.Viper) (*fs.Filesystem, error) {
	config.SetDefault("storage.fs.path", "Storage")

	return fs.New(config.GetString("storage.fs.path"))
}

func newRedis(ctx context.Context, config *viper.Viper) (*redis.Redis, error) {
	config.SetDefault("storage.redis.host", "localhost")
	config.SetDefault("storage.redis.port", 6379)
	config.SetDefault("storage.redis.poolSize", 10)

	return redis.New(
		ctx,
		fmt.Sprintf("%s:%d", config.GetString("storage.redis.host"), config.GetInt("storage.redis.port")),
		config.GetInt("storage.redis.poolSize"),
	)
}

func newS3(ctx context.Context, config *viper.Viper) (*s3.S3, error) {
	config.SetDefault("storage.s3.endpoint", "")
	config.SetDefault("storage.s3.path_style", false)

	bucket := config.GetString("storage.s3.bucket")
	if bucket == "" {
		return nil, errors.New("storage.s3.bucket must be set in order to use the s3 storage")
	}

	client, err := s3.NewClient(ctx, config.GetString("storage.s3.endpoint"), config.GetBool("storage.s3.path_style"))
	if err != nil {
		return nil, err
	}

	return s3.New(client, bucket), nil
}
