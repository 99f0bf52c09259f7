package redis

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	"github.com/mediocregopher/radix/v4"

	"github.com/gml/skins/internal/textures"
)

const texturesKey = "hash:textures"

type Redis struct {
	client radix.Client
}

func New(ctx context.Context, addr string, poolSize int) (*Redis, error) {
	client, err := (radix.PoolConfig{Size: poolSize}).New(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	return &Redis{
		client: client,
	}, nil
}

func (r *Redis) Exists(ctx context.Context, path string) (bool, error) {
	var exists int
	err := r.client.Do(ctx, radix.Cmd(&exists, "HEXISTS", texturesKey, path))
	if err != nil {
		return false, err
	}

	return exists == 1, nil
}

func (r *Redis) LoadImage(ctx context.Context, path string) (image.Image, error) {
	data, err := r.find(ctx, path)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("texture %s not found", path)
	}

	return textures.DecodeImage(bytes.NewReader(data))
}

func (r *Redis) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	data, err := r.find(ctx, path)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, nil
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (r *Redis) find(ctx context.Context, path string) ([]byte, error) {
	var data []byte
	err := r.client.Do(ctx, radix.Cmd(&data, "HGET", texturesKey, path))
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (r *Redis) Save(ctx context.Context, path string, data []byte) error {
	return r.client.Do(ctx, radix.FlatCmd(nil, "HSET", texturesKey, path, data))
}

func (r *Redis) Remove(ctx context.Context, path string) error {
	return r.client.Do(ctx, radix.Cmd(nil, "HDEL", texturesKey, path))
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Do(ctx, radix.Cmd(nil, "PING"))
}

func (r *Redis) Close() error {
	return r.client.Close()
}
