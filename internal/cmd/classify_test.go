package cmd

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSkin(t *testing.T, dir string, name string, width, height int) string {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, A: 255})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))

	return path
}

func TestClassifyFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid skin", func(t *testing.T) {
		path := writeSkin(t, dir, "steve.png", 64, 64)
		out := &bytes.Buffer{}

		require.True(t, classifyFile(out, path))
		require.Equal(t, path+": format=sd model=classic\n", out.String())
	})

	t.Run("hd skin", func(t *testing.T) {
		path := writeSkin(t, dir, "hd.png", 128, 64)
		out := &bytes.Buffer{}

		require.True(t, classifyFile(out, path))
		require.Equal(t, path+": format=hd model=classic\n", out.String())
	})

	t.Run("too small", func(t *testing.T) {
		path := writeSkin(t, dir, "small.png", 32, 32)
		out := &bytes.Buffer{}

		require.False(t, classifyFile(out, path))
		require.Contains(t, out.String(), "image is too small")
	})

	t.Run("not an image", func(t *testing.T) {
		path := filepath.Join(dir, "notes.png")
		require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
		out := &bytes.Buffer{}

		require.False(t, classifyFile(out, path))
		require.Contains(t, out.String(), "unable to decode the texture")
	})

	t.Run("missing file", func(t *testing.T) {
		out := &bytes.Buffer{}

		require.False(t, classifyFile(out, filepath.Join(dir, "missing.png")))
		require.Contains(t, out.String(), "missing.png: error=")
	})
}
