package imageio_test

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"imgresample/internal/imageio"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 40), B: 128, A: 255})
		}
	}
	return img
}

func TestFormat(t *testing.T) {
	require.Equal(t, "png", imageio.Format("a/b/out.png"))
	require.Equal(t, "jpeg", imageio.Format("out.JPG"))
	require.Equal(t, "jpeg", imageio.Format("out.jpeg"))
	require.Equal(t, "bmp", imageio.Format("out.BMP"))
	require.Equal(t, "webp", imageio.Format("out.webp"))
	require.Equal(t, "", imageio.Format("out.tiff"))
	require.Equal(t, "", imageio.Format("out"))
}

func TestDecodable(t *testing.T) {
	require.True(t, imageio.Decodable("x.png"))
	require.True(t, imageio.Decodable("x.JPG"))
	require.True(t, imageio.Decodable("x.bmp"))
	require.True(t, imageio.Decodable("x.tga"))
	require.False(t, imageio.Decodable("x.webp.txt"))
	require.False(t, imageio.Decodable("x"))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := testImage()

	for _, name := range []string{"out.png", "out.bmp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, imageio.Encode(path, src))

		img, err := imageio.Decode(path)
		require.NoError(t, err)
		require.Equal(t, src.Bounds().Dx(), img.Bounds().Dx())
		require.Equal(t, src.Bounds().Dy(), img.Bounds().Dy())
	}
}

func TestEncodeWebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.webp")
	require.NoError(t, imageio.Encode(path, testImage()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestEncodeUnknownExtension(t *testing.T) {
	err := imageio.Encode(filepath.Join(t.TempDir(), "out.gif"), testImage())
	require.Error(t, err)
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := imageio.Decode(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
}

func TestDecodeGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))
	_, err := imageio.Decode(path)
	require.Error(t, err)
}
