package imageio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	_ "github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// Decode reads an image file. PNG, JPEG and BMP are picked by file
// extension (.png, .jpg/.jpeg, .bmp) and read with that format's decoder;
// any other file goes through the registered decoders, which recognize
// TGA. The TGA decoder registers no magic bytes, so image.Decode alone
// would hand every file to it.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		img, err = png.Decode(f)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(f)
	case ".bmp":
		img, err = bmp.Decode(f)
	default:
		img, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return img, nil
}

// Format returns the output format implied by the file extension, or
// the empty string when the extension is not an encodable format.
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".bmp":
		return "bmp"
	case ".webp":
		return "webp"
	}
	return ""
}

// Encode writes img to path, picking the encoder from the extension:
// .png, .jpg/.jpeg, .bmp or .webp.
func Encode(path string, img image.Image) error {
	format := Format(path)
	if format == "" {
		return fmt.Errorf("imageio: no encoder for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case "png":
		err = png.Encode(f, img)
	case "jpeg":
		err = jpeg.Encode(f, img, nil)
	case "bmp":
		err = bmp.Encode(f, img)
	case "webp":
		err = nativewebp.Encode(f, img, nil)
	}
	if err != nil {
		return fmt.Errorf("imageio: encode %s: %w", path, err)
	}
	return nil
}

// Decodable reports whether path has an extension this package can
// decode. Used for directory sweeps.
func Decodable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tga":
		return true
	}
	return false
}
