package resample

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// rowReader fills byte rows with one source row of interleaved channel
// bytes in the fixed engine order: Y for 1 channel, B,G,R for 3 and
// A,B,G,R for 4. Readers are stateless; the caller owns the row and
// scratch buffers so workers can reuse them.
type rowReader interface {
	channels() int
	readRow(y int, row []byte, scratch []uint32)
}

// newRowReader resolves the source into a reader over a supported
// layout. Gray, Gray16 and NRGBA images are read in place. Any other
// opaque image is unpacked pixel by pixel into 3-channel form; images
// carrying alpha are normalized into NRGBA first.
func newRowReader(src image.Image) rowReader {
	switch img := src.(type) {
	case *image.Gray:
		return &grayReader{img: img}
	case *image.Gray16:
		return &gray16Reader{img: img}
	case *image.NRGBA:
		return &nrgbaReader{img: img}
	}
	if isOpaque(src) {
		return &genericBGRReader{img: src}
	}
	return &nrgbaReader{img: toNRGBA(src)}
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// toNRGBA normalizes an alpha-carrying image into non-premultiplied
// interleaved form.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(dst, image.Point{}, src, b, xdraw.Src, nil)
	return dst
}

type grayReader struct {
	img *image.Gray
}

func (r *grayReader) channels() int { return 1 }

func (r *grayReader) readRow(y int, row []byte, _ []uint32) {
	min := r.img.Rect.Min
	off := r.img.PixOffset(min.X, min.Y+y)
	copy(row, r.img.Pix[off:off+len(row)])
}

type gray16Reader struct {
	img *image.Gray16
}

func (r *gray16Reader) channels() int { return 1 }

func (r *gray16Reader) readRow(y int, row []byte, _ []uint32) {
	min := r.img.Rect.Min
	off := r.img.PixOffset(min.X, min.Y+y)
	pix := r.img.Pix[off:]
	// Big-endian samples; the accumulation path is 8-bit.
	for x := range row {
		row[x] = pix[x*2]
	}
}

type nrgbaReader struct {
	img *image.NRGBA
}

func (r *nrgbaReader) channels() int { return 4 }

func (r *nrgbaReader) readRow(y int, row []byte, _ []uint32) {
	min := r.img.Rect.Min
	off := r.img.PixOffset(min.X, min.Y+y)
	pix := r.img.Pix[off:]
	for x := 0; x < len(row)/4; x++ {
		row[x*4+0] = pix[x*4+3] // A
		row[x*4+1] = pix[x*4+2] // B
		row[x*4+2] = pix[x*4+1] // G
		row[x*4+3] = pix[x*4+0] // R
	}
}

// genericBGRReader handles opaque sources without a byte-addressable
// fast path (YCbCr, CMYK, opaque RGBA, opaque paletted). Pixels are
// unpacked into the scratch row first, then split into channel bytes.
type genericBGRReader struct {
	img image.Image
}

func (r *genericBGRReader) channels() int { return 3 }

func (r *genericBGRReader) readRow(y int, row []byte, scratch []uint32) {
	b := r.img.Bounds()
	yy := b.Min.Y + y
	w := len(row) / 3
	for x := 0; x < w; x++ {
		cr, cg, cb, _ := r.img.At(b.Min.X+x, yy).RGBA()
		scratch[x] = (cr>>8)<<16 | (cg>>8)<<8 | cb>>8
	}
	for x := 0; x < w; x++ {
		v := scratch[x]
		row[x*3+0] = byte(v)       // B
		row[x*3+1] = byte(v >> 8)  // G
		row[x*3+2] = byte(v >> 16) // R
	}
}

// writePixels copies the flat interleaved engine output into dst's
// backing store at offset (x0, y0), mapping the fixed channel order
// back to the destination layout.
func writePixels(flat []byte, dst image.Image, x0, y0, w, h, channels int) error {
	switch img := dst.(type) {
	case *image.Gray:
		if channels != 1 {
			return fmt.Errorf("%w: %d-channel output into grayscale destination", ErrInvalidArgument, channels)
		}
		for y := 0; y < h; y++ {
			off := img.PixOffset(img.Rect.Min.X+x0, img.Rect.Min.Y+y0+y)
			copy(img.Pix[off:off+w], flat[y*w:(y+1)*w])
		}
	case *image.Gray16:
		if channels != 1 {
			return fmt.Errorf("%w: %d-channel output into grayscale destination", ErrInvalidArgument, channels)
		}
		for y := 0; y < h; y++ {
			off := img.PixOffset(img.Rect.Min.X+x0, img.Rect.Min.Y+y0+y)
			for x := 0; x < w; x++ {
				// v*257 widens 8-bit back to the full 16-bit range.
				v := flat[y*w+x]
				img.Pix[off+x*2] = v
				img.Pix[off+x*2+1] = v
			}
		}
	case *image.NRGBA:
		switch channels {
		case 3:
			for y := 0; y < h; y++ {
				off := img.PixOffset(img.Rect.Min.X+x0, img.Rect.Min.Y+y0+y)
				row := flat[y*w*3 : (y+1)*w*3]
				for x := 0; x < w; x++ {
					o := off + x*4
					img.Pix[o+0] = row[x*3+2] // R
					img.Pix[o+1] = row[x*3+1] // G
					img.Pix[o+2] = row[x*3+0] // B
					img.Pix[o+3] = 0xff
				}
			}
		case 4:
			for y := 0; y < h; y++ {
				off := img.PixOffset(img.Rect.Min.X+x0, img.Rect.Min.Y+y0+y)
				row := flat[y*w*4 : (y+1)*w*4]
				for x := 0; x < w; x++ {
					o := off + x*4
					img.Pix[o+0] = row[x*4+3] // R
					img.Pix[o+1] = row[x*4+2] // G
					img.Pix[o+2] = row[x*4+1] // B
					img.Pix[o+3] = row[x*4+0] // A
				}
			}
		default:
			return fmt.Errorf("%w: %d-channel output into NRGBA destination", ErrInvalidArgument, channels)
		}
	default:
		return fmt.Errorf("%w: unsupported destination type %T", ErrInvalidArgument, dst)
	}
	return nil
}

// newOutputImage picks the destination type for the resolved channel
// count: grayscale stays grayscale (16-bit sources stay 16-bit), color
// becomes NRGBA.
func newOutputImage(src image.Image, channels, w, h int) image.Image {
	if channels == 1 {
		if _, ok := src.(*image.Gray16); ok {
			return image.NewGray16(image.Rect(0, 0, w, h))
		}
		return image.NewGray(image.Rect(0, 0, w, h))
	}
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

// checkDestination verifies a caller-supplied destination against the
// resolved source channel count and target dimensions.
func checkDestination(dst image.Image, channels, w, h int) error {
	b := dst.Bounds()
	if b.Dx() != w || b.Dy() != h {
		return fmt.Errorf("%w: destination is %dx%d, want %dx%d",
			ErrInvalidArgument, b.Dx(), b.Dy(), w, h)
	}
	var got int
	switch dst.(type) {
	case *image.Gray, *image.Gray16:
		got = 1
	case *image.NRGBA:
		got = 4
	default:
		return fmt.Errorf("%w: unsupported destination type %T", ErrInvalidArgument, dst)
	}
	if got != channels && !(got == 4 && channels == 3) {
		return fmt.Errorf("%w: destination has %d channels, source resolves to %d",
			ErrInvalidArgument, got, channels)
	}
	return nil
}
