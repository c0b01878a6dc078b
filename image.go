package skintone

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes an image, applying the EXIF orientation of JPEG files,
// and returns it as *image.NRGBA with the origin at (0, 0).
func DecodeImage(r io.Reader) (*image.NRGBA, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("could not decode the source image: %v", err)
	}
	return toNRGBA(src), nil
}

// EncodeImage encodes the image into w using the format corresponding to the file extension.
// An empty extension defaults to JPEG.
func EncodeImage(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case "", ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("unsupported image format: %q", ext)
}
