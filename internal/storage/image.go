package storage

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	// Decoders registrados para image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const thumbnailWidth = 320

// DecodeImage valida que o upload é uma imagem de verdade,
// não só um arquivo com a extensão certa.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Thumbnail reduz a imagem para a largura padrão e codifica em webp.
func Thumbnail(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w > thumbnailWidth {
		h = h * thumbnailWidth / w
		w = thumbnailWidth
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// ThumbnailName troca a extensão por _thumb.webp.
func ThumbnailName(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		filename = filename[:idx]
	}
	return filename + "_thumb.webp"
}
