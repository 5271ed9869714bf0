package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store guarda e remove fotos enviadas pelos usuários.
// Implementações: diretório local (padrão) e S3.
type Store interface {
	// Save persiste o arquivo e devolve a URL pública.
	Save(ctx context.Context, dir, filename string, data []byte) (string, error)
	Remove(ctx context.Context, url string) error
}

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

func AllowedExt(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// NewFilename gera um nome único: timestamp + sufixo aleatório,
// preservando a extensão original.
func NewFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%d_%s%s", time.Now().Unix(), suffix, ext)
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return "application/octet-stream"
}
