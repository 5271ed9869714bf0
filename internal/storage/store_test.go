package storage

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAllowedExt(t *testing.T) {
	allowed := []string{"foto.png", "foto.jpg", "FOTO.JPEG", "foto.gif", "foto.webp"}
	for _, name := range allowed {
		if !AllowedExt(name) {
			t.Errorf("AllowedExt(%q) = false", name)
		}
	}

	denied := []string{"foto.bmp", "foto.svg", "foto.txt", "foto", "foto.png.exe"}
	for _, name := range denied {
		if AllowedExt(name) {
			t.Errorf("AllowedExt(%q) = true", name)
		}
	}
}

func TestNewFilename(t *testing.T) {
	name := NewFilename("Minha Foto.PNG")

	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("extensão não preservada: %q", name)
	}
	if strings.Contains(name, " ") {
		t.Fatalf("nome gerado com espaço: %q", name)
	}
	if name == NewFilename("Minha Foto.PNG") {
		t.Fatal("dois uploads geraram o mesmo nome")
	}
}

func TestThumbnailName(t *testing.T) {
	cases := map[string]string{
		"123_abc.png":  "123_abc_thumb.webp",
		"123_abc.webp": "123_abc_thumb.webp",
		"semext":       "semext_thumb.webp",
	}
	for in, want := range cases {
		if got := ThumbnailName(in); got != want {
			t.Errorf("ThumbnailName(%q) = %q, esperava %q", in, got, want)
		}
	}
}

func TestDecodeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	decoded, err := DecodeImage(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if decoded.Bounds().Dx() != 640 {
		t.Fatalf("largura = %d", decoded.Bounds().Dx())
	}

	if _, err := DecodeImage([]byte("isto não é uma imagem")); err == nil {
		t.Fatal("esperava erro para conteúdo inválido")
	}
}

func TestThumbnailShrinksWideImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))

	thumb, err := Thumbnail(img)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if len(thumb) == 0 {
		t.Fatal("miniatura vazia")
	}

	decoded, err := DecodeImage(thumb)
	if err != nil {
		t.Fatalf("miniatura não decodifica: %v", err)
	}
	if got := decoded.Bounds().Dx(); got != 320 {
		t.Fatalf("largura da miniatura = %d, esperava 320", got)
	}
}

func TestLocalStoreSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)
	ctx := context.Background()

	url, err := store.Save(ctx, "pets", "rex.png", []byte("dados"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "/uploads/pets/rex.png" {
		t.Fatalf("url = %q", url)
	}

	path := filepath.Join(dir, "pets", "rex.png")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("arquivo não existe: %v", err)
	}

	if err := store.Remove(ctx, url); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("arquivo não foi removido")
	}

	// remover de novo não é erro
	if err := store.Remove(ctx, url); err != nil {
		t.Fatalf("Remove idempotente: %v", err)
	}
}

func TestLocalStoreRemoveRejectsTraversal(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	if err := store.Remove(context.Background(), "/uploads/../../etc/passwd"); err == nil {
		t.Fatal("esperava erro de path traversal")
	}
}

func TestLocalStoreRemoveIgnoresOtherBackends(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	if err := store.Remove(context.Background(), "https://bucket.s3.amazonaws.com/pets/rex.png"); err != nil {
		t.Fatalf("URL de outro backend deveria ser ignorada: %v", err)
	}
}
