package handlers_test

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConcursoEnviarEVotar(t *testing.T) {
	env := newTestEnv(t)

	env.registerUser("Ana", "ana@x.com", "pw1")
	env.createPet("Rex", nil, time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC))

	w := env.doMultipart("/api/concurso/enviar", "imagem", "rex.png", pngBytes(t), map[string]string{
		"pet_id":     "1",
		"user_email": "ana@x.com",
		"descricao":  "Rex na praia",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("enviar: status = %d, body %s", w.Code, w.Body.String())
	}

	foto := decode(t, w)["foto"].(map[string]any)
	if foto["descricao"] != "Rex na praia" {
		t.Fatalf("descricao = %q", foto["descricao"])
	}
	if int(foto["votos"].(float64)) != 0 {
		t.Fatalf("votos iniciais = %v", foto["votos"])
	}

	imagemURL := foto["imagem_url"].(string)
	if !strings.HasPrefix(imagemURL, "/uploads/concurso/") {
		t.Fatalf("imagem_url = %q", imagemURL)
	}

	// arquivo e miniatura realmente gravados
	rel := strings.TrimPrefix(imagemURL, "/uploads/")
	if _, err := os.Stat(filepath.Join(env.cfg.UploadDir, rel)); err != nil {
		t.Fatalf("arquivo não gravado: %v", err)
	}
	thumbRel := rel[:strings.LastIndex(rel, ".")] + "_thumb.webp"
	if _, err := os.Stat(filepath.Join(env.cfg.UploadDir, thumbRel)); err != nil {
		t.Fatalf("miniatura não gravada: %v", err)
	}

	// votos crescem um a um
	for i := 1; i <= 3; i++ {
		w = env.doJSON(http.MethodPost, "/api/concurso/votar/1", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("votar: status = %d, body %s", w.Code, w.Body.String())
		}
		if got := int(decode(t, w)["votos"].(float64)); got != i {
			t.Fatalf("votos = %d, esperava %d", got, i)
		}
	}
}

func TestConcursoUmPetUmaFoto(t *testing.T) {
	env := newTestEnv(t)

	env.registerUser("Ana", "ana@x.com", "pw1")
	env.createPet("Rex", nil, time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC))

	fields := map[string]string{"pet_id": "1", "user_email": "ana@x.com"}

	if w := env.doMultipart("/api/concurso/enviar", "imagem", "rex.png", pngBytes(t), fields); w.Code != http.StatusCreated {
		t.Fatalf("primeiro envio: status = %d", w.Code)
	}

	w := env.doMultipart("/api/concurso/enviar", "imagem", "rex2.png", pngBytes(t), fields)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("segundo envio: status = %d, esperava 400", w.Code)
	}
	if body := decode(t, w); body["message"] != "Este pet já está participando do concurso." {
		t.Fatalf("message = %q", body["message"])
	}
}

func TestConcursoRejeitaExtensao(t *testing.T) {
	env := newTestEnv(t)

	env.registerUser("Ana", "ana@x.com", "pw1")
	env.createPet("Rex", nil, time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC))

	w := env.doMultipart("/api/concurso/enviar", "imagem", "rex.bmp", pngBytes(t), map[string]string{
		"pet_id":     "1",
		"user_email": "ana@x.com",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperava 400", w.Code)
	}
}

func TestConcursoFotosOrdenadasPorVotos(t *testing.T) {
	env := newTestEnv(t)

	env.registerUser("Ana", "ana@x.com", "pw1")
	env.createPet("Rex", nil, time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC))
	env.createPet("Mia", nil, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC))

	for _, petID := range []string{"1", "2"} {
		w := env.doMultipart("/api/concurso/enviar", "imagem", "foto"+petID+".png", pngBytes(t), map[string]string{
			"pet_id":     petID,
			"user_email": "ana@x.com",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("enviar pet %s: status = %d", petID, w.Code)
		}
	}

	// Mia recebe dois votos e passa na frente
	env.doJSON(http.MethodPost, "/api/concurso/votar/2", nil)
	env.doJSON(http.MethodPost, "/api/concurso/votar/2", nil)

	w := env.doJSON(http.MethodGet, "/api/concurso/fotos", nil)
	fotos := decode(t, w)["fotos"].([]any)
	if len(fotos) != 2 {
		t.Fatalf("%d fotos, esperava 2", len(fotos))
	}

	first := fotos[0].(map[string]any)
	if first["pet_name"] != "Mia" {
		t.Fatalf("primeira foto = %q, esperava Mia", first["pet_name"])
	}
	if first["user_email"] != "ana@x.com" {
		t.Fatalf("user_email = %q", first["user_email"])
	}
}

func TestConcursoDeletarSoDono(t *testing.T) {
	env := newTestEnv(t)

	env.registerUser("Ana", "ana@x.com", "pw1")
	env.registerUser("Beto", "beto@x.com", "pw1")
	env.createPet("Rex", nil, time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC))

	w := env.doMultipart("/api/concurso/enviar", "imagem", "rex.png", pngBytes(t), map[string]string{
		"pet_id":     "1",
		"user_email": "ana@x.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("enviar: status = %d", w.Code)
	}
	imagemURL := decode(t, w)["foto"].(map[string]any)["imagem_url"].(string)

	// outro usuário não remove
	w = env.doJSON(http.MethodDelete, "/api/concurso/deletar/1?user_email=beto@x.com", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, esperava 403", w.Code)
	}

	// sem identificação também não
	w = env.doJSON(http.MethodDelete, "/api/concurso/deletar/1", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, esperava 403", w.Code)
	}

	w = env.doJSON(http.MethodDelete, "/api/concurso/deletar/1?user_email=ana@x.com", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dono: status = %d, body %s", w.Code, w.Body.String())
	}

	rel := strings.TrimPrefix(imagemURL, "/uploads/")
	if _, err := os.Stat(filepath.Join(env.cfg.UploadDir, rel)); !os.IsNotExist(err) {
		t.Fatal("arquivo deveria ter sido removido")
	}
}
