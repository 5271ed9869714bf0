package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/petcloud/petcloud-api/internal/audit"
	"github.com/petcloud/petcloud-api/internal/chatbot"
	"github.com/petcloud/petcloud-api/internal/config"
	dbpkg "github.com/petcloud/petcloud-api/internal/db"
	"github.com/petcloud/petcloud-api/internal/handlers"
	"github.com/petcloud/petcloud-api/internal/infra/repository"
	"github.com/petcloud/petcloud-api/internal/middleware"
	"github.com/petcloud/petcloud-api/internal/storage"
	usecase "github.com/petcloud/petcloud-api/internal/usecase/servico"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeMailer registra os envios em memória.
type fakeMailer struct {
	configured bool
	sent       []sentMail
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *fakeMailer) IsConfigured() bool { return m.configured }

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// fakeLLM devolve respostas pré-programadas.
type fakeLLM struct {
	response string
	err      error
	prompts  [][]chatbot.Message
}

func (f *fakeLLM) Complete(ctx context.Context, messages []chatbot.Message) (string, error) {
	f.prompts = append(f.prompts, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	cfg    *config.Config
	router *gin.Engine
	mailer *fakeMailer
	llm    *fakeLLM
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()

	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:    "test-secret",
		BaseURL:      "http://localhost:5000",
		UploadDir:    filepath.Join(dir, "uploads"),
		MaxUploadMB:  16,
		EmailMXCheck: false,
	}

	mailer := &fakeMailer{}
	llm := &fakeLLM{}
	store := storage.NewLocalStore(cfg.UploadDir)
	dispatcher := audit.NewDispatcher(audit.New(db))

	repo := repository.NewServicoGormRepository(db)
	createUC := usecase.NewCreateServico(repo, dispatcher)
	rescheduleUC := usecase.NewRescheduleServico(repo, dispatcher)
	deleteUC := usecase.NewDeleteServico(repo, dispatcher)

	authHandler := handlers.NewAuthHandler(db, cfg, dispatcher)
	resetHandler := handlers.NewPasswordResetHandler(db, cfg, mailer, dispatcher)
	petHandler := handlers.NewPetHandler(db, cfg, store, dispatcher)
	usersHandler := handlers.NewUsersHandler(db)
	clinicaHandler := handlers.NewClinicaHandler(db)
	servicoHandler := handlers.NewServicoHandler(repo, createUC, rescheduleUC, deleteUC)
	vaccineHandler := handlers.NewVaccineHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db)
	concursoHandler := handlers.NewConcursoHandler(db, cfg, store, dispatcher)
	chatbotHandler := handlers.NewChatbotHandler(db, llm, createUC, rescheduleUC, deleteUC)

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/change-password", authHandler.ChangePassword)
		api.POST("/auth/request-password-reset", resetHandler.Request)
		api.POST("/auth/reset-password", resetHandler.Reset)

		api.GET("/me", middleware.AuthMiddleware(cfg), usersHandler.Me)
		api.GET("/users", usersHandler.Lookup)

		api.POST("/pets", petHandler.Create)
		api.GET("/pets", petHandler.List)
		api.GET("/pets/:id", petHandler.Get)
		api.PUT("/pets/:id", petHandler.Update)
		api.DELETE("/pets/:id", petHandler.Delete)
		api.POST("/pets/:id/foto", petHandler.UploadPhoto)

		api.GET("/clinicas", clinicaHandler.List)
		api.POST("/clinicas", clinicaHandler.Create)

		api.POST("/servicos", servicoHandler.Create)
		api.GET("/servicos", servicoHandler.List)
		api.GET("/servicos/:id", servicoHandler.Get)
		api.PUT("/servicos/:id", servicoHandler.Update)
		api.DELETE("/servicos/:id", servicoHandler.Delete)

		api.POST("/vaccines", vaccineHandler.Create)
		api.GET("/vaccines", vaccineHandler.List)

		api.GET("/dashboard/stats", dashboardHandler.Stats)
		api.GET("/dashboard/vacinas-vencidas", dashboardHandler.VacinasVencidas)
		api.GET("/dashboard/proximos-agendamentos", dashboardHandler.ProximosAgendamentos)

		api.POST("/concurso/enviar", concursoHandler.Enviar)
		api.GET("/concurso/fotos", concursoHandler.Fotos)
		api.POST("/concurso/votar/:id", concursoHandler.Votar)
		api.DELETE("/concurso/deletar/:id", concursoHandler.Deletar)

		api.POST("/chatbot/agendar", chatbotHandler.Agendar)
	}

	return &testEnv{
		t:      t,
		db:     db,
		cfg:    cfg,
		router: r,
		mailer: mailer,
		llm:    llm,
	}
}

// doJSON executa uma requisição com corpo JSON e devolve o recorder.
func (e *testEnv) doJSON(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// doJSONWithToken é doJSON com Authorization: Bearer.
func (e *testEnv) doJSONWithToken(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// doMultipart monta um multipart com um arquivo e campos de formulário.
func (e *testEnv) doMultipart(path, fileField, filename string, fileData []byte, fields map[string]string) *httptest.ResponseRecorder {
	e.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile(fileField, filename)
	if err != nil {
		e.t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(fileData); err != nil {
		e.t.Fatalf("write form file: %v", err)
	}
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// registerUser cria um usuário pela API e devolve o id.
func (e *testEnv) registerUser(name, email, password string) uint {
	e.t.Helper()

	w := e.doJSON(http.MethodPost, "/api/auth/register", gin.H{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusCreated {
		e.t.Fatalf("register %s: status %d, body %s", email, w.Code, w.Body.String())
	}

	body := decode(e.t, w)
	user := body["user"].(map[string]any)
	return uint(user["id"].(float64))
}

// createPet insere um pet direto no banco.
func (e *testEnv) createPet(name string, ownerID *uint, birth time.Time) uint {
	e.t.Helper()

	w := e.doJSON(http.MethodPost, "/api/pets", gin.H{
		"nome":       name,
		"raca":       "SRD",
		"birth_date": birth.Format("2006-01-02"),
		"owner_id":   ownerID,
	})
	if w.Code != http.StatusCreated {
		e.t.Fatalf("create pet %s: status %d, body %s", name, w.Code, w.Body.String())
	}

	body := decode(e.t, w)
	pet := body["pet"].(map[string]any)
	return uint(pet["id"].(float64))
}

// createClinica insere uma clínica pela API e devolve o id.
func (e *testEnv) createClinica(nome, tipo string, preco float64, vet string) uint {
	e.t.Helper()

	w := e.doJSON(http.MethodPost, "/api/clinicas", gin.H{
		"nome":          nome,
		"tipo_servico":  tipo,
		"preco_servico": preco,
		"veterinario":   vet,
	})
	if w.Code != http.StatusCreated {
		e.t.Fatalf("create clinica %s: status %d, body %s", nome, w.Code, w.Body.String())
	}

	body := decode(e.t, w)
	clinica := body["clinica"].(map[string]any)
	return uint(clinica["id"].(float64))
}

// pngBytes gera uma imagem PNG válida para os testes de upload.
func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
