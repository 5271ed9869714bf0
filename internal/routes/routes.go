package routes

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petcloud/petcloud-api/internal/audit"
	"github.com/petcloud/petcloud-api/internal/chatbot"
	"github.com/petcloud/petcloud-api/internal/config"
	"github.com/petcloud/petcloud-api/internal/handlers"
	"github.com/petcloud/petcloud-api/internal/infra/repository"
	"github.com/petcloud/petcloud-api/internal/mail"
	"github.com/petcloud/petcloud-api/internal/middleware"
	"github.com/petcloud/petcloud-api/internal/storage"
	usecase "github.com/petcloud/petcloud-api/internal/usecase/servico"
)

// RegisterRoutes monta as dependências e registra toda a API.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// --------------------------------------------------
	// Infra compartilhada
	// --------------------------------------------------
	auditDispatcher := audit.NewDispatcher(audit.New(db))

	var store storage.Store
	if cfg.S3Bucket != "" {
		store = storage.NewS3Store(storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
			BaseURL:   cfg.S3BaseURL,
		})
		log.Println("storage: S3, bucket", cfg.S3Bucket)
	} else {
		store = storage.NewLocalStore(cfg.UploadDir)
		r.Static("/uploads", cfg.UploadDir)
	}

	oauthService := mail.NewOAuthService(cfg)
	mailer := mail.NewMailer(cfg, oauthService)

	rdb := middleware.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if cfg.RedisAddr != "" && rdb == nil {
		log.Println("redis indisponível, rate limit desativado")
	}

	var llm chatbot.Client
	if cfg.OpenAIKey != "" {
		llm = chatbot.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel)
	}

	// --------------------------------------------------
	// Núcleo de agendamento
	// --------------------------------------------------
	repo := repository.NewServicoGormRepository(db)
	createUC := usecase.NewCreateServico(repo, auditDispatcher)
	rescheduleUC := usecase.NewRescheduleServico(repo, auditDispatcher)
	deleteUC := usecase.NewDeleteServico(repo, auditDispatcher)

	// --------------------------------------------------
	// Handlers
	// --------------------------------------------------
	authHandler := handlers.NewAuthHandler(db, cfg, auditDispatcher)
	resetHandler := handlers.NewPasswordResetHandler(db, cfg, mailer, auditDispatcher)
	petHandler := handlers.NewPetHandler(db, cfg, store, auditDispatcher)
	usersHandler := handlers.NewUsersHandler(db)
	clinicaHandler := handlers.NewClinicaHandler(db)
	servicoHandler := handlers.NewServicoHandler(repo, createUC, rescheduleUC, deleteUC)
	vaccineHandler := handlers.NewVaccineHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db)
	concursoHandler := handlers.NewConcursoHandler(db, cfg, store, auditDispatcher)
	chatbotHandler := handlers.NewChatbotHandler(db, llm, createUC, rescheduleUC, deleteUC)
	oauthHandler := handlers.NewOAuthHandler(oauthService, mailer)
	auditHandler := handlers.NewAuditLogsHandler(db)

	optionalAuth := middleware.OptionalAuthMiddleware(cfg)

	// --------------------------------------------------
	// Rotas
	// --------------------------------------------------
	api := r.Group("/api")
	api.Use(optionalAuth)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/change-password", authHandler.ChangePassword)
			auth.POST("/request-password-reset", resetHandler.Request)
			auth.POST("/reset-password", resetHandler.Reset)
		}

		api.GET("/me", middleware.AuthMiddleware(cfg), usersHandler.Me)
		api.GET("/users", usersHandler.Lookup)

		pets := api.Group("/pets")
		{
			pets.POST("", petHandler.Create)
			pets.GET("", petHandler.List)
			pets.GET("/:id", petHandler.Get)
			pets.PUT("/:id", petHandler.Update)
			pets.DELETE("/:id", petHandler.Delete)
			pets.POST("/:id/foto", petHandler.UploadPhoto)
		}

		clinicas := api.Group("/clinicas")
		{
			clinicas.GET("", clinicaHandler.List)
			clinicas.POST("", clinicaHandler.Create)
		}

		servicos := api.Group("/servicos")
		{
			servicos.POST("", servicoHandler.Create)
			servicos.GET("", servicoHandler.List)
			servicos.GET("/:id", servicoHandler.Get)
			servicos.PUT("/:id", servicoHandler.Update)
			servicos.DELETE("/:id", servicoHandler.Delete)
		}

		vaccines := api.Group("/vaccines")
		{
			vaccines.POST("", vaccineHandler.Create)
			vaccines.GET("", vaccineHandler.List)
		}

		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/stats", dashboardHandler.Stats)
			dashboard.GET("/vacinas-vencidas", dashboardHandler.VacinasVencidas)
			dashboard.GET("/proximos-agendamentos", dashboardHandler.ProximosAgendamentos)
		}

		concurso := api.Group("/concurso")
		{
			concurso.POST("/enviar", concursoHandler.Enviar)
			concurso.GET("/fotos", concursoHandler.Fotos)
			concurso.POST("/votar/:id", concursoHandler.Votar)
			concurso.DELETE("/deletar/:id", concursoHandler.Deletar)
		}

		rateLimit := middleware.RateLimitMiddleware(
			rdb,
			cfg.ChatbotRateLimit,
			time.Duration(cfg.ChatbotRateWindow)*time.Second,
		)
		api.POST("/chatbot/agendar", rateLimit, chatbotHandler.Agendar)

		oauth := api.Group("/oauth")
		{
			oauth.GET("/authorize", oauthHandler.Authorize)
			oauth.GET("/callback", oauthHandler.Callback)
			oauth.GET("/status", oauthHandler.Status)
		}

		api.GET("/audit-logs", middleware.AuthMiddleware(cfg), auditHandler.List)
	}
}
