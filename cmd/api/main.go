package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/petcloud/petcloud-api/internal/config"
	dbpkg "github.com/petcloud/petcloud-api/internal/db"
	"github.com/petcloud/petcloud-api/internal/middleware"
	"github.com/petcloud/petcloud-api/internal/routes"
)

func main() {
	// .env é opcional; em produção as variáveis vêm do ambiente
	_ = godotenv.Load()

	cfg := config.Load()

	db := dbpkg.NewDB(cfg)

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg)

	log.Println("PetCloud API ouvindo em", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("erro ao subir servidor:", err)
	}
}
