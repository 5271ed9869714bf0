package db

import (
	"log"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/petcloud/petcloud-api/internal/config"
	"github.com/petcloud/petcloud-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(dialector(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	seedClinicas(db)

	return db
}

// dialector escolhe o driver: arquivo SQLite por padrão,
// Postgres quando DATABASE_URL aponta para um.
func dialector(url string) gorm.Dialector {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return postgres.Open(url)
	}
	return sqlite.Open(url)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Pet{},
		&models.Clinica{},
		&models.Servico{},
		&models.Vaccine{},
		&models.PasswordReset{},
		&models.Concurso{},
		&models.AuditLog{},
	)
}

// seedClinicas insere as clínicas parceiras quando a tabela está vazia.
func seedClinicas(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Clinica{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	clinicas := []models.Clinica{
		{Nome: "Clínica VetCare", TipoServico: "vacinacao", PrecoServico: 120.0, Veterinario: "Dra. Ana Souza"},
		{Nome: "PetShop Banho Feliz", TipoServico: "banho", PrecoServico: 60.0, Veterinario: "Carlos Lima"},
		{Nome: "Hospital Veterinário Central", TipoServico: "consulta", PrecoServico: 180.0, Veterinario: "Dr. Roberto Dias"},
		{Nome: "Clínica Amigo Fiel", TipoServico: "vacinacao", PrecoServico: 95.0, Veterinario: "Dra. Paula Mendes"},
	}

	if err := db.Create(&clinicas).Error; err != nil {
		log.Printf("failed to seed clinicas: %v", err)
	}
}
