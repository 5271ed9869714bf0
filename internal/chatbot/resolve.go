package chatbot

import (
	"strings"

	"github.com/petcloud/petcloud-api/internal/models"
)

// Resolução de nome → registro: comparação exata, ignorando
// maiúsculas e espaços nas pontas. Nome não resolvido vira pedido
// de esclarecimento ao tutor, nunca um chute.

func FindPetByName(pets []models.Pet, name string) *models.Pet {
	name = strings.TrimSpace(name)
	for i := range pets {
		if strings.EqualFold(pets[i].Name, name) {
			return &pets[i]
		}
	}
	return nil
}

func FindClinicaByName(clinicas []models.Clinica, name string) *models.Clinica {
	name = strings.TrimSpace(name)
	for i := range clinicas {
		if strings.EqualFold(clinicas[i].Nome, name) {
			return &clinicas[i]
		}
	}
	return nil
}
