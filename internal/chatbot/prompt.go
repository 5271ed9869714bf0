package chatbot

import (
	"fmt"
	"strings"

	"github.com/petcloud/petcloud-api/internal/models"
)

// BuildSystemPrompt monta o contexto que o modelo recebe a cada
// requisição: pets, clínicas e agendamentos atuais, mais o contrato
// JSON da resposta. Não há estado entre requisições — o histórico
// da conversa vai junto como texto.
func BuildSystemPrompt(
	pets []models.Pet,
	clinicas []models.Clinica,
	servicos []models.Servico,
) string {

	var b strings.Builder

	b.WriteString("Você é o assistente de agendamentos do PetCloud. ")
	b.WriteString("Interprete a mensagem do tutor e decida se é possível agendar, ")
	b.WriteString("remarcar ou cancelar um serviço (banho, vacinacao ou consulta).\n\n")

	b.WriteString("Pets cadastrados:\n")
	if len(pets) == 0 {
		b.WriteString("- nenhum\n")
	}
	for _, p := range pets {
		b.WriteString(fmt.Sprintf("- %s (%s, %s)\n", p.Name, p.Type, p.Breed))
	}

	b.WriteString("\nClínicas parceiras:\n")
	for _, cl := range clinicas {
		b.WriteString(fmt.Sprintf(
			"- %s | serviço: %s | preço: R$ %.2f | veterinário: %s\n",
			cl.Nome, cl.TipoServico, cl.PrecoServico, cl.Veterinario,
		))
	}

	b.WriteString("\nAgendamentos existentes:\n")
	if len(servicos) == 0 {
		b.WriteString("- nenhum\n")
	}
	for _, s := range servicos {
		petName := ""
		if s.Pet != nil {
			petName = s.Pet.Name
		}
		b.WriteString(fmt.Sprintf(
			"- %s: %s em %s\n",
			petName, s.Tipo, s.DataAgendada.Format("2006-01-02"),
		))
	}

	b.WriteString("\nResponda SEMPRE com um único objeto JSON, sem texto fora dele:\n")
	b.WriteString(`{
  "sucesso": true ou false,
  "acao": "agendar" | "remarcar" | "cancelar",
  "pet": "nome exato do pet",
  "clinica": "nome exato da clínica",
  "tipo": "banho" | "vacinacao" | "consulta",
  "data": "YYYY-MM-DD",
  "mensagem": "resposta amigável para o tutor"
}`)
	b.WriteString("\n\nUse sucesso=false quando faltar informação, e explique o que falta em \"mensagem\". ")
	b.WriteString("Converta datas relativas (amanhã, sexta que vem) para YYYY-MM-DD.")

	return b.String()
}
