package handlers_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/petcloud/petcloud-api/internal/models"
)

func TestChatbotAgendaServico(t *testing.T) {
	env := newTestEnv(t)

	env.registerUser("Ana", "ana@x.com", "pw1")
	env.createPet("Rex", nil, time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC))
	env.createClinica("Clínica VetCare", "vacinacao", 120.0, "Dra. Ana Souza")

	data := time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	// resposta embrulhada em cerca markdown, como os modelos costumam devolver
	env.llm.response = "```json\n{\"sucesso\": true, \"acao\": \"agendar\", \"pet\": \"rex\", " +
		"\"clinica\": \"clínica vetcare\", \"tipo\": \"vacinacao\", \"data\": \"" + data + "\", " +
		"\"mensagem\": \"Vacinação do Rex agendada!\"}\n```"

	w := env.doJSON(http.MethodPost, "/api/chatbot/agendar", gin.H{
		"message":    "agenda vacina pro Rex semana que vem",
		"user_email": "ana@x.com",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	body := decode(t, w)
	if body["resposta"] != "Vacinação do Rex agendada!" {
		t.Fatalf("resposta = %q", body["resposta"])
	}

	servico, ok := body["servico"].(map[string]any)
	if !ok {
		t.Fatalf("resposta sem servico: %v", body)
	}
	if servico["tipo"] != "vacinacao" || servico["data_agendada"] != data {
		t.Fatalf("servico = %v", servico)
	}

	var count int64
	env.db.Model(&models.Servico{}).Count(&count)
	if count != 1 {
		t.Fatalf("%d servicos no banco, esperava 1", count)
	}
}

func TestChatbotPetDesconhecido(t *testing.T) {
	env := newTestEnv(t)

	env.registerUser("Ana", "ana@x.com", "pw1")
	env.createPet("Rex", nil, time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC))
	env.createClinica("Clínica VetCare", "vacinacao", 120.0, "Dra. Ana Souza")

	env.llm.response = `{"sucesso": true, "acao": "agendar", "pet": "Totó", ` +
		`"clinica": "Clínica VetCare", "tipo": "vacinacao", "data": "2026-10-01", "mensagem": "ok"}`

	w := env.doJSON(http.MethodPost, "/api/chatbot/agendar", gin.H{
		"message": "agenda vacina pro Totó",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	resposta := decode(t, w)["resposta"].(string)
	if !strings.Contains(resposta, "Totó") {
		t.Fatalf("esclarecimento sem o nome do pet: %q", resposta)
	}

	var count int64
	env.db.Model(&models.Servico{}).Count(&count)
	if count != 0 {
		t.Fatal("nome não resolvido não pode criar serviço")
	}
}

func TestChatbotTextoLivre(t *testing.T) {
	env := newTestEnv(t)

	env.llm.response = "Oi! Como posso ajudar com o seu pet?"

	w := env.doJSON(http.MethodPost, "/api/chatbot/agendar", gin.H{
		"message": "oi",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	if resposta := decode(t, w)["resposta"]; resposta != "Oi! Como posso ajudar com o seu pet?" {
		t.Fatalf("resposta = %q", resposta)
	}
}

func TestChatbotSucessoFalsoRepassaMensagem(t *testing.T) {
	env := newTestEnv(t)

	env.llm.response = `{"sucesso": false, "mensagem": "Para qual pet seria o banho?"}`

	w := env.doJSON(http.MethodPost, "/api/chatbot/agendar", gin.H{
		"message": "quero marcar um banho",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if resposta := decode(t, w)["resposta"]; resposta != "Para qual pet seria o banho?" {
		t.Fatalf("resposta = %q", resposta)
	}
}

func TestChatbotCancelaServico(t *testing.T) {
	env := newTestEnv(t)

	env.registerUser("Ana", "ana@x.com", "pw1")
	petID := env.createPet("Rex", nil, time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC))

	seed := models.Servico{
		PetID:        petID,
		Tipo:         "banho",
		DataAgendada: time.Now().AddDate(0, 0, 5),
	}
	if err := env.db.Create(&seed).Error; err != nil {
		t.Fatalf("seed servico: %v", err)
	}

	env.llm.response = `{"sucesso": true, "acao": "cancelar", "pet": "Rex", "tipo": "banho", ` +
		`"mensagem": "Banho do Rex cancelado."}`

	w := env.doJSON(http.MethodPost, "/api/chatbot/agendar", gin.H{
		"message": "cancela o banho do Rex",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var count int64
	env.db.Model(&models.Servico{}).Count(&count)
	if count != 0 {
		t.Fatal("serviço deveria ter sido cancelado")
	}
}

func TestChatbotErroDoModelo(t *testing.T) {
	env := newTestEnv(t)

	env.llm.err = errors.New("timeout")

	w := env.doJSON(http.MethodPost, "/api/chatbot/agendar", gin.H{
		"message": "oi",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, esperava 500", w.Code)
	}
	if body := decode(t, w); body["message"] != "Erro ao processar mensagem." {
		t.Fatalf("message = %q", body["message"])
	}
}

func TestChatbotContextoDoUsuario(t *testing.T) {
	env := newTestEnv(t)

	anaID := env.registerUser("Ana", "ana@x.com", "pw1")
	betoID := env.registerUser("Beto", "beto@x.com", "pw1")
	env.createPet("Rex", &anaID, time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC))
	env.createPet("Mia", &betoID, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC))

	env.llm.response = "oi"

	w := env.doJSON(http.MethodPost, "/api/chatbot/agendar", gin.H{
		"message":    "oi",
		"user_email": "ana@x.com",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	if len(env.llm.prompts) != 1 {
		t.Fatalf("%d chamadas ao modelo, esperava 1", len(env.llm.prompts))
	}
	system := env.llm.prompts[0][0].Content
	if !strings.Contains(system, "Rex") {
		t.Fatal("prompt sem o pet do tutor")
	}
	if strings.Contains(system, "Mia") {
		t.Fatal("prompt vazou pet de outro tutor")
	}
}
