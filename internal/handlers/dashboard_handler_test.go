package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/petcloud/petcloud-api/internal/models"
	"github.com/petcloud/petcloud-api/internal/timezone"
)

func TestVacinasVencidas(t *testing.T) {
	env := newTestEnv(t)

	nuncaID := env.createPet("Nunca", nil, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	vencidoID := env.createPet("Vencido", nil, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	emDiaID := env.createPet("EmDia", nil, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	seed := []models.Servico{
		{PetID: vencidoID, Tipo: "vacinacao", DataAgendada: time.Now().AddDate(-2, 0, 0)},
		{PetID: emDiaID, Tipo: "vacinacao", DataAgendada: time.Now().AddDate(0, -3, 0)},
		// banho antigo não conta como vacinação
		{PetID: emDiaID, Tipo: "banho", DataAgendada: time.Now().AddDate(-2, 0, 0)},
	}
	if err := env.db.Create(&seed).Error; err != nil {
		t.Fatalf("seed servicos: %v", err)
	}

	w := env.doJSON(http.MethodGet, "/api/dashboard/vacinas-vencidas", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	entries := decode(t, w)["vacinas_vencidas"].([]any)
	ids := map[uint]map[string]any{}
	for _, e := range entries {
		entry := e.(map[string]any)
		ids[uint(entry["pet_id"].(float64))] = entry
	}

	if _, ok := ids[nuncaID]; !ok {
		t.Fatal("pet sem nenhuma vacinação deveria aparecer")
	}
	if _, ok := ids[vencidoID]; !ok {
		t.Fatal("pet com vacinação há mais de um ano deveria aparecer")
	}
	if _, ok := ids[emDiaID]; ok {
		t.Fatal("pet vacinado há 3 meses não deveria aparecer")
	}

	// nunca vacinado não tem data de última vacinação
	if ids[nuncaID]["ultima_vacinacao"] != nil {
		t.Fatalf("ultima_vacinacao = %v", ids[nuncaID]["ultima_vacinacao"])
	}
	if ids[vencidoID]["ultima_vacinacao"] == nil {
		t.Fatal("esperava data da última vacinação vencida")
	}
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)

	petID := env.createPet("Rex", nil, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	env.createPet("Mia", nil, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))

	seed := []models.Servico{
		// hoje: entra no gasto do mês e nos próximos agendamentos
		{PetID: petID, Tipo: "vacinacao", DataAgendada: timezone.Today().Add(12 * time.Hour), Preco: 120.0},
		// ano passado: fora do mês corrente
		{PetID: petID, Tipo: "banho", DataAgendada: time.Now().AddDate(-1, 0, 0), Preco: 60.0},
	}
	if err := env.db.Create(&seed).Error; err != nil {
		t.Fatalf("seed servicos: %v", err)
	}

	w := env.doJSON(http.MethodGet, "/api/dashboard/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	stats := decode(t, w)["stats"].(map[string]any)
	if int(stats["total_pets"].(float64)) != 2 {
		t.Fatalf("total_pets = %v", stats["total_pets"])
	}
	if stats["gasto_mes"].(float64) != 120.0 {
		t.Fatalf("gasto_mes = %v, esperava 120", stats["gasto_mes"])
	}
	// Mia nunca foi vacinada; Rex foi hoje
	if int(stats["vacinas_vencidas"].(float64)) != 1 {
		t.Fatalf("vacinas_vencidas = %v, esperava 1", stats["vacinas_vencidas"])
	}
	if int(stats["proximos_agendamentos"].(float64)) != 1 {
		t.Fatalf("proximos_agendamentos = %v, esperava 1", stats["proximos_agendamentos"])
	}
}

func TestProximosAgendamentosOrder(t *testing.T) {
	env := newTestEnv(t)

	petID := env.createPet("Rex", nil, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	seed := []models.Servico{
		{PetID: petID, Tipo: "consulta", DataAgendada: time.Now().AddDate(0, 0, 30)},
		{PetID: petID, Tipo: "banho", DataAgendada: time.Now().AddDate(0, 0, 2)},
		// passado fica de fora
		{PetID: petID, Tipo: "vacinacao", DataAgendada: time.Now().AddDate(0, 0, -10)},
	}
	if err := env.db.Create(&seed).Error; err != nil {
		t.Fatalf("seed servicos: %v", err)
	}

	w := env.doJSON(http.MethodGet, "/api/dashboard/proximos-agendamentos", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	agendamentos := decode(t, w)["agendamentos"].([]any)
	if len(agendamentos) != 2 {
		t.Fatalf("%d agendamentos, esperava 2", len(agendamentos))
	}
	if agendamentos[0].(map[string]any)["tipo"] != "banho" {
		t.Fatal("esperava o mais próximo primeiro")
	}
}
