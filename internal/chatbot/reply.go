package chatbot

import (
	"encoding/json"
	"strings"
)

// Reply é o contrato JSON que o modelo devolve.
type Reply struct {
	Sucesso  bool   `json:"sucesso"`
	Acao     string `json:"acao"`
	Pet      string `json:"pet"`
	Clinica  string `json:"clinica"`
	Tipo     string `json:"tipo"`
	Data     string `json:"data"`
	Mensagem string `json:"mensagem"`
}

const (
	AcaoAgendar  = "agendar"
	AcaoRemarcar = "remarcar"
	AcaoCancelar = "cancelar"
)

// StripFences remove uma cerca markdown (```json ... ```) quando o
// modelo embrulha a resposta nela. É o único fallback de parsing.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// descarta o rótulo da linguagem ("json")
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseReply decodifica a resposta do modelo.
func ParseReply(raw string) (*Reply, error) {
	var r Reply
	if err := json.Unmarshal([]byte(StripFences(raw)), &r); err != nil {
		return nil, err
	}
	return &r, nil
}
