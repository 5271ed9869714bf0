package servico

// ===============================
// Tipos de serviço
// ===============================

type Tipo string

const (
	TipoBanho     Tipo = "banho"
	TipoVacinacao Tipo = "vacinacao"
	TipoConsulta  Tipo = "consulta"
)

func IsValidTipo(t string) bool {
	switch Tipo(t) {
	case TipoBanho, TipoVacinacao, TipoConsulta:
		return true
	}
	return false
}
