package servico

import "time"

// Janela de validade de uma vacinação.
const VaccinationValidityDays = 365

// IsVaccinationOverdue aplica a regra do dashboard: pet sem nenhuma
// vacinação registrada, ou com a mais recente há mais de 365 dias.
func IsVaccinationOverdue(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	limit := now.AddDate(0, 0, -VaccinationValidityDays)
	return last.Before(limit)
}

// DaysOverdue devolve há quantos dias a última vacinação venceu
// (0 quando nunca houve vacinação).
func DaysOverdue(last *time.Time, now time.Time) int {
	if last == nil {
		return 0
	}
	days := int(now.Sub(*last).Hours()/24) - VaccinationValidityDays
	if days < 0 {
		return 0
	}
	return days
}
