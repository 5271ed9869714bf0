package httperr

import "errors"

// BusinessError carrega um código estável para os use cases e a
// mensagem que chega ao usuário.
type BusinessError struct {
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code, message string) error {
	return BusinessError{Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessMessage extrai a mensagem de usuário, se houver.
func BusinessMessage(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Message, true
	}
	return "", false
}
