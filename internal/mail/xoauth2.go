package mail

import (
	"errors"
	"fmt"
	"net/smtp"
)

// xoauth2Auth implementa o mecanismo SASL XOAUTH2 usado pelo Gmail.
// net/smtp só traz PLAIN e CRAM-MD5, então a resposta inicial é
// montada aqui no formato documentado pelo Google.
type xoauth2Auth struct {
	user  string
	token string
}

func newXOAuth2Auth(user, token string) smtp.Auth {
	return &xoauth2Auth{user: user, token: token}
}

func (a *xoauth2Auth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	if !server.TLS {
		return "", nil, errors.New("xoauth2: conexão sem TLS")
	}
	resp := fmt.Sprintf("user=%s\x01auth=Bearer %s\x01\x01", a.user, a.token)
	return "XOAUTH2", []byte(resp), nil
}

func (a *xoauth2Auth) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		// O servidor só continua o diálogo para reportar erro;
		// responder vazio encerra e deixa o erro chegar como resposta SMTP
		return []byte{}, nil
	}
	return nil, nil
}
