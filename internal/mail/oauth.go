package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/petcloud/petcloud-api/internal/config"
)

// Escopo completo de mail: o SMTP com XOAUTH2 não aceita o escopo
// restrito gmail.send da API REST.
var gmailScopes = []string{"https://mail.google.com/"}

// OAuthService cuida do fluxo de autorização do Google usado só para
// liberar o envio de e-mail transacional.
type OAuthService struct {
	conf      *oauth2.Config
	tokenFile string

	mu    sync.Mutex
	token *oauth2.Token
}

func NewOAuthService(cfg *config.Config) *OAuthService {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return nil
	}

	return &OAuthService{
		conf: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       gmailScopes,
			Endpoint:     google.Endpoint,
		},
		tokenFile: cfg.OAuthTokenFile,
	}
}

// AuthorizationURL gera a URL de consentimento do Google.
func (s *OAuthService) AuthorizationURL(state string) string {
	return s.conf.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeCode troca o código de autorização pelo token e persiste.
func (s *OAuthService) ExchangeCode(ctx context.Context, code string) error {
	token, err := s.conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("oauth exchange: %w", err)
	}
	return s.saveToken(token)
}

// AccessToken devolve um access token válido, renovando com o refresh
// token quando preciso.
func (s *OAuthService) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		token, err := s.loadToken()
		if err != nil {
			return "", err
		}
		s.token = token
	}

	fresh, err := s.conf.TokenSource(ctx, s.token).Token()
	if err != nil {
		return "", fmt.Errorf("oauth refresh: %w", err)
	}

	if fresh.AccessToken != s.token.AccessToken {
		s.token = fresh
		_ = s.writeToken(fresh)
	}

	return fresh.AccessToken, nil
}

func (s *OAuthService) IsAuthenticated(ctx context.Context) bool {
	_, err := s.AccessToken(ctx)
	return err == nil
}

func (s *OAuthService) saveToken(token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return s.writeToken(token)
}

func (s *OAuthService) writeToken(token *oauth2.Token) error {
	b, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(s.tokenFile, b, 0o600)
}

func (s *OAuthService) loadToken() (*oauth2.Token, error) {
	b, err := os.ReadFile(s.tokenFile)
	if err != nil {
		return nil, fmt.Errorf("oauth token não encontrado: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(b, &token); err != nil {
		return nil, fmt.Errorf("oauth token inválido: %w", err)
	}
	return &token, nil
}
