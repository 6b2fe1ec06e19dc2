package heroesprofile

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenSource da el token para cada request. Invalidate fuerza que el
// próximo Token() pida uno nuevo (lo usa el cliente después de un 401).
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

type staticToken string

// StaticToken para el api_token fijo de HP; Invalidate no hace nada.
func StaticToken(tok string) TokenSource { return staticToken(tok) }

func (s staticToken) Token(context.Context) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: no api token configured", ErrUnavailable)
	}
	return string(s), nil
}
func (staticToken) Invalidate() {}

type credentialsToken struct {
	cfg  clientcredentials.Config
	http *http.Client

	mu  sync.Mutex
	tok *oauth2.Token
}

// ClientCredentials pide tokens a tokenURL con client credentials y los
// cachea hasta que vencen o se invalidan.
func ClientCredentials(tokenURL, clientID, clientSecret string, hc *http.Client) TokenSource {
	return &credentialsToken{
		cfg:  clientcredentials.Config{ClientID: clientID, ClientSecret: clientSecret, TokenURL: tokenURL},
		http: hc,
	}
}

func (s *credentialsToken) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tok.Valid() {
		return s.tok.AccessToken, nil
	}
	if s.http != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.http)
	}
	t, err := s.cfg.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: token refresh: %v", ErrUnavailable, err)
	}
	s.tok = t
	return t.AccessToken, nil
}

func (s *credentialsToken) Invalidate() {
	s.mu.Lock()
	s.tok = nil
	s.mu.Unlock()
}
