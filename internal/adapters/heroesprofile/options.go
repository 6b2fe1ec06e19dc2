package heroesprofile

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/jose-valero/hots-lobby-bot/internal/infra/config"
)

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}
func WithRegion(r int) Option {
	return func(c *Client) { c.region = r }
}

// WithRateLimit limita las requests salientes (HP corta a los que abusan).
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, burst) }
}

// NewFromConfig arma el cliente según lo que haya configurado.
// ok=false si no hay ni token fijo ni client credentials.
func NewFromConfig(cfg config.HeroesProfileConfig, opts ...Option) (c *Client, ok bool) {
	var tokens TokenSource
	switch {
	case cfg.TokenURL != "" && cfg.ClientID != "":
		tokens = ClientCredentials(cfg.TokenURL, cfg.ClientID, cfg.ClientSecret, nil)
	case cfg.APIToken != "":
		tokens = StaticToken(cfg.APIToken)
	default:
		return nil, false
	}
	base := []Option{WithBaseURL(cfg.BaseURL), WithRegion(cfg.Region)}
	return New(tokens, append(base, opts...)...), true
}
