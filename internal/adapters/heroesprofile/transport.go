package heroesprofile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jose-valero/hots-lobby-bot/internal/infra/metrics"
)

const defaultBase = "https://api.heroesprofile.com/api"

type Client struct {
	tokens  TokenSource
	http    *http.Client
	baseURL string
	region  int
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
}

func New(tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		tokens:  tokens,
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBase,
		region:  2,
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		sleep:   sleepCtx,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// doJSON: agrega el token, reintenta una vez tras 401/403/419 con token nuevo
// y una vez tras 429 respetando Retry-After.
func (c *Client) doJSON(ctx context.Context, path string, q url.Values, out any) error {
	var authRetried, rateRetried bool
	for {
		status, retryAfter, err := c.attempt(ctx, path, q, out)
		switch {
		case isAuthStatus(status) && !authRetried:
			authRetried = true
			log.Ctx(ctx).Debug().Int("status", status).Msg("heroes profile token rejected, refreshing")
			c.tokens.Invalidate()
			continue
		case status == http.StatusTooManyRequests && !rateRetried:
			rateRetried = true
			if err := c.sleep(ctx, retryAfter); err != nil {
				return err
			}
			continue
		}
		return err
	}
}

func (c *Client) attempt(ctx context.Context, path string, q url.Values, out any) (int, time.Duration, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, 0, err
	}
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return 0, 0, err
	}

	qq := url.Values{}
	for k, v := range q {
		qq[k] = v
	}
	qq.Set("api_token", tok)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+qq.Encode(), nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		metrics.ExternalRequests.WithLabelValues("error").Inc()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, 0, err
		}
		return 0, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	metrics.ExternalRequests.WithLabelValues(strconv.Itoa(res.StatusCode)).Inc()

	if res.StatusCode == http.StatusNotFound {
		return res.StatusCode, 0, ErrNotFound
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return res.StatusCode, retryAfter(res.Header.Get("Retry-After")), &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return res.StatusCode, 0, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return res.StatusCode, 0, nil
}

// 419 lo usa HP (Laravel) cuando vence la sesión del token.
func isAuthStatus(s int) bool {
	return s == http.StatusUnauthorized || s == http.StatusForbidden || s == 419
}

// Retry-After en segundos; sin header o inválido, 1s. Tope de 30s.
func retryAfter(h string) time.Duration {
	sec, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || sec < 0 {
		return time.Second
	}
	return min(time.Duration(sec)*time.Second, 30*time.Second)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
