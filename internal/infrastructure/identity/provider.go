package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
)

const maxErrorBody = 4 << 10

// Provider — клиент провайдера идентификации (GoTrue-совместимый API).
type Provider struct {
	client *http.Client
	cfg    *cfg.AuthCfg
	logger logger.Logger
}

func NewProvider(cfg *cfg.AuthCfg, logger logger.Logger) *Provider {
	return &Provider{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

type passwordGrantReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionRes struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type errorRes struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (r errorRes) text() string {
	for _, s := range []string{r.ErrorDescription, r.Msg, r.Message, r.Error} {
		if s != "" {
			return s
		}
	}

	return ""
}

// SignInWithPassword выполняет password grant и возвращает сессию администратора.
// Отказ провайдера (4xx) превращается в e.ErrInvalidCredentials с текстом провайдера.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*usecase.Session, error) {
	body, err := json.Marshal(passwordGrantReq{Email: email, Password: password})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	url := p.cfg.ProviderURL + "/auth/v1/token?grant_type=password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.AnonKey != "" {
		req.Header.Set("apikey", p.cfg.AnonKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var errBody errorRes
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&errBody)

		if resp.StatusCode < http.StatusInternalServerError {
			if msg := errBody.text(); msg != "" {
				return nil, fmt.Errorf("%w: %s", e.ErrInvalidCredentials, msg)
			}
			return nil, e.ErrInvalidCredentials
		}

		p.logger.Warnf("identity provider responded %d: %s", resp.StatusCode, errBody.text())
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("identity provider status %d", resp.StatusCode))
	}

	var session sessionRes
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if session.AccessToken == "" {
		return nil, e.ErrSessionNotCreated
	}

	return &usecase.Session{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
		User: usecase.AdminUser{
			ID:    session.User.ID,
			Email: session.User.Email,
		},
	}, nil
}
