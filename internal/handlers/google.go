package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"stocktrack/api/internal/cache"
	"stocktrack/api/internal/config"
	"stocktrack/api/internal/security"
	"stocktrack/api/internal/service"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleAuth implements the redirect-based federated login: authorization
// request, provider callback, token issuance, redirect back to the client.
type GoogleAuth struct {
	oauth  *oauth2.Config
	auth   *service.AuthService
	states *cache.StateStore
	cfg    *config.AppConfig
	log    zerolog.Logger
}

func NewGoogleAuth(cfg *config.AppConfig, auth *service.AuthService, states *cache.StateStore, log zerolog.Logger) *GoogleAuth {
	return &GoogleAuth{
		oauth: &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		auth:   auth,
		states: states,
		cfg:    cfg,
		log:    log,
	}
}

func (g *GoogleAuth) Start(c *gin.Context) {
	state, err := security.GenerateState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error starting Google login"})
		return
	}

	if err := g.states.Save(c.Request.Context(), state); err != nil {
		g.log.Error().Err(err).Msg("save oauth state failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error starting Google login"})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, g.oauth.AuthCodeURL(state))
}

func (g *GoogleAuth) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	state := c.Query("state")
	if !g.states.Take(ctx, state) {
		g.log.Warn().Msg("google callback with unknown state")
		g.redirectFailure(c)
		return
	}

	code := c.Query("code")
	if code == "" {
		g.redirectFailure(c)
		return
	}

	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		g.log.Warn().Err(err).Msg("google code exchange failed")
		g.redirectFailure(c)
		return
	}

	email, err := g.fetchEmail(ctx, token)
	if err != nil {
		g.log.Warn().Err(err).Msg("google userinfo fetch failed")
		g.redirectFailure(c)
		return
	}

	result, err := g.auth.CompleteGoogleLogin(ctx, email)
	if err != nil {
		g.log.Warn().Err(err).Str("email", email).Msg("google login rejected")
		g.redirectFailure(c)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s%s?token=%s",
		g.cfg.Google.FrontendURL,
		g.cfg.Google.SuccessPath,
		url.QueryEscape(result.Token),
	))
}

func (g *GoogleAuth) fetchEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	resp, err := g.oauth.Client(ctx, token).Get(userinfoEndpoint)
	if err != nil {
		return "", fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Email == "" {
		return "", fmt.Errorf("userinfo without email")
	}
	return info.Email, nil
}

func (g *GoogleAuth) redirectFailure(c *gin.Context) {
	c.Redirect(http.StatusFound, g.cfg.Google.FrontendURL+g.cfg.Google.FailurePath)
}
