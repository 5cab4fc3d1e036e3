package handlers

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/geordanr/xwing-backend/internal/config"
	"github.com/geordanr/xwing-backend/internal/middleware"
	"github.com/geordanr/xwing-backend/internal/oauth"
	"github.com/geordanr/xwing-backend/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type AuthHandler struct {
	cfg             *config.Config
	providers       map[string]oauth.Provider
	identityService IdentityServiceInterface
	jwtService      JWTServiceInterface
	states          sync.Map
	authCodes       sync.Map
}

type stateData struct {
	expiresAt time.Time
}

type authCodeData struct {
	userID    string
	expiresAt time.Time
}

func NewAuthHandler(
	cfg *config.Config,
	identityService IdentityServiceInterface,
	jwtService JWTServiceInterface,
) *AuthHandler {
	h := &AuthHandler{
		cfg:             cfg,
		providers:       make(map[string]oauth.Provider),
		identityService: identityService,
		jwtService:      jwtService,
	}

	if cfg.Google.ClientID != "" {
		h.providers["google"] = oauth.NewGoogleProvider(cfg.Google)
	}
	if cfg.Facebook.ClientID != "" {
		h.providers["facebook"] = oauth.NewFacebookProvider(cfg.Facebook)
	}

	go h.cleanupStates()

	return h
}

func (h *AuthHandler) cleanupStates() {
	ticker := time.NewTicker(1 * time.Minute)
	for range ticker.C {
		now := time.Now()
		h.states.Range(func(key, value interface{}) bool {
			if sd, ok := value.(stateData); ok && now.After(sd.expiresAt) {
				h.states.Delete(key)
			}
			return true
		})
		h.authCodes.Range(func(key, value interface{}) bool {
			if acd, ok := value.(authCodeData); ok && now.After(acd.expiresAt) {
				h.authCodes.Delete(key)
			}
			return true
		})
	}
}

// Methods lists the configured OAuth providers, so clients can render
// the matching login buttons.
func (h *AuthHandler) Methods(c *drift.Context) {
	methods := make([]string, 0, len(h.providers))
	for name := range h.providers {
		methods = append(methods, name)
	}
	_ = c.JSON(200, methods)
}

func (h *AuthHandler) GetConsentURL(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers[provider]
	if !ok {
		c.BadRequest("unsupported provider: " + provider)
		return
	}

	state, err := oauth.GenerateState()
	if err != nil {
		c.InternalServerError("failed to generate state")
		return
	}

	h.states.Store(state, stateData{expiresAt: time.Now().Add(10 * time.Minute)})

	_ = c.JSON(200, dto.ConsentURLResponse{
		URL: p.GetConsentURL(state),
	})
}

func (h *AuthHandler) Callback(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers[provider]
	if !ok {
		h.callbackError(c, "unsupported provider")
		return
	}

	state := c.QueryParam("state")
	if state == "" {
		h.callbackError(c, "missing state parameter")
		return
	}

	sd, ok := h.states.LoadAndDelete(state)
	if !ok {
		h.callbackError(c, "invalid or expired state")
		return
	}

	sdTyped, ok := sd.(stateData)
	if !ok || time.Now().After(sdTyped.expiresAt) {
		h.callbackError(c, "state expired")
		return
	}

	code := c.QueryParam("code")
	if code == "" {
		h.callbackError(c, "missing authorization code")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userInfo, err := p.ExchangeCode(ctx, code)
	if err != nil {
		h.callbackError(c, "failed to exchange code")
		return
	}

	user, err := h.identityService.ResolveOrCreate(ctx, userInfo.Provider, userInfo.ID)
	if err != nil {
		h.callbackError(c, "failed to resolve user")
		return
	}

	authCode, err := oauth.GenerateState()
	if err != nil {
		h.callbackError(c, "failed to generate auth code")
		return
	}

	h.authCodes.Store(authCode, authCodeData{
		userID:    user.ID,
		expiresAt: time.Now().Add(30 * time.Second),
	})

	redirectURL := fmt.Sprintf("%s?code=%s",
		h.cfg.FrontendCallbackURL,
		url.QueryEscape(authCode),
	)

	h.renderCallbackPage(c, 200, "You're signed in!", redirectURL)
}

func (h *AuthHandler) ExchangeCode(c *drift.Context) {
	var req dto.ExchangeCodeRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Code == "" {
		c.BadRequest("code is required")
		return
	}

	acd, ok := h.authCodes.LoadAndDelete(req.Code)
	if !ok {
		c.Unauthorized("invalid or expired code")
		return
	}

	codeData, ok := acd.(authCodeData)
	if !ok || time.Now().After(codeData.expiresAt) {
		c.Unauthorized("code expired")
		return
	}

	user, err := h.identityService.Authenticate(context.Background(), codeData.userID)
	if err != nil {
		c.Unauthorized("user not found")
		return
	}

	tokenPair, err := h.jwtService.GenerateTokenPair(user.ID)
	if err != nil {
		c.InternalServerError("failed to generate tokens")
		return
	}

	_ = c.JSON(200, dto.TokenResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	})
}

func (h *AuthHandler) RefreshToken(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken == "" {
		c.BadRequest("refresh_token is required")
		return
	}

	userID, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.Unauthorized("invalid refresh token")
		return
	}

	// Stale sessions must not be refreshable.
	user, err := h.identityService.Authenticate(context.Background(), userID)
	if err != nil {
		c.Unauthorized("session is no longer valid")
		return
	}

	tokenPair, err := h.jwtService.GenerateTokenPair(user.ID)
	if err != nil {
		c.InternalServerError("failed to generate tokens")
		return
	}

	_ = c.JSON(200, dto.TokenResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	})
}

// Logout is informational: tokens are stateless, so the client simply
// discards them.
func (h *AuthHandler) Logout(c *drift.Context) {
	_ = c.JSON(200, dto.MessageResponse{Message: "You have been logged out."})
}

func (h *AuthHandler) Whoami(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.Unauthorized("not authenticated")
		return
	}

	_ = c.JSON(200, dto.WhoamiResponse{ID: userID})
}

func (h *AuthHandler) callbackError(c *drift.Context, errMsg string) {
	redirectURL := fmt.Sprintf("%s?error=%s",
		h.cfg.FrontendCallbackURL,
		url.QueryEscape(errMsg),
	)
	h.renderCallbackPage(c, 200, "Sign-in failed: "+errMsg, redirectURL)
}

func (h *AuthHandler) renderCallbackPage(c *drift.Context, statusCode int, heading, redirectURL string) {
	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<title>Squad Builder</title>
<meta http-equiv="refresh" content="1;url=%s">
</head>
<body>
<h1>%s</h1>
<p>Redirecting you back to the squad builder&hellip;</p>
<p><a href="%s">Continue</a></p>
</body>
</html>`, redirectURL, heading, redirectURL)

	_ = c.HTML(statusCode, html)
}
