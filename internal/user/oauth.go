package user

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OAuthHandler exchanges a Google login for an application JWT.
type OAuthHandler struct {
	service     *Service
	cfg         *oauth2.Config
	jwtSecret   string
	frontendURL string
}

// NewOAuthHandler returns nil when Google credentials are not configured;
// callers skip route registration in that case.
func NewOAuthHandler(service *Service, clientID, clientSecret, baseURL, frontendURL, jwtSecret string) *OAuthHandler {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &OAuthHandler{
		service: service,
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		jwtSecret:   jwtSecret,
		frontendURL: frontendURL,
	}
}

func (h *OAuthHandler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/auth/google", h.redirect)
	app.Get("/api/auth/google/callback", h.callback)
}

func (h *OAuthHandler) redirect(c *fiber.Ctx) error {
	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{Name: "oauth_state", Value: state, HTTPOnly: true, MaxAge: 300})
	return c.Redirect(h.cfg.AuthCodeURL(state), fiber.StatusFound)
}

type googleUserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *OAuthHandler) callback(c *fiber.Ctx) error {
	if c.Query("state") == "" || c.Query("state") != c.Cookies("oauth_state") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid oauth state"})
	}
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing code"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	token, err := h.cfg.Exchange(ctx, code)
	if err != nil {
		log.Warn().Err(err).Msg("google oauth exchange failed")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "oauth exchange failed"})
	}

	res, err := h.cfg.Client(ctx, token).Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "failed to fetch userinfo"})
	}
	defer res.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil || info.Email == "" {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "invalid userinfo response"})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	u, err := h.service.FindOrCreateByEmail(info.Email, info.Name, now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if u.IsLocked {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "account locked"})
	}

	signed, err := IssueToken(u, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.Redirect(h.frontendURL+"/auth/callback?token="+url.QueryEscape(signed), fiber.StatusFound)
}
