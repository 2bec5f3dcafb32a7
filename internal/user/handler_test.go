package user

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func makeAuthApp(repo Repository) *fiber.App {
	app := fiber.New()
	handler := NewHandler(NewService(repo), testSecret, nil)
	handler.RegisterPublicRoutes(app)
	return app
}

func postJSON(app *fiber.App, path, body string) (*fiber.App, int, string) {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	b, _ := io.ReadAll(res.Body)
	return app, res.StatusCode, string(b)
}

func TestSignUpAndSignIn(t *testing.T) {
	app := makeAuthApp(NewInMemoryRepository(nil))

	_, status, body := postJSON(app, "/api/auth/sign-up", `{"email":"a@b.com","password":"secret1","fullName":"A B"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201 for sign-up, got %d: %s", status, body)
	}
	if strings.Contains(body, `"password":"`) {
		t.Fatalf("password must never appear in responses: %s", body)
	}

	// duplicate email is rejected
	_, status, _ = postJSON(app, "/api/auth/sign-up", `{"email":"a@b.com","password":"other"}`)
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", status)
	}

	// sign in with the right password yields a valid token
	_, status, body = postJSON(app, "/api/auth/sign-in", `{"email":"a@b.com","password":"secret1"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 for sign-in, got %d: %s", status, body)
	}

	var res struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(body), &res); err != nil || res.Token == "" {
		t.Fatalf("expected token in response, got %s", body)
	}
	tok, err := jwt.Parse(res.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("token did not verify: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["email"] != "a@b.com" {
		t.Fatalf("unexpected claims %v", claims)
	}

	// wrong password is rejected
	_, status, _ = postJSON(app, "/api/auth/sign-in", `{"email":"a@b.com","password":"wrong"}`)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", status)
	}
}

func TestSignUp_MissingFields(t *testing.T) {
	app := makeAuthApp(NewInMemoryRepository(nil))

	_, status, _ := postJSON(app, "/api/auth/sign-up", `{"email":"a@b.com"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", status)
	}
}

func TestSignIn_LockedAccount(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	service := NewService(repo)
	created, err := service.Register(User{Email: "locked@b.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := service.SetLocked(created.ID, true); err != nil {
		t.Fatalf("lock: %v", err)
	}

	app := makeAuthApp(repo)
	_, status, _ := postJSON(app, "/api/auth/sign-in", `{"email":"locked@b.com","password":"secret1"}`)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for locked account, got %d", status)
	}
}

func TestRequireAdmin(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if c.Get("X-Admin") == "1" {
			tok := &jwt.Token{Claims: jwt.MapClaims{"user_id": 1, "is_admin": true}}
			c.Locals("user", tok)
		} else if c.Get("X-User") == "1" {
			tok := &jwt.Token{Claims: jwt.MapClaims{"user_id": 2, "is_admin": false}}
			c.Locals("user", tok)
		}
		return c.Next()
	})
	app.Use("/api/v1/admin", RequireAdmin)
	app.Get("/api/v1/admin/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/admin/ping", nil))
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 without claims, got %d", res.StatusCode)
	}

	req := httptest.NewRequest("GET", "/api/v1/admin/ping", nil)
	req.Header.Set("X-User", "1")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/v1/admin/ping", nil)
	req.Header.Set("X-Admin", "1")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", res.StatusCode)
	}
}
