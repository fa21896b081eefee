package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

const testPassword = "Sup3rSecret!Pass"

func signupRequest(t *testing.T, app *fiber.App, username, email, password string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestSignupAndLogin(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	app := newAuthedApp(0)
	app.Post("/auth/signup", s.Signup)
	app.Post("/auth/login", s.Login)

	resp := signupRequest(t, app, "stargazer", "stargazer@example.com", testPassword)
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var signupResp struct {
		Token string `json:"token"`
		User  struct {
			ID       uint   `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&signupResp); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	if signupResp.Token == "" {
		t.Fatal("expected a JWT in the signup response")
	}
	if signupResp.User.Username != "stargazer" {
		t.Fatalf("unexpected username %q", signupResp.User.Username)
	}

	loginBody, _ := json.Marshal(map[string]string{
		"email":    "stargazer@example.com",
		"password": testPassword,
	})
	loginReq := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(loginBody))
	loginReq.Header.Set("Content-Type", "application/json")
	loginResp, err := app.Test(loginReq)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = loginResp.Body.Close() }()
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", loginResp.StatusCode)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	app := newAuthedApp(0)
	app.Post("/auth/signup", s.Signup)

	first := signupRequest(t, app, "nova", "nova@example.com", testPassword)
	_ = first.Body.Close()
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.StatusCode)
	}

	second := signupRequest(t, app, "nova2", "nova@example.com", testPassword)
	defer func() { _ = second.Body.Close() }()
	if second.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", second.StatusCode)
	}
}

func TestSignup_RejectsWeakPassword(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	app := newAuthedApp(0)
	app.Post("/auth/signup", s.Signup)

	resp := signupRequest(t, app, "weakling", "weak@example.com", "short")
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	app := newAuthedApp(0)
	app.Post("/auth/signup", s.Signup)
	app.Post("/auth/login", s.Login)

	resp := signupRequest(t, app, "comet", "comet@example.com", testPassword)
	_ = resp.Body.Close()

	loginBody, _ := json.Marshal(map[string]string{
		"email":    "comet@example.com",
		"password": "Wr0ng!Password!!",
	})
	loginReq := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(loginBody))
	loginReq.Header.Set("Content-Type", "application/json")
	loginResp, err := app.Test(loginReq)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = loginResp.Body.Close() }()
	if loginResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", loginResp.StatusCode)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	app := newAuthedApp(0)
	app.Post("/auth/login", s.Login)

	loginBody, _ := json.Marshal(map[string]string{
		"email":    "ghost@example.com",
		"password": testPassword,
	})
	loginReq := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(loginBody))
	loginReq.Header.Set("Content-Type", "application/json")
	loginResp, err := app.Test(loginReq)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = loginResp.Body.Close() }()
	if loginResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", loginResp.StatusCode)
	}
}
