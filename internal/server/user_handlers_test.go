package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/BarishY/Astroverse/internal/models"
)

func TestUpdateMyProfile(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	alice := createHandlerTestUser(t, s.db, "alice")

	app := newAuthedApp(alice.ID)
	app.Put("/users/me", s.UpdateMyProfile)

	resp := jsonRequest(t, app, http.MethodPut, "/users/me",
		[]byte(`{"username":"alice_sky","bio":"stargazer"}`))
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var updated models.User
	if err := s.db.First(&updated, alice.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if updated.Username != "alice_sky" || updated.Bio != "stargazer" {
		t.Fatalf("profile not updated: %+v", updated)
	}
}

func TestUpdateMyProfile_TakenUsername(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	alice := createHandlerTestUser(t, s.db, "alice")
	createHandlerTestUser(t, s.db, "bob")

	app := newAuthedApp(alice.ID)
	app.Put("/users/me", s.UpdateMyProfile)

	resp := jsonRequest(t, app, http.MethodPut, "/users/me", []byte(`{"username":"bob"}`))
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for taken username, got %d", resp.StatusCode)
	}
}

func TestGetUserProfile_FollowingFlag(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	alice := createHandlerTestUser(t, s.db, "alice")
	bob := createHandlerTestUser(t, s.db, "bob")
	if err := s.db.Create(&models.Follow{FollowerID: alice.ID, FolloweeID: bob.ID}).Error; err != nil {
		t.Fatalf("seed follow: %v", err)
	}

	app := newAuthedApp(alice.ID)
	app.Get("/users/:username", s.GetUserProfile)

	resp := jsonRequest(t, app, http.MethodGet, "/users/bob", nil)
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		User      models.User `json:"user"`
		Following bool        `json:"following"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if out.User.Username != "bob" || !out.Following {
		t.Fatalf("unexpected profile payload: %+v", out)
	}

	missing := jsonRequest(t, app, http.MethodGet, "/users/nobody", nil)
	_ = missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown username, got %d", missing.StatusCode)
	}
}

func TestSearchUsers(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	createHandlerTestUser(t, s.db, "stella")
	createHandlerTestUser(t, s.db, "steve")
	createHandlerTestUser(t, s.db, "nova")

	app := newAuthedApp(0)
	app.Get("/users/search", s.SearchUsers)

	resp := jsonRequest(t, app, http.MethodGet, "/users/search?q=ste", nil)
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var users []models.User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(users))
	}

	empty := jsonRequest(t, app, http.MethodGet, "/users/search", nil)
	_ = empty.Body.Close()
	if empty.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing query, got %d", empty.StatusCode)
	}
}
