package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestParsePagination(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 20, 0},
		{"explicit", "?limit=5&offset=10", 5, 10},
		{"zero limit falls back", "?limit=0", 20, 0},
		{"negative offset clamps", "?offset=-3", 20, 0},
		{"limit capped", "?limit=5000", maxPaginationLimit, 0},
		{"garbage values fall back", "?limit=abc&offset=xyz", 20, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			var got Pagination
			app.Get("/", func(c *fiber.Ctx) error {
				got = parsePagination(c, 20)
				return c.SendStatus(http.StatusOK)
			})
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tc.query, nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			_ = resp.Body.Close()

			if got.Limit != tc.wantLimit || got.Offset != tc.wantOffset {
				t.Fatalf("got %+v, want limit=%d offset=%d", got, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

func TestHumanizeParam(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"id":            "ID",
		"userId":        "user ID",
		"commentId":     "comment ID",
		"collectionId":  "collection ID",
		"conversationX": "conversationX",
	}
	for in, want := range cases {
		if got := humanizeParam(in); got != want {
			t.Errorf("humanizeParam(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseID_InvalidWrites400(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	app := fiber.New()
	app.Get("/things/:id", func(c *fiber.Ctx) error {
		if _, err := s.parseID(c, "id"); err != nil {
			return nil
		}
		return c.SendStatus(http.StatusOK)
	})

	for _, bad := range []string{"abc", "0", "-4"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/things/"+bad, nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("id %q: expected 400, got %d", bad, resp.StatusCode)
		}
	}
}
