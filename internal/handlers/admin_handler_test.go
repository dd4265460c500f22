package handlers

import (
	"net/http"
	"testing"

	"github.com/techsense/store_be/internal/models"
)

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)
	customer := createUser(t, env.db, "rahul", models.RoleCustomer, true)

	resp, _ := doJSON(t, env.app, http.MethodPost, "/api/admin/projects",
		map[string]any{"title": "Sneaky", "price": 1}, authCookie(t, customer))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("customer hitting admin route: status=%d, want 403", resp.StatusCode)
	}

	resp, _ = doJSON(t, env.app, http.MethodPost, "/api/admin/projects",
		map[string]any{"title": "Sneaky", "price": 1})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous hitting admin route: status=%d, want 401", resp.StatusCode)
	}
}

func TestCreateProjectSlugsAreUnique(t *testing.T) {
	env := newTestEnv(t)
	admin := createUser(t, env.db, "boss", models.RoleAdmin, true)

	var slugs []string
	for i := 0; i < 3; i++ {
		resp, body := doJSON(t, env.app, http.MethodPost, "/api/admin/projects",
			map[string]any{"title": "Hello World", "price": 999}, authCookie(t, admin))
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create #%d: status=%d body=%v", i, resp.StatusCode, body)
		}
		data := body["data"].(map[string]any)
		slugs = append(slugs, data["slug"].(string))
	}

	want := []string{"hello-world", "hello-world-1", "hello-world-2"}
	for i := range want {
		if slugs[i] != want[i] {
			t.Errorf("slug #%d = %q, want %q", i, slugs[i], want[i])
		}
	}
}

func TestCreateProjectValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := createUser(t, env.db, "boss", models.RoleAdmin, true)

	_, body := doJSON(t, env.app, http.MethodPost, "/api/admin/projects",
		map[string]any{"title": "", "price": -5, "category": "bogus", "level": "expert"},
		authCookie(t, admin))
	if body["success"] != false {
		t.Fatalf("invalid project accepted: %v", body)
	}
	errs, _ := body["errors"].(map[string]any)
	for _, field := range []string{"title", "price", "category", "level"} {
		if errs[field] == nil {
			t.Errorf("missing field error for %q: %v", field, errs)
		}
	}
}

func TestUpdateProjectKeepsSlug(t *testing.T) {
	env := newTestEnv(t)
	admin := createUser(t, env.db, "boss", models.RoleAdmin, true)
	p := createProject(t, env.db, "Old Title", 999, true)

	_, body := doJSON(t, env.app, http.MethodPut, "/api/admin/projects/"+itoa(p.ID),
		map[string]any{"title": "Completely New Title", "price": 1500}, authCookie(t, admin))
	if body["success"] != true {
		t.Fatalf("update failed: %v", body)
	}

	var reloaded models.Project
	env.db.First(&reloaded, p.ID)
	if reloaded.Title != "Completely New Title" {
		t.Fatalf("title not updated: %q", reloaded.Title)
	}
	if reloaded.Slug != p.Slug {
		t.Fatalf("slug changed from %q to %q on update", p.Slug, reloaded.Slug)
	}
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	admin := createUser(t, env.db, "boss", models.RoleAdmin, true)
	customer := createUser(t, env.db, "rahul", models.RoleCustomer, true)
	p := createProject(t, env.db, "Chat App", 999, true)

	cases := []struct {
		from models.OrderStatus
		to   string
		ok   bool
	}{
		{models.OrderStatusPending, "contacted", true},
		{models.OrderStatusPending, "completed", true},
		{models.OrderStatusPending, "cancelled", true},
		{models.OrderStatusContacted, "completed", true},
		{models.OrderStatusContacted, "cancelled", true},
		{models.OrderStatusContacted, "pending", false},
		{models.OrderStatusCompleted, "cancelled", false},
		{models.OrderStatusCancelled, "pending", false},
		{models.OrderStatusPending, "shipped", false},
	}

	for _, tc := range cases {
		order := models.Order{UserID: customer.ID, ProjectID: p.ID, Status: tc.from}
		if err := env.db.Create(&order).Error; err != nil {
			t.Fatalf("seed order: %v", err)
		}

		resp, _ := doJSON(t, env.app, http.MethodPatch,
			"/api/admin/orders/"+itoa(order.ID)+"/status",
			map[string]string{"status": tc.to}, authCookie(t, admin))

		var reloaded models.Order
		env.db.First(&reloaded, order.ID)

		if tc.ok {
			if resp.StatusCode != http.StatusOK || string(reloaded.Status) != tc.to {
				t.Errorf("%s -> %s should succeed, status=%d order=%q",
					tc.from, tc.to, resp.StatusCode, reloaded.Status)
			}
		} else {
			if resp.StatusCode != http.StatusBadRequest || reloaded.Status != tc.from {
				t.Errorf("%s -> %s should be rejected, status=%d order=%q",
					tc.from, tc.to, resp.StatusCode, reloaded.Status)
			}
		}
	}
}

func TestCreateBlogPost(t *testing.T) {
	env := newTestEnv(t)
	admin := createUser(t, env.db, "boss", models.RoleAdmin, true)

	resp, body := doJSON(t, env.app, http.MethodPost, "/api/admin/blog",
		map[string]any{"title": "Go for Final Year Projects", "content": "..."},
		authCookie(t, admin))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create post: status=%d body=%v", resp.StatusCode, body)
	}
	data := body["data"].(map[string]any)
	if data["slug"] != "go-for-final-year-projects" {
		t.Fatalf("slug = %v", data["slug"])
	}

	var post models.BlogPost
	env.db.First(&post, "slug = ?", "go-for-final-year-projects")
	if !post.IsPublished {
		t.Fatal("posts default to published")
	}
}

func TestListContactMessages(t *testing.T) {
	env := newTestEnv(t)
	admin := createUser(t, env.db, "boss", models.RoleAdmin, true)

	_, body := doJSON(t, env.app, http.MethodPost, "/api/contact", map[string]string{
		"name":        "Priya",
		"email":       "priya@example.com",
		"subject":     "IoT idea",
		"description": "Smart irrigation for my final year project",
	})
	if body["success"] != true {
		t.Fatalf("contact submit failed: %v", body)
	}

	_, body = doJSON(t, env.app, http.MethodGet, "/api/admin/contact-messages", nil, authCookie(t, admin))
	data := body["data"].(map[string]any)
	messages, _ := data["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
}
