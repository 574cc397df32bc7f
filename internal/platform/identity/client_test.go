package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/witcharon/salesconnfig/internal/platform/config"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(config.IdentityConfig{
		BaseURL:        srv.URL,
		AnonKey:        "anon-key",
		ServiceRoleKey: "service-key",
	})
}

func TestClient_GetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer the-token" {
			t.Errorf("unexpected authorization header: %s", r.Header.Get("Authorization"))
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Errorf("user-scoped call must carry the anon key, got %s", r.Header.Get("apikey"))
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": "a@example.com"})
	}))
	defer srv.Close()

	principal, err := newTestClient(srv).GetUser(context.Background(), "the-token")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if principal.ID != "u1" || principal.Email != "a@example.com" {
		t.Errorf("unexpected principal: %+v", principal)
	}
}

func TestClient_AdminCreateUser_UsesServiceKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/admin/users" || r.Method != http.MethodPost {
			t.Errorf("unexpected call: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("apikey") != "service-key" {
			t.Errorf("admin call must carry the service key, got %s", r.Header.Get("apikey"))
		}

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["email_confirm"] != true {
			t.Errorf("expected email_confirm true, got %v", body["email_confirm"])
		}

		json.NewEncoder(w).Encode(map[string]string{"id": "new-user", "email": body["email"].(string)})
	}))
	defer srv.Close()

	principal, err := newTestClient(srv).AdminCreateUser(context.Background(), "a@example.com", "secret", true)
	if err != nil {
		t.Fatalf("AdminCreateUser failed: %v", err)
	}
	if principal.ID != "new-user" {
		t.Errorf("unexpected principal: %+v", principal)
	}
}

func TestClient_ErrorCarriesProviderMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"msg": "User already registered"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).AdminCreateUser(context.Background(), "a@example.com", "secret", true)

	var provErr *Error
	if !errors.As(err, &provErr) {
		t.Fatalf("expected identity.Error, got %v", err)
	}
	if provErr.StatusCode != http.StatusUnprocessableEntity || provErr.Message != "User already registered" {
		t.Errorf("unexpected error: %+v", provErr)
	}
}
