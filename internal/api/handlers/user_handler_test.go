package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/witcharon/salesconnfig/internal/engine/directory"
	"github.com/witcharon/salesconnfig/internal/platform/config"
	"github.com/witcharon/salesconnfig/internal/platform/identity"
	"github.com/witcharon/salesconnfig/internal/platform/repositories"
)

type identityCall struct {
	Method string
	Path   string
}

func newUserHandlerFixture(t *testing.T, idHandler http.HandlerFunc) (*UserHandler, sqlmock.Sqlmock, *[]identityCall, func()) {
	t.Helper()

	calls := &[]identityCall{}
	idServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls = append(*calls, identityCall{Method: r.Method, Path: r.URL.Path})
		if idHandler != nil {
			idHandler(w, r)
		}
	}))

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open stub database: %v", err)
	}

	userRepo := repositories.NewUserRepository(db)
	subRepo := repositories.NewSubscriptionRepository(db)
	leadRepo := repositories.NewLeadGenRepository(db)
	dir := directory.NewService(userRepo, subRepo, leadRepo)
	idClient := identity.NewClient(config.IdentityConfig{
		BaseURL:        idServer.URL,
		AnonKey:        "anon",
		ServiceRoleKey: "service",
	})

	handler := NewUserHandler(dir, idClient, userRepo, subRepo)
	cleanup := func() {
		idServer.Close()
		db.Close()
	}
	return handler, mock, calls, cleanup
}

func TestUserHandler_Create_RejectsEmptyEmail(t *testing.T) {
	handler, _, calls, cleanup := newUserHandlerFixture(t, nil)
	defer cleanup()

	req := httptest.NewRequest("POST", "/api/v1/users/create", strings.NewReader(`{"email": "", "password": "x"}`))
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var body map[string]interface{}
	json.NewDecoder(rr.Body).Decode(&body)
	if body["error"] != "E-posta ve şifre gereklidir" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
	if len(*calls) != 0 {
		t.Errorf("expected no identity provider call, got %d", len(*calls))
	}
}

func TestUserHandler_Create_RejectsMalformedEmail(t *testing.T) {
	handler, _, calls, cleanup := newUserHandlerFixture(t, nil)
	defer cleanup()

	req := httptest.NewRequest("POST", "/api/v1/users/create", strings.NewReader(`{"email": "not-an-email", "password": "x"}`))
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if len(*calls) != 0 {
		t.Errorf("expected no identity provider call, got %d", len(*calls))
	}
}

func TestUserHandler_Create_Success(t *testing.T) {
	handler, mock, _, cleanup := newUserHandlerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "new-user", "email": "a@example.com"})
	})
	defer cleanup()

	mock.ExpectExec("INSERT INTO user_subscriptions").
		WithArgs(sqlmock.AnyArg(), "new-user", "free", "active", "tr").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("POST", "/api/v1/users/create", strings.NewReader(`{"email": "a@example.com", "password": "secret"}`))
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp CreateUserResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if !resp.Success || resp.User == nil || resp.User.ID != "new-user" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUserHandler_Create_RollsBackIdentityOnSubscriptionFailure(t *testing.T) {
	handler, mock, calls, cleanup := newUserHandlerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			json.NewEncoder(w).Encode(map[string]string{"id": "new-user", "email": "a@example.com"})
		case http.MethodDelete:
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		}
	})
	defer cleanup()

	mock.ExpectExec("INSERT INTO user_subscriptions").
		WillReturnError(errors.New("insert failed"))

	req := httptest.NewRequest("POST", "/api/v1/users/create", strings.NewReader(`{"email": "a@example.com", "password": "secret"}`))
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	var deleted bool
	for _, call := range *calls {
		if call.Method == http.MethodDelete && call.Path == "/auth/v1/admin/users/new-user" {
			deleted = true
		}
	}
	if !deleted {
		t.Error("expected compensating identity delete")
	}
}

func TestUserHandler_UpdateCompanyName_RequiresUserID(t *testing.T) {
	handler, _, _, cleanup := newUserHandlerFixture(t, nil)
	defer cleanup()

	req := httptest.NewRequest("PUT", "/api/v1/users/company-name", strings.NewReader(`{"company_name": "Acme"}`))
	rr := httptest.NewRecorder()

	handler.UpdateCompanyName(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var body map[string]interface{}
	json.NewDecoder(rr.Body).Decode(&body)
	if body["error"] != "user_id gereklidir" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}

func TestUserHandler_List_ReturnsCompositeView(t *testing.T) {
	handler, mock, _, cleanup := newUserHandlerFixture(t, nil)
	defer cleanup()

	// The three fetchers run concurrently, so expectations are matched
	// in any order.
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "phone", "created_at", "updated_at", "last_sign_in_at", "is_super_admin", "note", "company_name"}))
	mock.ExpectQuery("SELECT (.+) FROM user_subscriptions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "plan_id", "status", "current_period_end", "language", "logo", "is_crm", "is_campaign"}))
	mock.ExpectQuery("SELECT (.+) FROM lead_gen_user_data").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "update_at", "lead_gen_count", "is_scraping"}))

	req := httptest.NewRequest("GET", "/api/v1/users", nil)
	rr := httptest.NewRecorder()

	handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Errorf("expected empty data set, got %d entries", len(resp.Data))
	}
}
