package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/handler/dto"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/service"
	"github.com/taskdeck/taskdeck/internal/testutil"
)

func newUserHandler(store *testutil.FakeUserStore) *UserHandler {
	tokens := auth.NewTokenService("handler-test-secret", time.Hour)
	svc := service.NewUserService(store, nil, tokens, service.BootstrapCredentials{}, nil)
	return NewUserHandler(svc, discardLogger())
}

func userRouter(h *UserHandler) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/users", h.List)
	router.Get("/users/{id}", h.Get)
	router.Put("/users/{id}", h.Update)
	router.Delete("/users/{id}", h.Delete)
	return router
}

func TestUserHandler_List(t *testing.T) {
	t.Parallel()

	store := testutil.NewFakeUserStore()
	alice := testutil.NewTestUser(t, "alice@example.com")
	bob := testutil.NewTestUser(t, "bob@example.com")
	bob.ID = alice.ID + "-b"
	store.Seed(alice, bob)

	router := userRouter(newUserHandler(store))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp dto.UserListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("expected 2 users, got %d", len(resp.Data))
	}

	// Password hashes never leave the store
	if strings.Contains(rec.Body.String(), "hash-") {
		t.Error("listing must not expose password hashes")
	}
}

func TestUserHandler_Get(t *testing.T) {
	t.Parallel()

	store := testutil.NewFakeUserStore()
	user := testutil.NewTestUser(t, "get@example.com")
	store.Seed(user)

	router := userRouter(newUserHandler(store))

	req := httptest.NewRequest(http.MethodGet, "/users/"+user.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp dto.UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Email != user.Email {
		t.Errorf("email = %s, want %s", resp.Email, user.Email)
	}

	req = httptest.NewRequest(http.MethodGet, "/users/missing", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUserHandler_Update(t *testing.T) {
	t.Parallel()

	store := testutil.NewFakeUserStore()
	user := testutil.NewTestUser(t, "update@example.com")
	store.Seed(user)

	router := userRouter(newUserHandler(store))

	req := httptest.NewRequest(http.MethodPut, "/users/"+user.ID, strings.NewReader(`{"role":"admin"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var resp dto.UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Role != model.RoleAdmin {
		t.Errorf("role = %s, want admin", resp.Role)
	}
}

func TestUserHandler_Update_InvalidRole(t *testing.T) {
	t.Parallel()

	store := testutil.NewFakeUserStore()
	user := testutil.NewTestUser(t, "update@example.com")
	store.Seed(user)

	router := userRouter(newUserHandler(store))

	req := httptest.NewRequest(http.MethodPut, "/users/"+user.ID, strings.NewReader(`{"role":"superuser"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if body := decodeErrorResponse(t, rec); body.Code != "VALIDATION" {
		t.Errorf("code = %s, want VALIDATION", body.Code)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	t.Parallel()

	store := testutil.NewFakeUserStore()
	user := testutil.NewTestUser(t, "delete@example.com")
	store.Seed(user)

	router := userRouter(newUserHandler(store))

	req := httptest.NewRequest(http.MethodDelete, "/users/"+user.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/users/"+user.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
