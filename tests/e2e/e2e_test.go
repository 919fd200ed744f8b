//go:build e2e

// Package e2e exercises a running server end to end.
//
// Prerequisites:
//   - the API server listening at TASKDECK_BASE_URL (default http://localhost:8080)
//   - ADMIN_EMAIL and ADMIN_PASSWORD set both on the server and here
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

type authResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

type taskResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	OwnerID string `json:"owner_id"`
}

type taskListResponse struct {
	Data []taskResponse `json:"data"`
}

func TestE2ESmoke(t *testing.T) {
	baseURL := envOrDefault("TASKDECK_BASE_URL", "http://localhost:8080")

	client := &http.Client{Timeout: 10 * time.Second}

	email := fmt.Sprintf("e2e-%d@example.com", time.Now().UnixNano())
	password := "e2e-password-123"

	// Register
	reg := postJSON(t, client, baseURL+"/register", "", map[string]string{
		"name":     "E2E User",
		"email":    email,
		"password": password,
	})
	defer reg.Body.Close()
	if reg.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", reg.StatusCode)
	}
	var regResp authResponse
	decode(t, reg, &regResp)
	if regResp.Token == "" {
		t.Fatal("register returned no token")
	}

	// Login
	login := postJSON(t, client, baseURL+"/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	defer login.Body.Close()
	if login.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", login.StatusCode)
	}
	var loginResp authResponse
	decode(t, login, &loginResp)
	token := loginResp.Token

	// Unauthenticated access is refused
	unauth := get(t, client, baseURL+"/mytasks", "")
	defer unauth.Body.Close()
	if unauth.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated /mytasks status = %d, want 401", unauth.StatusCode)
	}

	// Create a task
	create := postJSON(t, client, baseURL+"/tasks", token, map[string]string{
		"title":    "E2E task",
		"lastDate": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
	defer create.Body.Close()
	if create.StatusCode != http.StatusCreated {
		t.Fatalf("create task status = %d", create.StatusCode)
	}
	var created taskResponse
	decode(t, create, &created)

	// It shows up in /mytasks
	mine := get(t, client, baseURL+"/mytasks", token)
	defer mine.Body.Close()
	if mine.StatusCode != http.StatusOK {
		t.Fatalf("/mytasks status = %d", mine.StatusCode)
	}
	var list taskListResponse
	decode(t, mine, &list)

	found := false
	for _, task := range list.Data {
		if task.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Error("created task not present in /mytasks")
	}

	// A regular user cannot reach the admin surface
	adminList := get(t, client, baseURL+"/tasks", token)
	defer adminList.Body.Close()
	if adminList.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin /tasks status = %d, want 403", adminList.StatusCode)
	}

	// Bootstrap admin flow, when configured
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		t.Log("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin checks")
		return
	}

	adminLogin := postJSON(t, client, baseURL+"/admin/login", "", map[string]string{
		"email":    adminEmail,
		"password": adminPassword,
	})
	defer adminLogin.Body.Close()
	if adminLogin.StatusCode != http.StatusOK {
		t.Fatalf("admin login status = %d", adminLogin.StatusCode)
	}
	var adminResp authResponse
	decode(t, adminLogin, &adminResp)

	all := get(t, client, baseURL+"/tasks", adminResp.Token)
	defer all.Body.Close()
	if all.StatusCode != http.StatusOK {
		t.Fatalf("admin /tasks status = %d", all.StatusCode)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func get(t *testing.T, client *http.Client, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
