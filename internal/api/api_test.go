package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/fairsplit/fairsplit/internal/auth"
	"github.com/fairsplit/fairsplit/internal/service"
	"github.com/fairsplit/fairsplit/internal/storage/sqlite"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	tokens := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	users := service.NewUserService(store)
	groups := service.NewGroupService(store)
	expenses := service.NewExpenseService(store)
	payments := service.NewPaymentService(store)
	requests := service.NewRequestService(store, payments)

	handler := New(authenticator, tokens, users, groups, expenses, requests, payments).Router()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// doJSON issues a request with an optional bearer token and decodes the
// response body into out (when non-nil).
func doJSON(t *testing.T, server *httptest.Server, method, path, token string, body, out interface{}) int {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

// registerUser creates an account and returns its token and user ID.
func registerUser(t *testing.T, server *httptest.Server, username string) (string, string) {
	t.Helper()

	var resp authResponse
	status := doJSON(t, server, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"fullname": username + " Test",
		"password": "password-123",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("register %s returned %d", username, status)
	}
	return resp.Token, resp.User.ID
}

func TestRegisterAndLogin(t *testing.T) {
	server := setupTestServer(t)

	token, userID := registerUser(t, server, "alice")
	if token == "" || userID == "" {
		t.Fatal("expected token and user ID from register")
	}

	// Duplicate username conflicts.
	status := doJSON(t, server, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice",
		"password": "password-456",
	}, nil)
	if status != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", status)
	}

	// Weak password is a bad request.
	status = doJSON(t, server, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "bob",
		"password": "short",
	}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("weak password status = %d, want 400", status)
	}

	var login authResponse
	status = doJSON(t, server, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "alice",
		"password": "password-123",
	}, &login)
	if status != http.StatusOK {
		t.Fatalf("login status = %d, want 200", status)
	}
	if login.User.ID != userID {
		t.Errorf("login user = %q, want %q", login.User.ID, userID)
	}

	status = doJSON(t, server, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	}, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", status)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	server := setupTestServer(t)

	status := doJSON(t, server, http.MethodGet, "/api/v1/users", "", nil, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", status)
	}

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", resp.StatusCode)
	}
}

func TestExpenseSettlementFlow(t *testing.T) {
	server := setupTestServer(t)

	token, aliceID := registerUser(t, server, "alice")
	_, bobID := registerUser(t, server, "bob")

	// Group with both members.
	var group groupResponse
	status := doJSON(t, server, http.MethodPost, "/api/v1/groups", token, map[string]interface{}{
		"name":       "Trip",
		"member_ids": []string{aliceID, bobID},
	}, &group)
	if status != http.StatusCreated {
		t.Fatalf("create group status = %d, want 201", status)
	}

	// Alice fronts a 60 dinner; bob owes 30.
	var created createExpenseResponse
	status = doJSON(t, server, http.MethodPost, "/api/v1/expenses", token, map[string]interface{}{
		"name":     "Dinner",
		"amount":   60,
		"payer_id": aliceID,
		"group_id": group.ID,
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("create expense status = %d, want 201", status)
	}
	if len(created.Requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(created.Requests))
	}
	requestID := created.Requests[0].ID
	if created.Requests[0].Amount != 30 {
		t.Errorf("request amount = %v, want 30", created.Requests[0].Amount)
	}

	// Bob has no funds yet, so accepting conflicts.
	acceptPath := fmt.Sprintf("/api/v1/requests/%s/accept", requestID)
	status = doJSON(t, server, http.MethodPost, acceptPath, token, nil, nil)
	if status != http.StatusConflict {
		t.Errorf("broke accept status = %d, want 409", status)
	}

	// Fund bob and accept.
	status = doJSON(t, server, http.MethodPut, fmt.Sprintf("/api/v1/users/%s/balance", bobID), token,
		map[string]float64{"amount": 30}, nil)
	if status != http.StatusOK {
		t.Fatalf("set balance status = %d, want 200", status)
	}

	var accepted requestResponse
	status = doJSON(t, server, http.MethodPost, acceptPath, token, nil, &accepted)
	if status != http.StatusOK {
		t.Fatalf("accept status = %d, want 200", status)
	}
	if !accepted.IsFulfilled {
		t.Error("expected request to be fulfilled")
	}

	// Accepting again conflicts.
	status = doJSON(t, server, http.MethodPost, acceptPath, token, nil, nil)
	if status != http.StatusConflict {
		t.Errorf("second accept status = %d, want 409", status)
	}

	// The settlement moved the balances.
	var alice userResponse
	status = doJSON(t, server, http.MethodGet, "/api/v1/users/"+aliceID, token, nil, &alice)
	if status != http.StatusOK {
		t.Fatalf("get user status = %d, want 200", status)
	}
	if alice.Balance != 30 {
		t.Errorf("alice balance = %v, want 30", alice.Balance)
	}

	// Delete the payment to reverse.
	var payments []paymentResponse
	status = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/v1/users/%s/payments", bobID), token, nil, &payments)
	if status != http.StatusOK {
		t.Fatalf("list payments status = %d, want 200", status)
	}
	if len(payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(payments))
	}

	status = doJSON(t, server, http.MethodDelete, "/api/v1/payments/"+payments[0].ID, token, nil, nil)
	if status != http.StatusNoContent {
		t.Errorf("delete payment status = %d, want 204", status)
	}

	// A second delete of the same payment is a 404.
	status = doJSON(t, server, http.MethodDelete, "/api/v1/payments/"+payments[0].ID, token, nil, nil)
	if status != http.StatusNotFound {
		t.Errorf("delete missing payment status = %d, want 404", status)
	}

	// The request is open again.
	var reopened requestResponse
	status = doJSON(t, server, http.MethodGet, "/api/v1/requests/"+requestID, token, nil, &reopened)
	if status != http.StatusOK {
		t.Fatalf("get request status = %d, want 200", status)
	}
	if reopened.IsFulfilled {
		t.Error("expected request to be reopened after payment deletion")
	}
}

func TestErrorStatuses(t *testing.T) {
	server := setupTestServer(t)
	token, aliceID := registerUser(t, server, "alice")

	// Unknown entity is a 404.
	status := doJSON(t, server, http.MethodGet, "/api/v1/expenses/missing", token, nil, nil)
	if status != http.StatusNotFound {
		t.Errorf("missing expense status = %d, want 404", status)
	}

	// Validation failure is a 400.
	status = doJSON(t, server, http.MethodPost, "/api/v1/expenses", token, map[string]interface{}{
		"name":     "",
		"amount":   10,
		"payer_id": aliceID,
		"group_id": "whatever",
	}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("invalid expense status = %d, want 400", status)
	}

	// Malformed body is a 400.
	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/v1/groups", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", resp.StatusCode)
	}
}
