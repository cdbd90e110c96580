package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/yaroslav/sddcctl/models"
)

// newTestClient returns an authorized client pointing both endpoints at baseURL.
func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := NewClient(ClientConfig{
		CSPURL:            baseURL,
		VMCURL:            baseURL,
		RefreshToken:      "refresh-123",
		RequestsPerSecond: -1,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	client.accessToken = "access-abc"
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  ClientConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  ClientConfig{RefreshToken: "rt"},
			wantErr: false,
		},
		{
			name:    "invalid config - missing refresh token",
			config:  ClientConfig{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewClient() expected error but got nil")
				}
			} else {
				if err != nil {
					t.Errorf("NewClient() unexpected error = %v", err)
				}
				if client == nil {
					t.Fatal("NewClient() returned nil client")
				}
				if client.limiter == nil {
					t.Error("NewClient() should install the default rate limiter")
				}
			}
		})
	}
}

func TestClient_Authorize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != AuthorizePath || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get(HeaderAuthToken) != "" {
			t.Errorf("token exchange must not carry %s", HeaderAuthToken)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %s, want form encoding", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}

		switch r.PostForm.Get("refresh_token") {
		case "good":
			json.NewEncoder(w).Encode(models.TokenResponse{AccessToken: "access-xyz", TokenType: "bearer"})
		case "no-token":
			json.NewEncoder(w).Encode(map[string]string{"token_type": "bearer"})
		case "garbage":
			io.WriteString(w, "<html>")
		default:
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(models.ErrorResponse{ErrorMessages: []string{"invalid_grant"}})
		}
	}))
	defer server.Close()

	tests := []struct {
		name         string
		refreshToken string
		wantToken    string
		wantErr      bool
	}{
		{
			name:         "valid refresh token",
			refreshToken: "good",
			wantToken:    "access-xyz",
		},
		{
			name:         "response without access_token",
			refreshToken: "no-token",
			wantErr:      true,
		},
		{
			name:         "malformed response",
			refreshToken: "garbage",
			wantErr:      true,
		},
		{
			name:         "rejected refresh token",
			refreshToken: "revoked",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, server.URL)
			client.accessToken = ""
			client.refreshToken = tt.refreshToken

			token, err := client.Authorize(context.Background())

			if tt.wantErr {
				if !errors.Is(err, ErrAuthentication) {
					t.Errorf("Authorize() error = %v, want ErrAuthentication", err)
				}
				if client.AccessToken() != "" {
					t.Errorf("AccessToken() = %q after failure, want empty", client.AccessToken())
				}
				return
			}

			if err != nil {
				t.Fatalf("Authorize() unexpected error = %v", err)
			}
			if token != tt.wantToken {
				t.Errorf("Authorize() = %q, want %q", token, tt.wantToken)
			}
			if client.AccessToken() != tt.wantToken {
				t.Errorf("AccessToken() = %q, want %q", client.AccessToken(), tt.wantToken)
			}
		})
	}
}

func TestClient_Authorize_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := newTestClient(t, baseURL)
	_, err := client.Authorize(context.Background())

	if !errors.Is(err, ErrAuthentication) {
		t.Errorf("Authorize() error = %v, want ErrAuthentication", err)
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Authorize() error = %v, want ErrNetwork as cause", err)
	}
}

func TestClient_RequiresAuthorize(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.accessToken = ""

	_, err := client.ListSDDCs(context.Background(), "o1")
	if !errors.Is(err, ErrAuthentication) {
		t.Errorf("ListSDDCs() error = %v, want ErrAuthentication", err)
	}
	if called {
		t.Error("no request should be sent without an access token")
	}
}

func TestClient_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(HeaderAuthToken); got != "access-abc" {
			t.Errorf("%s = %q, want access-abc", HeaderAuthToken, got)
		}
		if _, err := uuid.Parse(r.Header.Get(HeaderRequestID)); err != nil {
			t.Errorf("%s is not a UUID: %v", HeaderRequestID, err)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		io.WriteString(w, "[]")
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.ListSDDCs(context.Background(), "o1"); err != nil {
		t.Fatalf("ListSDDCs() error = %v", err)
	}
}

func TestClient_ListConnectedAccounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vmc/api/orgs/o1/account-link/connected-accounts" {
			t.Errorf("path = %s", r.URL.Path)
		}
		io.WriteString(w, `[{"id":"acct-1","account_number":"111"},{"id":"acct-2"}]`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	accounts, err := client.ListConnectedAccounts(context.Background(), "o1")
	if err != nil {
		t.Fatalf("ListConnectedAccounts() error = %v", err)
	}
	if len(accounts) != 2 || accounts[0].ID != "acct-1" || accounts[1].ID != "acct-2" {
		t.Errorf("ListConnectedAccounts() = %+v, want acct-1, acct-2 in order", accounts)
	}
}

func TestClient_CreateSDDC(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantStatus string
		wantErr    error
	}{
		{
			name:       "started",
			statusCode: http.StatusOK,
			body:       `{"status":"STARTED","id":"task-1"}`,
			wantStatus: "STARTED",
		},
		{
			name:       "embedded failure status in 2xx",
			statusCode: http.StatusAccepted,
			body:       `{"status":"FAILED","id":"task-2","error_message":"quota"}`,
			wantStatus: "FAILED",
		},
		{
			name:       "missing status",
			statusCode: http.StatusOK,
			body:       `{"id":"task-3"}`,
			wantErr:    ErrProtocol,
		},
		{
			name:       "not json",
			statusCode: http.StatusOK,
			body:       `accepted`,
			wantErr:    ErrProtocol,
		},
		{
			name:       "provider rejection",
			statusCode: http.StatusBadRequest,
			body:       `{"error_code":"invalid.input","error_messages":["bad cidr"]}`,
			wantErr:    ErrProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.CreateSDDCRequest
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/vmc/api/orgs/o1/sddcs" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type = %s", ct)
				}
				json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.statusCode)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			spec := models.InstanceSpec{Name: "vmc-1", CIDR: "10.0.0.0/16", Provider: "AWS", SubnetID: "subnet-1", Region: "US_WEST_2", NumHosts: 3}
			task, err := client.CreateSDDC(context.Background(), "o1", models.NewCreateSDDCRequest(spec, "acct-9"))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateSDDC() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSDDC() unexpected error = %v", err)
			}
			if task.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", task.Status, tt.wantStatus)
			}
			if got.AccountLinkSDDCConfig[0].ConnectedAccountID != "acct-9" {
				t.Errorf("connected_account_id = %s, want acct-9", got.AccountLinkSDDCConfig[0].ConnectedAccountID)
			}
		})
	}
}

func TestClient_ProviderErrorDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error_code":"sddc.not.found","error_messages":["SDDC gone"]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.DeleteSDDC(context.Background(), "o1", "sddc-1")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("DeleteSDDC() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Class != ErrorClassNotFound {
		t.Errorf("APIError = %+v", apiErr)
	}
	if apiErr.Code != "sddc.not.found" || len(apiErr.Messages) != 1 || apiErr.Messages[0] != "SDDC gone" {
		t.Errorf("APIError details = %+v", apiErr)
	}
}

func TestClient_DeleteSDDC(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantTask string
	}{
		{name: "task body", body: `{"id":"task-del","status":"STARTED"}`, wantTask: "task-del"},
		{name: "empty body", body: ``, wantTask: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != "/vmc/api/orgs/o1/sddcs/sddc-1" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(http.StatusAccepted)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			task, err := client.DeleteSDDC(context.Background(), "o1", "sddc-1")
			if err != nil {
				t.Fatalf("DeleteSDDC() error = %v", err)
			}
			if task.ID != tt.wantTask {
				t.Errorf("task ID = %q, want %q", task.ID, tt.wantTask)
			}
		})
	}
}

func TestClient_GetTask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vmc/api/orgs/o1/tasks/task-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		io.WriteString(w, `{"id":"task-1","status":"STARTED","estimated_remaining_minutes":42}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	task, err := client.GetTask(context.Background(), "o1", "task-1")
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if task.Status != models.TaskStatusStarted || task.EstimatedRemainingMinutes != 42 {
		t.Errorf("GetTask() = %+v", task)
	}
}

func TestOrgPath_Escapes(t *testing.T) {
	got := orgPath("org/with space", "tasks", "t?1")
	want := "/vmc/api/orgs/" + url.PathEscape("org/with space") + "/tasks/" + url.PathEscape("t?1")
	if got != want {
		t.Errorf("orgPath() = %s, want %s", got, want)
	}
}
