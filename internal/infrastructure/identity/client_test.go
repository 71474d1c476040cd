package identity_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "chat-api/internal/domain/identity"
	identityclient "chat-api/internal/infrastructure/identity"
)

func identityTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func writeIdentityError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": status, "message": code},
	})
}

func TestSignIn_Success(t *testing.T) {
	server := identityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/accounts:signInWithPassword" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected api key in query, got %q", r.URL.Query().Get("key"))
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "user@example.com" {
			t.Errorf("unexpected email %v", body["email"])
		}
		if body["returnSecureToken"] != true {
			t.Error("expected returnSecureToken true")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"localId":      "uid-123",
			"email":        "user@example.com",
			"idToken":      "token-abc",
			"refreshToken": "refresh-xyz",
		})
	})

	client := identityclient.NewClient(server.URL, "test-key")
	user, err := client.SignIn(context.Background(), "user@example.com", "123456")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if user.ID != "uid-123" {
		t.Errorf("unexpected user id %q", user.ID)
	}
	if user.IDToken != "token-abc" || user.RefreshToken != "refresh-xyz" {
		t.Errorf("tokens not mapped: %+v", user)
	}
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	codes := []string{"INVALID_LOGIN_CREDENTIALS", "INVALID_PASSWORD", "INVALID_EMAIL"}
	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			server := identityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeIdentityError(w, http.StatusBadRequest, code)
			})

			client := identityclient.NewClient(server.URL, "test-key")
			_, err := client.SignIn(context.Background(), "user@example.com", "wrong")
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestSignIn_EmailNotFound(t *testing.T) {
	server := identityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeIdentityError(w, http.StatusBadRequest, "EMAIL_NOT_FOUND")
	})

	client := identityclient.NewClient(server.URL, "test-key")
	_, err := client.SignIn(context.Background(), "user@example.com", "123456")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSignUp_EmailExists(t *testing.T) {
	server := identityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/accounts:signUp" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		writeIdentityError(w, http.StatusBadRequest, "EMAIL_EXISTS")
	})

	client := identityclient.NewClient(server.URL, "test-key")
	_, err := client.SignUp(context.Background(), "user@example.com", "123456")
	if !errors.Is(err, domain.ErrEmailInUse) {
		t.Errorf("expected ErrEmailInUse, got %v", err)
	}
}

func TestSignIn_ErrorCodeWithSuffix(t *testing.T) {
	server := identityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_LOGIN_CREDENTIALS : Too many attempts")
	})

	client := identityclient.NewClient(server.URL, "test-key")
	_, err := client.SignIn(context.Background(), "user@example.com", "123456")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected prefix match on suffixed code, got %v", err)
	}
}

func TestSignIn_UnknownErrorPassedThrough(t *testing.T) {
	server := identityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeIdentityError(w, http.StatusInternalServerError, "SOMETHING_ELSE")
	})

	client := identityclient.NewClient(server.URL, "test-key")
	_, err := client.SignIn(context.Background(), "user@example.com", "123456")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrEmailInUse) || errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("unknown codes must not map to typed failures, got %v", err)
	}
}

func TestLookup_Success(t *testing.T) {
	server := identityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/accounts:lookup" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]any{
				{"localId": "uid-123", "email": "user@example.com"},
			},
		})
	})

	client := identityclient.NewClient(server.URL, "test-key")
	user, err := client.Lookup(context.Background(), "token-abc")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if user.ID != "uid-123" || user.Email != "user@example.com" {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestLookup_NoUsers(t *testing.T) {
	server := identityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"users": []map[string]any{}})
	})

	client := identityclient.NewClient(server.URL, "test-key")
	_, err := client.Lookup(context.Background(), "stale-token")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
