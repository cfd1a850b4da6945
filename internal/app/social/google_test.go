package social

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"travelog/internal/app/identity"
)

func TestGoogleVerifyCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_token") != "valid-token" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"sub": "10987654321",
			"aud": "travelog-client-id",
			"email": "trip@example.com",
			"name": "Trip Lee",
			"picture": "https://lh3.example.com/p.jpg"
		}`))
	}))
	defer srv.Close()

	v := &GoogleVerifier{ClientID: "travelog-client-id", TokenInfoURL: srv.URL}

	raw, err := v.VerifyCredential(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("VerifyCredential returned error: %v", err)
	}

	if string(raw.ID) != "10987654321" {
		t.Errorf("ID = %q, want 10987654321", raw.ID)
	}
	if raw.Email != "trip@example.com" {
		t.Errorf("Email = %q", raw.Email)
	}
	if raw.Name != "Trip Lee" {
		t.Errorf("Name = %q", raw.Name)
	}
	if raw.AuthProvider != string(identity.ProviderGoogle) {
		t.Errorf("AuthProvider = %q, want GOOGLE", raw.AuthProvider)
	}
}

func TestGoogleVerifyCredentialAudienceMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sub": "1", "aud": "some-other-client"}`))
	}))
	defer srv.Close()

	v := &GoogleVerifier{ClientID: "travelog-client-id", TokenInfoURL: srv.URL}

	_, err := v.VerifyCredential(context.Background(), "token")
	if !errors.Is(err, ErrVerifyFailed) {
		t.Errorf("expected ErrVerifyFailed for audience mismatch, got %v", err)
	}
}

func TestGoogleVerifyCredentialRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	v := &GoogleVerifier{ClientID: "travelog-client-id", TokenInfoURL: srv.URL}

	_, err := v.VerifyCredential(context.Background(), "expired-token")
	if !errors.Is(err, ErrVerifyFailed) {
		t.Errorf("expected ErrVerifyFailed, got %v", err)
	}
}

func TestGoogleVerifyCredentialEmpty(t *testing.T) {
	v := &GoogleVerifier{ClientID: "travelog-client-id"}

	_, err := v.VerifyCredential(context.Background(), "")
	if !errors.Is(err, ErrVerifyFailed) {
		t.Errorf("expected ErrVerifyFailed for empty credential, got %v", err)
	}
}
