package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	payload := &Payload{
		ID:       "google_123",
		Provider: "GOOGLE",
		Nickname: "Traveler",
		Avatar:   "https://example.com/a.png",
	}

	token, err := GenerateToken(payload, testSecret, SessionExpiration)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	parsed, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}

	if parsed.ID != "google_123" {
		t.Errorf("parsed ID = %q, want google_123", parsed.ID)
	}
	if parsed.Provider != "GOOGLE" {
		t.Errorf("parsed Provider = %q, want GOOGLE", parsed.Provider)
	}
	if parsed.Nickname != "Traveler" {
		t.Errorf("parsed Nickname = %q, want Traveler", parsed.Nickname)
	}
	if parsed.Issuer != TokenIssuer {
		t.Errorf("parsed Issuer = %q, want %q", parsed.Issuer, TokenIssuer)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(&Payload{ID: "1", Provider: "LOCAL"}, testSecret, SessionExpiration)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := ParseToken(token, "other-secret"); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken(&Payload{ID: "1", Provider: "LOCAL"}, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := ParseToken(token, testSecret); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestIdentityExtractorMiddleware(t *testing.T) {
	var captured *Payload
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetPayloadFromContext(r)
	})
	handler := IdentityExtractorMiddleware(testSecret)(next)

	token, err := GenerateToken(&Payload{ID: "7", Provider: "LOCAL", Nickname: "Al"}, testSecret, SessionExpiration)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantID     string
	}{
		{"valid token", "Bearer " + token, "7"},
		{"no header", "", ""},
		{"malformed header", "NotBearer " + token, ""},
		{"garbage token", "Bearer not.a.token", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured = nil
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				r.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("middleware must never block: got status %d", w.Code)
			}
			if tt.wantID == "" {
				if captured != nil {
					t.Errorf("expected anonymous request, got payload %+v", captured)
				}
				return
			}
			if captured == nil || captured.ID != tt.wantID {
				t.Errorf("captured payload = %+v, want ID %q", captured, tt.wantID)
			}
		})
	}
}
