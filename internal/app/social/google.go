package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"travelog/internal/app/identity"
)

// googleTokenInfoURL validates a Google ID token and returns its claims.
const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// ErrVerifyFailed reports that a provider rejected the presented credential.
var ErrVerifyFailed = errors.New("social: credential verification failed")

// GoogleVerifier checks Google Sign-In ID tokens against the tokeninfo
// endpoint and maps the claims to a raw user record.
type GoogleVerifier struct {
	ClientID string

	// TokenInfoURL overrides the verification endpoint. Empty means the
	// public Google endpoint.
	TokenInfoURL string

	HTTPClient *http.Client
}

type googleTokenInfo struct {
	Sub     string `json:"sub"`
	Aud     string `json:"aud"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// VerifyCredential validates the ID token and returns the record of the
// signed-in Google account. The audience claim must match ClientID.
func (v *GoogleVerifier) VerifyCredential(ctx context.Context, credential string) (identity.RawUserRecord, error) {
	if credential == "" {
		return identity.RawUserRecord{}, ErrVerifyFailed
	}

	endpoint := v.TokenInfoURL
	if endpoint == "" {
		endpoint = googleTokenInfoURL
	}

	reqURL := endpoint + "?id_token=" + url.QueryEscape(credential)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return identity.RawUserRecord{}, err
	}

	client := v.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	res, err := client.Do(req)
	if err != nil {
		return identity.RawUserRecord{}, fmt.Errorf("google tokeninfo request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return identity.RawUserRecord{}, ErrVerifyFailed
	}

	var info googleTokenInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return identity.RawUserRecord{}, fmt.Errorf("google tokeninfo decode: %w", err)
	}

	if info.Sub == "" || (v.ClientID != "" && info.Aud != v.ClientID) {
		return identity.RawUserRecord{}, ErrVerifyFailed
	}

	return identity.RawUserRecord{
		ID:           identity.FlexID(info.Sub),
		Email:        info.Email,
		Name:         info.Name,
		Picture:      info.Picture,
		AuthProvider: string(identity.ProviderGoogle),
	}, nil
}
