/*
Package identity normalizes the heterogeneous user shapes produced by the three
sign-in paths (local password, Google, Kakao) into one canonical identity, and
decides whether that identity owns a given journal post.

Raw user records differ per provider in field names, id encodings, and avatar
location. Everything downstream works only with CanonicalIdentity; the
reconciliation rules live here and nowhere else.
*/
package identity

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Provider is the authentication source of an account.
type Provider string

const (
	ProviderLocal  Provider = "LOCAL"
	ProviderGoogle Provider = "GOOGLE"
	ProviderKakao  Provider = "KAKAO"
)

// GuestDisplayName is the display-name fallback when a record carries no
// usable name ("게스트" means guest).
const GuestDisplayName = "게스트"

// DefaultAvatarPath is the server-relative default avatar asset, used when a
// record has neither a social picture nor an uploaded profile image.
const DefaultAvatarPath = "/img/default-avatar.png"

// BearerPrefix is the scheme prefix of the Authorization header value.
const BearerPrefix = "Bearer "

// ErrMissingID reports a raw user record without any usable identifier.
// Callers must treat this as "no session" and route to login.
var ErrMissingID = errors.New("identity: user record has no usable id")

// FlexID is an identifier that tolerates both JSON strings and JSON numbers,
// since the backend encodes user ids inconsistently across providers.
type FlexID string

// UnmarshalJSON accepts "42", 42, and null, all without loss.
func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// RawUserRecord is the provider-dependent user shape handed over after
// authentication. Not all fields are present at once: which ones carry
// meaning depends on AuthProvider, and several are historical synonyms
// (token/accessToken, the four name fields) that co-exist with stale values.
type RawUserRecord struct {
	ID     FlexID `json:"id"`
	UserID FlexID `json:"userid"`

	// LoginID is the local login identifier (email in most revisions).
	LoginID string `json:"userId,omitempty"`
	Email   string `json:"email,omitempty"`

	NickName     string `json:"nickName,omitempty"`
	Name         string `json:"name,omitempty"`
	UserNickName string `json:"userNickName,omitempty"`
	Username     string `json:"username,omitempty"`

	AuthProvider string `json:"authProvider,omitempty"`

	// Picture (external URL) and UserProfileImage (server-relative path) are
	// mutually exclusive: social providers fill the first, local accounts the second.
	Picture          string `json:"picture,omitempty"`
	UserProfileImage string `json:"userProfileImage,omitempty"`

	Token       string `json:"token,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

// CanonicalIdentity is the single normalized representation of "who is signed
// in". It is immutable once computed for a session.
type CanonicalIdentity struct {
	RawID       string   `json:"rawId"`
	DisplayName string   `json:"displayName"`
	AvatarURL   string   `json:"avatarUrl"`
	Provider    Provider `json:"provider"`
	AuthToken   string   `json:"authToken"`
}

// IsZero reports whether no identity has been established.
func (c CanonicalIdentity) IsZero() bool {
	return c.RawID == ""
}

// Resolver derives CanonicalIdentity values from raw user records.
// AssetBaseURL is the public origin prepended to server-relative image paths.
// Sessions, when non-nil, supplies the persisted bearer-token fallback.
type Resolver struct {
	AssetBaseURL string
	Sessions     SessionStore
}

// Resolve normalizes a raw user record into a CanonicalIdentity.
//
// The field precedence is fixed and load-bearing: records can carry stale
// values left over from a previous provider, so "first match wins" in the
// documented order is the contract, not an implementation detail.
func (r *Resolver) Resolve(raw *RawUserRecord) (CanonicalIdentity, error) {
	if raw == nil {
		return CanonicalIdentity{}, ErrMissingID
	}

	// 1. Identifier: id, then userid.
	rawID := string(raw.ID)
	if rawID == "" {
		rawID = string(raw.UserID)
	}
	if rawID == "" {
		return CanonicalIdentity{}, ErrMissingID
	}

	// 2. Display name: nickName, name, userNickName, username, guest fallback.
	displayName := firstNonBlank(raw.NickName, raw.Name, raw.UserNickName, raw.Username)
	if displayName == "" {
		displayName = GuestDisplayName
	}

	// 3. Avatar: external picture verbatim, else composed profile-image path,
	// else the bundled default asset.
	var avatarURL string
	switch {
	case raw.Picture != "":
		avatarURL = raw.Picture
	case raw.UserProfileImage != "":
		avatarURL = r.AssetBaseURL + raw.UserProfileImage
	default:
		avatarURL = r.AssetBaseURL + DefaultAvatarPath
	}

	// 4. Provider: GOOGLE and KAKAO pass through, everything else is LOCAL.
	provider := NormalizeProvider(raw.AuthProvider)

	// 5. Bearer credential: token, accessToken, then the persisted session store.
	token := raw.Token
	if token == "" {
		token = raw.AccessToken
	}
	if token == "" && r.Sessions != nil {
		token = r.Sessions.Token()
	}

	return CanonicalIdentity{
		RawID:       rawID,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		Provider:    provider,
		AuthToken:   NormalizeBearer(token),
	}, nil
}

// NormalizeProvider maps a raw authProvider tag to a Provider.
// Only the exact tags "GOOGLE" and "KAKAO" denote social accounts; absent or
// unrecognized tags (including the legacy "일반" marker) mean LOCAL.
func NormalizeProvider(tag string) Provider {
	switch tag {
	case string(ProviderGoogle):
		return ProviderGoogle
	case string(ProviderKakao):
		return ProviderKakao
	default:
		return ProviderLocal
	}
}

// NormalizeBearer prefixes the token with "Bearer " exactly once.
// Empty tokens stay empty, and the function is idempotent.
func NormalizeBearer(token string) string {
	if token == "" {
		return ""
	}
	if strings.HasPrefix(token, BearerPrefix) {
		return token
	}
	return BearerPrefix + token
}

func firstNonBlank(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}
