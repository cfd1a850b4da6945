package identity

import "strings"

// Social id prefixes the backend has historically baked into user ids.
var socialPrefixes = []string{"google_", "kakao_", "social_"}

// RawPostRecord is the post shape returned by the post endpoints. UserID may
// be a bare local id, a bare social subject id, or a provider-prefixed string
// ("google_<id>", "kakao_<id>") depending on the backend revision that wrote
// the row. That inconsistency is exactly what IsOwner papers over.
type RawPostRecord struct {
	PostID       FlexID   `json:"postId"`
	UserID       FlexID   `json:"userId"`
	UserNickname string   `json:"userNickname"`
	AuthProvider string   `json:"authProvider,omitempty"`
	SocialID     FlexID   `json:"socialId,omitempty"`
	PostTitle    string   `json:"postTitle"`
	PostContent  string   `json:"postContent"`
	PlaceList    []string `json:"placeList"`
	ImageURLs    []string `json:"imageUrls"`
	Likes        int      `json:"likes"`
}

// IsOwner reports whether the identity authored the post.
//
// The backend does not guarantee a single user-id encoding across provider
// types, so ownership is an ordered OR-chain of comparison strategies, each a
// heuristic for the same underlying fact. Evaluation short-circuits on the
// first hit. The function is pure and total: it never panics, and an absent
// identity or nil post yields false, so it is safe to call before the session
// has finished loading.
//
// A historical revision additionally granted ownership to any Kakao account
// whenever the post's user id was a positive integer. That was a defect, not
// a policy, and is deliberately not implemented.
func IsOwner(identity CanonicalIdentity, post *RawPostRecord) bool {
	if identity.IsZero() || post == nil {
		return false
	}

	postUserID := string(post.UserID)

	// 1. Direct match.
	if postUserID != "" && postUserID == identity.RawID {
		return true
	}

	// 2. Prefix-stripped match: "google_99" owns a post recorded as "99".
	stripped, hadPrefix := stripSocialPrefix(identity.RawID)
	if hadPrefix && postUserID != "" && stripped == postUserID {
		return true
	}

	// 3. Explicit social-pair match: provider and subject id both recorded on
	// the post, both agreeing with the identity. The identity id is compared
	// with its prefix removed when one is present.
	if post.SocialID != "" && post.AuthProvider != "" &&
		string(identity.Provider) == post.AuthProvider &&
		stripped == string(post.SocialID) {
		return true
	}

	// 4. Nickname match, last resort: trimmed, case-insensitive.
	idName := strings.TrimSpace(identity.DisplayName)
	postName := strings.TrimSpace(post.UserNickname)
	if idName != "" && strings.EqualFold(idName, postName) {
		return true
	}

	return false
}

// stripSocialPrefix removes a known social prefix from an identity id.
// The second return is false when no prefix was present.
func stripSocialPrefix(id string) (string, bool) {
	for _, prefix := range socialPrefixes {
		if strings.HasPrefix(id, prefix) {
			return id[len(prefix):], true
		}
	}
	return id, false
}

// OwnerIDVariants returns every user-id encoding a single identity may have
// authored posts under: the id as-is, the prefix-stripped subject, and the
// remaining social prefix spellings of that subject. Local ids (no prefix)
// have exactly one variant.
func OwnerIDVariants(rawID string) []string {
	if rawID == "" {
		return nil
	}

	stripped, hadPrefix := stripSocialPrefix(rawID)
	if !hadPrefix {
		return []string{rawID}
	}

	variants := []string{rawID, stripped}
	for _, prefix := range socialPrefixes {
		candidate := prefix + stripped
		if candidate != rawID {
			variants = append(variants, candidate)
		}
	}
	return variants
}

// SocialSubject returns the bare provider subject of a prefixed social id.
// Ids without a known prefix come back unchanged.
func SocialSubject(rawID string) string {
	stripped, _ := stripSocialPrefix(rawID)
	return stripped
}

// FormatSocialID renders a social subject id in the provider-prefixed form the
// backend uses for post rows ("google_<id>", "kakao_<id>", "social_<id>").
func FormatSocialID(provider Provider, socialID string) string {
	switch provider {
	case ProviderGoogle:
		return "google_" + socialID
	case ProviderKakao:
		return "kakao_" + socialID
	default:
		return "social_" + socialID
	}
}
