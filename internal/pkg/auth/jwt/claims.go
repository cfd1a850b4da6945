package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the JWT claims issued by the Travelog server.
// It carries the normalized identity of the signed-in user, so authorization
// decisions never have to re-derive provider-specific shapes from the database.
type Payload struct {
	// StandardClaims embeds Exp, Iat, and Iss, which drive token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the canonical identifier of the user: the numeric account id for
	// local accounts, or a provider-prefixed subject ("google_<sub>",
	// "kakao_<id>") for social accounts.
	ID string `json:"id"`

	// Provider is the authentication source: "LOCAL", "GOOGLE", or "KAKAO".
	Provider string `json:"provider"`

	// Nickname is the display name shown on posts.
	Nickname string `json:"nickname,omitempty"`

	// Avatar is the absolute URL of the user's profile image, if any.
	Avatar string `json:"avatar,omitempty"`
}
