/*
Package randx provides cryptographically secure random identifiers.

It generates object keys for uploaded photos, OAuth state tokens, and short
Base62 suffixes used to de-collide display names.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"path"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars is the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the size of the Base62 character set.
	Base62Len = int64(len(Base62Chars))

	// StateTokenLength is the length of OAuth state tokens.
	StateTokenLength = 24
)

// Base62String returns a random Base62 string of length n.
func Base62String(n int) (string, error) {
	result := make([]byte, n)

	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random base62 character: %v", err)
		}
		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// StateToken generates the random state parameter for an OAuth authorization request.
func StateToken() (string, error) {
	return Base62String(StateTokenLength)
}

// PhotoObjectKey builds a storage key for an uploaded journal photo,
// namespaced by post and made unique with a UUID. The original file
// extension is preserved so Content-Type stays inferable.
func PhotoObjectKey(postID int64, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("posts/%d/%s%s", postID, uuid.New().String(), ext)
}

// ProfileImageKey builds a storage key for a user's profile image.
func ProfileImageKey(userID int64, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("profiles/%d/%s%s", userID, uuid.New().String(), ext)
}

// NicknameSuffix returns a short Base62 suffix appended to auto-generated
// display names when the preferred one is taken.
func NicknameSuffix() (string, error) {
	return Base62String(4)
}
