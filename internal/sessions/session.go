package sessions

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Fixed keys of the persisted session namespace.
const (
	TokenKey = "rems_jwt_token"
	UserKey  = "rems_user_data"
	ThemeKey = "theme"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// NewSessionID returns a random opaque session identifier.
func NewSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// TokenExpiry decodes the `exp` claim of a JWT bearer token without verifying it.
// It is informational only: a token stays usable until the backend rejects it.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// short returns a log-safe prefix of a session id.
func short(sid string) string {
	if len(sid) <= 8 {
		return sid
	}
	return sid[:8]
}
