package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"huddle/pkg/errs"
)

// sessionClaims binds a token to a server-side session entry. The exp
// claim mirrors the session expiry so both sides enforce the same TTL.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (s *Service) signToken(uid int64, sid string, expiry int64) (string, error) {
	claims := sessionClaims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   formatUID(uid),
			ExpiresAt: jwt.NewNumericDate(time.Unix(expiry, 0)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// parseToken verifies the signature and shape of a token. Any failure
// is an AccessError; session liveness is checked separately against the
// store.
func (s *Service) parseToken(token string) (int64, string, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, "", errs.Access("token is invalid")
	}
	uid, err := parseUID(claims.Subject)
	if err != nil || claims.SessionID == "" {
		return 0, "", errs.Access("token is invalid")
	}
	return uid, claims.SessionID, nil
}

func formatUID(uid int64) string {
	return strconv.FormatInt(uid, 10)
}

func parseUID(sub string) (int64, error) {
	return strconv.ParseInt(sub, 10, 64)
}
