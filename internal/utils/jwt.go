package utils // package utils provides helpers for codes, session tokens and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens

	"github.com/iliyamo/table-reservation/internal/model"
)

// ErrInvalidToken is returned when no configured secret verifies a token or
// the token was issued under an older version.
var ErrInvalidToken = errors.New("invalid admin token")

// DefaultAdminTokenTTL is how long an admin session stays valid.
const DefaultAdminTokenTTL = 8 * time.Hour

// AdminClaims is the payload of an admin session token.  Ver ties the token
// to AUTH_TOKEN_VERSION so that bumping the version logs everyone out.
type AdminClaims struct {
	Username   string `json:"username"`
	Restaurant string `json:"restaurant,omitempty"`
	Ver        string `json:"ver"`
	jwt.RegisteredClaims
}

// TokenKeys holds the signing material for admin sessions.  Tokens are
// always signed with Current; Previous is accepted during verification so
// that a secret rotation does not invalidate live sessions.
type TokenKeys struct {
	Current  string
	Previous string
	Version  string
}

// AccessToken represents a signed admin token along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAdminToken signs an HS256 session token for an admin bound to a
// restaurant.
func NewAdminToken(keys TokenKeys, admin model.Admin, ttl time.Duration) (AccessToken, error) {
	if ttl <= 0 {
		ttl = DefaultAdminTokenTTL
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := AdminClaims{
		Username:   admin.Username,
		Restaurant: admin.RestaurantSlug,
		Ver:        keys.Version,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(keys.Current))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAdminToken verifies raw against the current and then the previous
// secret and returns the admin identity it carries.
func ParseAdminToken(keys TokenKeys, raw string) (*model.Admin, error) {
	for _, secret := range []string{keys.Current, keys.Previous} {
		if secret == "" {
			continue
		}
		var claims AdminClaims
		tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
			// Reject anything that is not HMAC signed.
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			continue
		}
		if claims.Ver != keys.Version {
			continue
		}
		return &model.Admin{Username: claims.Username, RestaurantSlug: claims.Restaurant}, nil
	}
	return nil, ErrInvalidToken
}
