package claims

import (
	"errors"
	"fmt"

	jwt "github.com/dgrijalva/jwt-go"
	"homezen/pkg/role"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrMissingClaims  = errors.New("token is missing sub, role_id or exp")
)

// Claims is the payload the backend signs into access tokens.
// Subject and ExpiresAt come from the standard sub and exp fields.
type Claims struct {
	RoleID *int `json:"role_id"`
	jwt.StandardClaims
}

// Decode reads the payload of a backend token without checking its
// signature. The backend verifies the token on every API call; the
// dashboard only needs the subject, role and expiry.
func Decode(token string) (*Claims, error) {
	c := &Claims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if c.Subject == "" || c.RoleID == nil || c.ExpiresAt <= 0 {
		return nil, ErrMissingClaims
	}
	return c, nil
}

func (c *Claims) Role() role.Role {
	if c.RoleID == nil {
		return role.Unknown
	}
	return role.FromCode(*c.RoleID)
}
