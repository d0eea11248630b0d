package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/darasahq/darasa/core/user"
)

// UserSession is the authenticated identity held in memory and mirrored to
// the session cache. It never carries the password hash and is replaced
// wholesale on re-authentication, never mutated in place.
type UserSession struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserSession(usr user.User) UserSession {
	return UserSession{
		ID:        usr.ID,
		Email:     usr.Email,
		Name:      usr.Name,
		Role:      usr.Role,
		Status:    usr.Status,
		CreatedAt: usr.CreatedAt,
	}
}

// Valid reports whether the session may gate access: the account must be
// active and the role must be in the closed role set.
func (s UserSession) Valid() bool {
	return s.Status == user.StatusActive && user.KnownRole(s.Role)
}

// sessionClaims is the wire form of a cached session slot: a signed JWT so
// local tampering surfaces as a malformed slot.
type sessionClaims struct {
	jwt.StandardClaims
	Email            string `json:"email,omitempty"`
	Name             string `json:"name,omitempty"`
	Role             string `json:"role,omitempty"`
	Status           string `json:"status,omitempty"`
	AccountCreatedAt int64  `json:"acat,omitempty"`
}

func encodeSession(sess UserSession, key []byte, issuer string) ([]byte, error) {
	claims := &sessionClaims{
		StandardClaims: jwt.StandardClaims{
			Issuer:   issuer,
			Subject:  sess.ID,
			IssuedAt: time.Now().Unix(),
		},
		Email:            sess.Email,
		Name:             sess.Name,
		Role:             sess.Role,
		Status:           sess.Status,
		AccountCreatedAt: sess.CreatedAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(key)
	if err != nil {
		return nil, err
	}
	return []byte(ss), nil
}

func decodeSession(raw, key []byte) (UserSession, error) {
	claims := new(sessionClaims)
	token, err := jwt.ParseWithClaims(string(raw), claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformedSession
		}
		return key, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return UserSession{}, ErrMalformedSession
	}
	return UserSession{
		ID:        claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      claims.Role,
		Status:    claims.Status,
		CreatedAt: time.Unix(claims.AccountCreatedAt, 0).UTC(),
	}, nil
}
