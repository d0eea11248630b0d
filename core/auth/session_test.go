package auth

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahq/darasa/core/user"
)

func Test_encodeDecodeSession(t *testing.T) {
	key := []byte("s3cr3t")
	sess := UserSession{
		ID:        "2f0a9d2e-7a62-4a51-9c7e-0b9a8f3f9a11",
		Email:     "jane@test.cd",
		Name:      "Jane Doe",
		Role:      user.RoleTeacher,
		Status:    user.StatusActive,
		CreatedAt: time.Date(2021, time.March, 2, 10, 0, 0, 0, time.UTC),
	}

	raw, err := encodeSession(sess, key, "Darasa")
	require.NoError(t, err)

	got, err := decodeSession(raw, key)
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func Test_decodeSession_rejects(t *testing.T) {
	key := []byte("s3cr3t")
	sess := UserSession{ID: "abc", Role: user.RoleStudent, Status: user.StatusActive}

	t.Run("garbage", func(t *testing.T) {
		_, err := decodeSession([]byte("lol"), key)
		assert.Equal(t, ErrMalformedSession, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		raw, err := encodeSession(sess, key, "Darasa")
		require.NoError(t, err)
		_, err = decodeSession(raw, []byte("other"))
		assert.Equal(t, ErrMalformedSession, err)
	})

	t.Run("tampered payload", func(t *testing.T) {
		raw, err := encodeSession(sess, key, "Darasa")
		require.NoError(t, err)
		raw[len(raw)/2] ^= 0xff
		_, err = decodeSession(raw, key)
		assert.Equal(t, ErrMalformedSession, err)
	})

	t.Run("unsigned token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &sessionClaims{
			StandardClaims: jwt.StandardClaims{Subject: "abc"},
			Role:           user.RoleAdmin,
			Status:         user.StatusActive,
		})
		ss, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = decodeSession([]byte(ss), key)
		assert.Equal(t, ErrMalformedSession, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		raw, err := encodeSession(UserSession{}, key, "Darasa")
		require.NoError(t, err)
		_, err = decodeSession(raw, key)
		assert.Equal(t, ErrMalformedSession, err)
	})
}

func TestUserSession_Valid(t *testing.T) {
	tests := []struct {
		name string
		sess UserSession
		want bool
	}{
		{name: "active known role", sess: UserSession{Role: user.RoleStudent, Status: user.StatusActive}, want: true},
		{name: "held account", sess: UserSession{Role: user.RoleStudent, Status: user.StatusHold}, want: false},
		{name: "unknown role", sess: UserSession{Role: "superuser", Status: user.StatusActive}, want: false},
		{name: "empty", sess: UserSession{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sess.Valid())
		})
	}
}
