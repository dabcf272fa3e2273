package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/perpusctl/internal/session"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestParseRole_Anggota(t *testing.T) {
	assert.Equal(t, session.RoleUser, session.ParseRole("ANGGOTA"))
	assert.Equal(t, session.RoleUser, session.ParseRole("USER"))
	assert.Equal(t, session.RoleAdmin, session.ParseRole("admin"))
}

func TestStore_PlaceholderToken(t *testing.T) {
	for _, tok := range []string{"undefined", "null"} {
		s := session.NewStore("")
		require.Error(t, s.Save(tok, session.User{Username: "x"}))
		assert.Empty(t, s.Token())
		assert.False(t, s.Authenticated(time.Now()))
	}
}

func TestStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yml")
	user := session.User{ID: "7", Username: "budi", Role: session.RoleUser, Nama: "Budi Santoso", NIM: "2101001"}

	s := session.NewStore(path)
	require.NoError(t, s.Save("opaque-token", user))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reloaded := session.NewStore(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "opaque-token", reloaded.Token())

	got, err := reloaded.User()
	require.NoError(t, err)
	assert.Equal(t, user, got)
	assert.True(t, reloaded.Authenticated(time.Now()))
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yml")
	require.NoError(t, os.WriteFile(path, []byte("token: [unclosed"), 0600))

	s := session.NewStore(path)
	require.NoError(t, s.Load())
	assert.Empty(t, s.Token())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_InvalidateTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yml")
	s := session.NewStore(path)
	require.NoError(t, s.Save("tok", session.User{Username: "admin", Role: session.RoleAdmin}))
	assert.True(t, s.IsAdmin())

	require.NoError(t, s.Invalidate())
	require.NoError(t, s.Invalidate())

	assert.Empty(t, s.Token())
	_, err := s.User()
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.False(t, s.IsAdmin())
}

func TestStore_ExpiredJWT(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	s := session.NewStore("")

	require.NoError(t, s.Save(signed(t, jwt.MapClaims{"sub": "budi", "exp": now.Add(-time.Minute).Unix()}), session.User{}))
	assert.False(t, s.Authenticated(now))

	require.NoError(t, s.Save(signed(t, jwt.MapClaims{"sub": "budi", "exp": now.Add(time.Hour).Unix()}), session.User{}))
	assert.True(t, s.Authenticated(now))
}

func TestInspectToken(t *testing.T) {
	exp := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	c, err := session.InspectToken(signed(t, jwt.MapClaims{"sub": "42", "role": "ADMIN", "exp": exp.Unix()}))
	require.NoError(t, err)
	assert.Equal(t, "42", c.Subject)
	assert.Equal(t, "ADMIN", c.Role)
	assert.True(t, c.ExpiresAt.Equal(exp))

	_, err = session.InspectToken("not-a-jwt")
	assert.ErrorIs(t, err, session.ErrNotJWT)
}
