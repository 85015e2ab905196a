package identity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSession_RoundTrip(t *testing.T) {
	s := NewFileSession(t.TempDir())
	ctx := context.Background()

	_, err := s.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = s.Token()
	assert.ErrorIs(t, err, ErrUnauthenticated)

	u := User{ID: "u1", Email: "u1@example.com"}
	require.NoError(t, s.Save("tok-123", u))

	got, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, *got)

	token, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	require.NoError(t, s.Clear())
	_, err = s.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// clearing twice is fine
	assert.NoError(t, s.Clear())
}

func TestFileSession_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSession(dir)

	require.NoError(t, s.Save("tok", User{ID: "u1", Email: "u@e.co"}))

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileSession_RejectsPartialFile(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSession(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte(`{"token":""}`), 0o600))
	_, err := s.CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte(`not json`), 0o600))
	_, err = s.CurrentUser(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}
