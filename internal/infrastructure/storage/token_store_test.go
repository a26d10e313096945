package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/taller-tickets/internal/infrastructure/storage"
)

func TestTokenFile_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "session_token")
	s := storage.NewTokenFile(path)

	// Sin token todavía: vacío sin error.
	tok, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.Save("abc.def.ghi"))

	tok, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	// El token es material de sesión: solo el dueño debe poder leerlo.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Clear())
	tok, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)

	// Clear repetido no falla.
	require.NoError(t, s.Clear())
}
