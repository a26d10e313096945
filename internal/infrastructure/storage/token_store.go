// Package storage implementa la persistencia local del cliente: un
// único valor (el token de sesión) bajo una ruta fija, el equivalente
// del almacenamiento seguro clave-valor del dispositivo.
package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenFile guarda el token de sesión en un archivo con permisos 0600.
type TokenFile struct {
	path string
}

// NewTokenFile construye el almacén apuntando a path.
func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

// Load devuelve el token persistido, o vacío sin error si no hay.
func (s *TokenFile) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// Save persiste el token, creando el directorio si hace falta.
func (s *TokenFile) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// Clear elimina el token persistido. Que no exista no es error.
func (s *TokenFile) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
