package entity

import "time"

// Roles válidos para User. El rol lo asigna el backend; el cliente solo
// lo usa para decidir panel y permisos visibles.
const (
	RolAdmin         = "admin"
	RolTecnico       = "tecnico"
	RolUsuario       = "usuario"
	RolRecepcionista = "recepcionista"
)

// User representa al usuario autenticado (o a un usuario administrado
// desde el panel admin). Es una copia efímera de lo que devuelve el
// backend, nunca estado autoritativo.
type User struct {
	ID        int       `json:"id"`
	Nombre    string    `json:"nombre"`
	Email     string    `json:"email"`
	Rol       string    `json:"rol"` // admin, tecnico, usuario/recepcionista
	Telefono  string    `json:"telefono,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// EsAdmin indica si el usuario tiene rol admin.
func (u *User) EsAdmin() bool { return u != nil && u.Rol == RolAdmin }

// EsTecnico indica si el usuario tiene rol técnico.
func (u *User) EsTecnico() bool { return u != nil && u.Rol == RolTecnico }
