package dto

import "github.com/tu-usuario/taller-tickets/internal/domain/entity"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest entrada para registro. No hace auto-login: tras un
// registro exitoso la pantalla vuelve al login.
type RegisterRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Telefono string `json:"telefono,omitempty"`
}

// LoginResponse salida de login. El backend devuelve el rol como campo
// hermano del user, no anidado; el Session Store lo fusiona dentro del
// user antes de exponerlo.
type LoginResponse struct {
	Token string      `json:"token"`
	User  entity.User `json:"user"`
	Rol   string      `json:"rol"`
}
