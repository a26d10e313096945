package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tu-usuario/taller-tickets/internal/application/dto"
	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
)

// Login autentica contra POST /login y devuelve la respuesta tal cual
// llega del backend: el rol viene como hermano del user, el merge lo
// hace el Session Store.
func (c *Client) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	raw, err := c.Call(ctx, "/login", http.MethodPost, in, "")
	if err != nil {
		return nil, err
	}
	var out dto.LoginResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup registra un usuario nuevo (POST /signup). No devuelve sesión:
// el flujo vuelve a la pantalla de login.
func (c *Client) Signup(ctx context.Context, in dto.RegisterRequest) error {
	_, err := c.Call(ctx, "/signup", http.MethodPost, in, "")
	return err
}

// Logout invalida la sesión del lado servidor (POST /logout).
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Call(ctx, "/logout", http.MethodPost, nil, "")
	return err
}

// CurrentUser devuelve el usuario de la sesión (GET /user). Acepta un
// token explícito para el arranque, cuando el token restaurado todavía
// no pasó por el flujo de login.
func (c *Client) CurrentUser(ctx context.Context, tokenOverride string) (*entity.User, error) {
	raw, err := c.Call(ctx, "/user", http.MethodGet, nil, tokenOverride)
	if err != nil {
		return nil, err
	}
	var u entity.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
