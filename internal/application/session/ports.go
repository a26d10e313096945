package session

import (
	"context"

	"github.com/tu-usuario/taller-tickets/internal/application/dto"
	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
)

// API es lo que el Session Store necesita del backend remoto.
// Lo implementa api.Client; en tests se sustituye por un doble.
type API interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error)
	Signup(ctx context.Context, in dto.RegisterRequest) error
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context, tokenOverride string) (*entity.User, error)
	Tickets(ctx context.Context, tokenOverride string) ([]entity.Ticket, error)
	CreateTicket(ctx context.Context, in dto.CreateTicketRequest) error
}

// TokenStore persistencia durable del token de sesión.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// authError lo satisface *api.APIError sin acoplar esta capa a la
// infraestructura: basta con poder preguntar si el fallo fue 401.
type authError interface {
	EsAuth() bool
}
