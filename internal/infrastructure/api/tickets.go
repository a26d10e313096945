package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tu-usuario/taller-tickets/internal/application/dto"
	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
)

// Tickets devuelve la colección de tickets visible para el caller
// (GET /tickets). El alcance por rol lo decide el servidor.
func (c *Client) Tickets(ctx context.Context, tokenOverride string) ([]entity.Ticket, error) {
	raw, err := c.Call(ctx, "/tickets", http.MethodGet, nil, tokenOverride)
	if err != nil {
		return nil, err
	}
	return decodeTickets(raw)
}

// MyTickets devuelve solo los tickets asignados al técnico autenticado
// (GET /my-tickets).
func (c *Client) MyTickets(ctx context.Context) ([]entity.Ticket, error) {
	raw, err := c.Call(ctx, "/my-tickets", http.MethodGet, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeTickets(raw)
}

// CreateTicket crea un ticket (POST /tickets). El caller debe refetchear
// la colección después: los defaults (estados iniciales) los computa el
// servidor y no se sintetizan localmente.
func (c *Client) CreateTicket(ctx context.Context, in dto.CreateTicketRequest) error {
	_, err := c.Call(ctx, "/tickets", http.MethodPost, in, "")
	return err
}

// UpdateTicket aplica un parche parcial (PATCH /tickets/{id}).
func (c *Client) UpdateTicket(ctx context.Context, id int, in dto.UpdateTicketRequest) error {
	_, err := c.Call(ctx, fmt.Sprintf("/tickets/%d", id), http.MethodPatch, in, "")
	return err
}

// AssignTicket asigna el ticket al técnico autenticado
// (POST /tickets/{id}/assign). Un ticket ya tomado responde 409.
func (c *Client) AssignTicket(ctx context.Context, id int) error {
	_, err := c.Call(ctx, fmt.Sprintf("/tickets/%d/assign", id), http.MethodPost, nil, "")
	return err
}

func decodeTickets(raw json.RawMessage) ([]entity.Ticket, error) {
	if raw == nil {
		return nil, nil
	}
	var ts []entity.Ticket
	if err := json.Unmarshal(raw, &ts); err != nil {
		return nil, err
	}
	return ts, nil
}
