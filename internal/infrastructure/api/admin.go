package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tu-usuario/taller-tickets/internal/application/dto"
	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
)

// AdminUsers lista usuarios (GET /admin/users), opcionalmente filtrados
// por rol con ?role=.
func (c *Client) AdminUsers(ctx context.Context, rol string) ([]entity.User, error) {
	endpoint := "/admin/users"
	if rol != "" {
		endpoint += "?role=" + url.QueryEscape(rol)
	}
	raw, err := c.Call(ctx, endpoint, http.MethodGet, nil, "")
	if err != nil {
		return nil, err
	}
	var us []entity.User
	if err := json.Unmarshal(raw, &us); err != nil {
		return nil, err
	}
	return us, nil
}

// SetUserRole cambia el rol de un usuario (PUT /admin/users/{id}/role).
func (c *Client) SetUserRole(ctx context.Context, id int, rol string) error {
	_, err := c.Call(ctx, fmt.Sprintf("/admin/users/%d/role", id), http.MethodPut, dto.SetRoleRequest{Rol: rol}, "")
	return err
}

// DeleteUser elimina un usuario (DELETE /admin/users/{id}).
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	_, err := c.Call(ctx, fmt.Sprintf("/admin/users/%d", id), http.MethodDelete, nil, "")
	return err
}

// ReportStats devuelve las estadísticas agregadas del taller
// (GET /admin/reports/stats).
func (c *Client) ReportStats(ctx context.Context) (*entity.ReportStats, error) {
	raw, err := c.Call(ctx, "/admin/reports/stats", http.MethodGet, nil, "")
	if err != nil {
		return nil, err
	}
	var s entity.ReportStats
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ReportPDF baja el reporte en PDF (GET /admin/reports/pdf, cuerpo
// binario con header Bearer).
func (c *Client) ReportPDF(ctx context.Context) ([]byte, error) {
	return c.CallBinary(ctx, "/admin/reports/pdf")
}
