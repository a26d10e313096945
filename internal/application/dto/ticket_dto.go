package dto

import "github.com/shopspring/decimal"

// CreateTicketRequest entrada para crear un ticket desde recepción.
// Los estados iniciales y la prioridad por defecto los decide el
// servidor; por eso el cliente refetchea la colección en vez de
// construir el ticket localmente.
type CreateTicketRequest struct {
	TipoDispositivo     string `json:"tipo_dispositivo"`
	Marca               string `json:"marca"`
	Modelo              string `json:"modelo"`
	NumeroSerie         string `json:"numero_serie,omitempty"`
	DescripcionProblema string `json:"descripcion_problema"`
	Prioridad           string `json:"prioridad,omitempty"`
}

// UpdateTicketRequest parche parcial de un ticket (PATCH). Campos nil
// no se tocan. Las transiciones las valida el servidor.
type UpdateTicketRequest struct {
	EstadoUsuario        *string          `json:"estado_usuario,omitempty"`
	EstadoInterno        *string          `json:"estado_interno,omitempty"`
	Prioridad            *string          `json:"prioridad,omitempty"`
	CostoTotal           *decimal.Decimal `json:"costo_total,omitempty"`
	Abono                *decimal.Decimal `json:"abono,omitempty"`
	ObservacionesTecnico *string          `json:"observaciones_tecnico,omitempty"`
}

// SetRoleRequest entrada para cambiar el rol de un usuario (admin).
type SetRoleRequest struct {
	Rol string `json:"rol"`
}
