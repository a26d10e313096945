package entity

import "github.com/shopspring/decimal"

// ReportStats estadísticas agregadas del taller para el panel admin.
// Las agrega el backend; el cliente solo las muestra o las baja en PDF.
type ReportStats struct {
	TotalTickets      int             `json:"total_tickets"`
	PorEstadoUsuario  map[string]int  `json:"por_estado_usuario"`
	PorEstadoInterno  map[string]int  `json:"por_estado_interno"`
	PorPrioridad      map[string]int  `json:"por_prioridad"`
	TicketsSinTecnico int             `json:"tickets_sin_tecnico"`
	TotalFacturado    decimal.Decimal `json:"total_facturado"`
	TotalAbonado      decimal.Decimal `json:"total_abonado"`
}
