package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados visibles para el cliente (eje estado_usuario).
const (
	EstadoUsuarioPendiente  = "pendiente"
	EstadoUsuarioEnRevision = "en_revision"
	EstadoUsuarioReparado   = "reparado"
	EstadoUsuarioCerrado    = "cerrado"
)

// Estados internos del taller (eje estado_interno). Son independientes
// del eje estado_usuario: el backend mantiene los dos por separado.
const (
	EstadoInternoSinIniciar = "sin_iniciar"
	EstadoInternoEnProceso  = "en_proceso"
	EstadoInternoCompletado = "completado"
)

// Prioridades válidas para un ticket.
const (
	PrioridadBaja  = "baja"
	PrioridadMedia = "media"
	PrioridadAlta  = "alta"
)

// Ticket representa un caso de reparación: el dispositivo de un cliente
// desde la recepción hasta el cierre. Todos los campos los computa y
// valida el backend; el cliente nunca deriva transiciones de estado,
// solo las solicita.
type Ticket struct {
	ID                   int             `json:"id"`
	UsuarioID            int             `json:"usuario_id"`
	Cliente              string          `json:"cliente,omitempty"`
	TecnicoID            *int            `json:"tecnico_id"` // nil = sin técnico asignado
	Tecnico              string          `json:"tecnico,omitempty"`
	TipoDispositivo      string          `json:"tipo_dispositivo"`
	Marca                string          `json:"marca"`
	Modelo               string          `json:"modelo"`
	NumeroSerie          string          `json:"numero_serie,omitempty"`
	DescripcionProblema  string          `json:"descripcion_problema"`
	EstadoUsuario        string          `json:"estado_usuario"`
	EstadoInterno        string          `json:"estado_interno"`
	Prioridad            string          `json:"prioridad"`
	CostoTotal           decimal.Decimal `json:"costo_total"`
	Abono                decimal.Decimal `json:"abono"`
	ObservacionesTecnico string          `json:"observaciones_tecnico,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// Disponible indica si el ticket puede ser tomado por un técnico:
// exactamente los tickets sin técnico asignado.
func (t *Ticket) Disponible() bool { return t.TecnicoID == nil }

// Saldo devuelve lo pendiente de pago (costo_total - abono).
func (t *Ticket) Saldo() decimal.Decimal { return t.CostoTotal.Sub(t.Abono) }
