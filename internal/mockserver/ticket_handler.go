package mockserver

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/taller-tickets/internal/application/dto"
	"github.com/tu-usuario/taller-tickets/internal/domain"
	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
)

var (
	estadosUsuario = map[string]bool{
		entity.EstadoUsuarioPendiente:  true,
		entity.EstadoUsuarioEnRevision: true,
		entity.EstadoUsuarioReparado:   true,
		entity.EstadoUsuarioCerrado:    true,
	}
	estadosInterno = map[string]bool{
		entity.EstadoInternoSinIniciar: true,
		entity.EstadoInternoEnProceso:  true,
		entity.EstadoInternoCompletado: true,
	}
	prioridades = map[string]bool{
		entity.PrioridadBaja:  true,
		entity.PrioridadMedia: true,
		entity.PrioridadAlta:  true,
	}
)

// Tickets devuelve la colección visible según el rol del caller.
func (s *Server) Tickets(c *fiber.Ctx) error {
	return c.JSON(s.store.TicketsPara(usuarioActual(c)))
}

// MyTickets devuelve los tickets asignados al técnico autenticado.
func (s *Server) MyTickets(c *fiber.Ctx) error {
	u := usuarioActual(c)
	if !u.EsTecnico() {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "requiere rol técnico"})
	}
	return c.JSON(s.store.TicketsDe(u.ID))
}

// CreateTicket crea un ticket. Los estados iniciales y la prioridad por
// defecto son cosa del servidor, no del formulario.
func (s *Server) CreateTicket(c *fiber.Ctx) error {
	var in dto.CreateTicketRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	errs := map[string][]string{}
	if in.TipoDispositivo == "" {
		errs["tipo_dispositivo"] = append(errs["tipo_dispositivo"], "el tipo de dispositivo es obligatorio")
	}
	if in.Marca == "" {
		errs["marca"] = append(errs["marca"], "la marca es obligatoria")
	}
	if in.Modelo == "" {
		errs["modelo"] = append(errs["modelo"], "el modelo es obligatorio")
	}
	if in.DescripcionProblema == "" {
		errs["descripcion_problema"] = append(errs["descripcion_problema"], "la descripción del problema es obligatoria")
	}
	if in.Prioridad != "" && !prioridades[in.Prioridad] {
		errs["prioridad"] = append(errs["prioridad"], "prioridad inválida: baja, media o alta")
	}
	if len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{Errors: errs})
	}

	u := usuarioActual(c)
	t := s.store.CrearTicket(u.ID, in.TipoDispositivo, in.Marca, in.Modelo, in.NumeroSerie, in.DescripcionProblema, in.Prioridad)
	return c.Status(fiber.StatusCreated).JSON(t)
}

// UpdateTicket aplica un parche parcial. Solo el técnico asignado o un
// admin pueden tocar un ticket; las transiciones se validan contra los
// dos ejes de estado independientes.
func (s *Server) UpdateTicket(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	var in dto.UpdateTicketRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	errs := map[string][]string{}
	if in.EstadoUsuario != nil && !estadosUsuario[*in.EstadoUsuario] {
		errs["estado_usuario"] = append(errs["estado_usuario"], "estado inválido")
	}
	if in.EstadoInterno != nil && !estadosInterno[*in.EstadoInterno] {
		errs["estado_interno"] = append(errs["estado_interno"], "estado inválido")
	}
	if in.Prioridad != nil && !prioridades[*in.Prioridad] {
		errs["prioridad"] = append(errs["prioridad"], "prioridad inválida")
	}
	if len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{Errors: errs})
	}

	actual, err := s.store.Ticket(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ticket no encontrado"})
	}
	u := usuarioActual(c)
	esSuyo := actual.TecnicoID != nil && *actual.TecnicoID == u.ID
	if !u.EsAdmin() && !esSuyo {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo el técnico asignado o un admin"})
	}

	t, err := s.store.ActualizarTicket(id, func(t *entity.Ticket) {
		if in.EstadoUsuario != nil {
			t.EstadoUsuario = *in.EstadoUsuario
		}
		if in.EstadoInterno != nil {
			t.EstadoInterno = *in.EstadoInterno
		}
		if in.Prioridad != nil {
			t.Prioridad = *in.Prioridad
		}
		if in.CostoTotal != nil {
			t.CostoTotal = *in.CostoTotal
		}
		if in.Abono != nil {
			t.Abono = *in.Abono
		}
		if in.ObservacionesTecnico != nil {
			t.ObservacionesTecnico = *in.ObservacionesTecnico
		}
	})
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ticket no encontrado"})
	}
	return c.JSON(t)
}

// AssignTicket asigna el ticket al técnico autenticado. Un ticket ya
// tomado responde 409: máximo un técnico por ticket.
func (s *Server) AssignTicket(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	u := usuarioActual(c)
	if !u.EsTecnico() {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "requiere rol técnico"})
	}
	if err := s.store.Asignar(id, u.ID); err != nil {
		if errors.Is(err, domain.ErrTicketTomado) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el ticket ya tiene técnico asignado"})
		}
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ticket no encontrado"})
	}
	t, _ := s.store.Ticket(id)
	return c.JSON(t)
}
