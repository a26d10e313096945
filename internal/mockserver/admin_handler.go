package mockserver

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/taller-tickets/internal/application/dto"
	"github.com/tu-usuario/taller-tickets/internal/domain"
	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
)

var rolesValidos = map[string]bool{
	entity.RolAdmin:         true,
	entity.RolTecnico:       true,
	entity.RolUsuario:       true,
	entity.RolRecepcionista: true,
}

// AdminUsers lista usuarios, con filtro opcional ?role=.
func (s *Server) AdminUsers(c *fiber.Ctx) error {
	rol := c.Query("role")
	if rol != "" && !rolesValidos[rol] {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
			Errors: map[string][]string{"role": {"rol inválido"}},
		})
	}
	return c.JSON(s.store.Usuarios(rol))
}

// SetUserRole cambia el rol de un usuario.
func (s *Server) SetUserRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	var in dto.SetRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if !rolesValidos[in.Rol] {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
			Errors: map[string][]string{"rol": {"rol inválido"}},
		})
	}
	if err := s.store.CambiarRol(id, in.Rol); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
	}
	u, _ := s.store.Usuario(id)
	return c.JSON(u)
}

// DeleteUser elimina un usuario. Un admin no puede eliminarse a sí
// mismo: dejaría el panel sin sesión válida a mitad de operación.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	if id == usuarioActual(c).ID {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "no podés eliminar tu propia cuenta"})
	}
	if err := s.store.EliminarUsuario(id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReportStats devuelve las estadísticas agregadas.
func (s *Server) ReportStats(c *fiber.Ctx) error {
	return c.JSON(s.store.Stats())
}

// ReportPDF genera y devuelve el reporte en PDF.
func (s *Server) ReportPDF(c *fiber.Ctx) error {
	stats := s.store.Stats()
	raw, err := s.pdf.GenerateReportPDF(c.Context(), stats)
	if err != nil {
		s.log.Error().Err(err).Msg("generación del PDF de reportes")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo generar el PDF"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reporte-taller.pdf"`)
	return c.Send(raw)
}
