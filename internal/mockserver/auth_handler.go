package mockserver

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/taller-tickets/internal/application/dto"
	"github.com/tu-usuario/taller-tickets/internal/domain"
	pkgjwt "github.com/tu-usuario/taller-tickets/pkg/jwt"
)

// Login autentica y devuelve {token, user, rol}: el rol viaja como
// campo hermano del user, igual que la API que el cliente corrige con
// su merge.
func (s *Server) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	errs := map[string][]string{}
	if in.Email == "" {
		errs["email"] = append(errs["email"], "el email es obligatorio")
	}
	if in.Password == "" {
		errs["password"] = append(errs["password"], "la contraseña es obligatoria")
	}
	if len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{Errors: errs})
	}

	user, err := s.store.Autenticar(in.Email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	token, err := pkgjwt.Generate(s.jwtSecret, user.ID, user.Rol, s.jwtIssuer, s.jwtExpMinutes)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.LoginResponse{Token: token, User: *user, Rol: user.Rol})
}

// Signup registra un usuario. No emite sesión: el cliente vuelve al
// login después.
func (s *Server) Signup(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	errs := map[string][]string{}
	if in.Nombre == "" {
		errs["nombre"] = append(errs["nombre"], "el nombre es obligatorio")
	}
	if in.Email == "" {
		errs["email"] = append(errs["email"], "el email es obligatorio")
	}
	if len(in.Password) < 8 {
		errs["password"] = append(errs["password"], "la contraseña debe tener al menos 8 caracteres")
	}
	if len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{Errors: errs})
	}

	user, err := s.store.CrearUsuario(in.Nombre, in.Email, in.Password, in.Telefono, "")
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
				Errors: map[string][]string{"email": {"el email ya está registrado"}},
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Logout revoca el token de la sesión actual.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.store.Revocar(tokenActual(c))
	return c.SendStatus(fiber.StatusNoContent)
}

// CurrentUser devuelve el usuario de la sesión.
func (s *Server) CurrentUser(c *fiber.Ctx) error {
	return c.JSON(usuarioActual(c))
}
