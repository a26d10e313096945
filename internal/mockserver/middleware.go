package mockserver

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tu-usuario/taller-tickets/internal/application/dto"
	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
	pkgjwt "github.com/tu-usuario/taller-tickets/pkg/jwt"
	"github.com/tu-usuario/taller-tickets/pkg/logger"
)

// Locals keys en Fiber.
const (
	localUser    = "usuario"
	localToken   = "token"
	localReqID   = "request_id"
)

// RequestID etiqueta cada request con un ID para correlacionar logs.
func RequestID(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := uuid.New().String()
		c.Locals(localReqID, id)
		log.Debug().Str("request_id", id).Str("method", c.Method()).Str("path", c.Path()).Msg("request")
		return c.Next()
	}
}

// AuthMiddleware valida el Bearer Token JWT, rechaza tokens revocados
// por logout y carga el usuario a c.Locals.
func AuthMiddleware(srv *Server) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, _, err := pkgjwt.Parse(srv.jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if srv.store.Revocado(tokenString) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "REVOKED_TOKEN", Message: "sesión cerrada"})
		}
		user, err := srv.store.Usuario(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "usuario inexistente"})
		}
		c.Locals(localUser, user)
		c.Locals(localToken, tokenString)
		return c.Next()
	}
}

// RequireAdmin autoriza solo al rol admin (después de AuthMiddleware).
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if u := usuarioActual(c); u == nil || !u.EsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "requiere rol admin"})
		}
		return c.Next()
	}
}

// usuarioActual devuelve el usuario cargado por AuthMiddleware.
func usuarioActual(c *fiber.Ctx) *entity.User {
	v := c.Locals(localUser)
	if v == nil {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

// tokenActual devuelve el token validado por AuthMiddleware.
func tokenActual(c *fiber.Ctx) string {
	v := c.Locals(localToken)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
