package mockserver

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
	"github.com/tu-usuario/taller-tickets/pkg/logger"
)

// ReportPDFGenerator genera la representación PDF de las estadísticas.
// Lo implementa pdf.MarotoReportGenerator.
type ReportPDFGenerator interface {
	GenerateReportPDF(ctx context.Context, stats entity.ReportStats) ([]byte, error)
}

// Config del servidor mock.
type Config struct {
	JWTSecret     string
	JWTIssuer     string
	JWTExpMinutes int
}

// Server arma la app fiber con el contrato REST del taller sobre el
// almacén en memoria.
type Server struct {
	store         *Store
	pdf           ReportPDFGenerator
	log           *logger.Logger
	jwtSecret     string
	jwtIssuer     string
	jwtExpMinutes int
}

// New construye el servidor mock.
func New(store *Store, pdf ReportPDFGenerator, log *logger.Logger, cfg Config) *Server {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.JWTExpMinutes <= 0 {
		cfg.JWTExpMinutes = 480
	}
	return &Server{
		store:         store,
		pdf:           pdf,
		log:           log,
		jwtSecret:     cfg.JWTSecret,
		jwtIssuer:     cfg.JWTIssuer,
		jwtExpMinutes: cfg.JWTExpMinutes,
	}
}

// App registra las rutas y devuelve la aplicación fiber lista para
// escuchar (o para app.Test en los tests de integración).
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "taller-tickets-mock",
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
	})
	app.Use(recover.New())
	app.Use(RequestID(s.log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "taller-tickets-mock"})
	})

	api := app.Group("/api")

	// Auth (público)
	api.Post("/login", s.Login)
	api.Post("/signup", s.Signup)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(s))
	protected.Post("/logout", s.Logout)
	protected.Get("/user", s.CurrentUser)

	protected.Get("/tickets", s.Tickets)
	protected.Post("/tickets", s.CreateTicket)
	protected.Get("/my-tickets", s.MyTickets)
	protected.Patch("/tickets/:id", s.UpdateTicket)
	protected.Post("/tickets/:id/assign", s.AssignTicket)

	// Panel admin
	admin := protected.Group("/admin", RequireAdmin())
	admin.Get("/users", s.AdminUsers)
	admin.Put("/users/:id/role", s.SetUserRole)
	admin.Delete("/users/:id", s.DeleteUser)
	admin.Get("/reports/stats", s.ReportStats)
	admin.Get("/reports/pdf", s.ReportPDF)

	return app
}

// Seed carga datos de demostración: un admin, un técnico y una
// recepcionista, con un par de tickets de ejemplo.
func (s *Server) Seed() error {
	admin, err := s.store.CrearUsuario("Admin Taller", "admin@taller.com", "admin12345", "", entity.RolAdmin)
	if err != nil {
		return err
	}
	tecnico, err := s.store.CrearUsuario("Carlos Técnico", "carlos@taller.com", "tecnico123", "", entity.RolTecnico)
	if err != nil {
		return err
	}
	recep, err := s.store.CrearUsuario("Rosa Recepción", "rosa@taller.com", "recepcion123", "", entity.RolRecepcionista)
	if err != nil {
		return err
	}

	s.store.CrearTicket(recep.ID, "laptop", "Lenovo", "ThinkPad T14", "SN-001", "no enciende", entity.PrioridadAlta)
	t := s.store.CrearTicket(recep.ID, "celular", "Samsung", "Galaxy S21", "SN-002", "pantalla rota", "")
	_ = s.store.Asignar(t.ID, tecnico.ID)

	s.log.Info().
		Int("admin", admin.ID).Int("tecnico", tecnico.ID).Int("recepcion", recep.ID).
		Msg("datos de demostración cargados")
	return nil
}
